package model

import (
	"fmt"
	"strings"
)

// Attribute names an identity column used to tell individuals apart.
type Attribute string

const (
	AttrCalendar  Attribute = "calendar"
	AttrFirstName Attribute = "first_name"
	AttrLastName  Attribute = "last_name"
	AttrPhone     Attribute = "phone"
	AttrEmail     Attribute = "email"
)

// DefaultIdentity is the grouping used when none is configured. Order matters.
func DefaultIdentity() []Attribute {
	return []Attribute{AttrCalendar, AttrFirstName, AttrPhone}
}

// AttributeNames lists every attribute an identity may be built from.
func AttributeNames() []string {
	return []string{string(AttrCalendar), string(AttrFirstName), string(AttrLastName), string(AttrPhone), string(AttrEmail)}
}

func ParseAttributes(names []string) ([]Attribute, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one identity attribute is required")
	}
	seen := make(map[Attribute]bool, len(names))
	attrs := make([]Attribute, 0, len(names))
	for _, name := range names {
		attr := Attribute(strings.ToLower(strings.TrimSpace(name)))
		if !attr.Valid() {
			return nil, fmt.Errorf("unknown identity attribute: %s", name)
		}
		if seen[attr] {
			return nil, fmt.Errorf("duplicate identity attribute: %s", name)
		}
		seen[attr] = true
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (a Attribute) Valid() bool {
	switch a {
	case AttrCalendar, AttrFirstName, AttrLastName, AttrPhone, AttrEmail:
		return true
	}
	return false
}

// Value returns the normalized identity text for the attribute.
func (a Appointment) Value(attr Attribute) (string, bool) {
	switch attr {
	case AttrCalendar:
		return a.Calendar, true
	case AttrFirstName:
		return a.FirstName, true
	case AttrLastName:
		return a.LastName, true
	case AttrPhone:
		return a.Phone, true
	case AttrEmail:
		return a.Email, true
	}
	return "", false
}
