package model

import (
	"fmt"
	"strings"
)

// Inclusion classifies a reference-table inclusion flag.
type Inclusion int

const (
	InclusionUnknown Inclusion = iota
	InclusionYes
	InclusionNo
)

func (i Inclusion) String() string {
	switch i {
	case InclusionYes:
		return "yes"
	case InclusionNo:
		return "no"
	default:
		return "unknown"
	}
}

// ClassifyInclusion maps a raw flag to its tri-state. Null and any value
// other than yes/no (after trimming and lowercasing) are unknown.
func ClassifyInclusion(flag *string) Inclusion {
	if flag == nil {
		return InclusionUnknown
	}
	switch strings.ToLower(strings.TrimSpace(*flag)) {
	case "yes":
		return InclusionYes
	case "no":
		return InclusionNo
	}
	return InclusionUnknown
}

// Selector chooses which inclusion flag value the analytical table keeps.
type Selector int

const (
	SelectUnset Selector = iota
	SelectYes
	SelectNo
)

func ParseSelector(value string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes":
		return SelectYes, nil
	case "no":
		return SelectNo, nil
	case "unset":
		return SelectUnset, nil
	}
	return SelectUnset, fmt.Errorf("invalid inclusion selector: %q", value)
}

func (s Selector) String() string {
	switch s {
	case SelectYes:
		return "yes"
	case SelectNo:
		return "no"
	default:
		return "unset"
	}
}

// Matches reports whether a row carrying flag is kept under s. The unset
// selector keeps only rows whose flag is null; other unrecognized values are
// never kept.
func (s Selector) Matches(flag *string) bool {
	if s == SelectUnset {
		return flag == nil
	}
	if flag == nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(*flag)) == s.String()
}
