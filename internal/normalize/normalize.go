// Package normalize cleans raw upload values into canonical appointment and
// reference records.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"appointment-visit-audit/internal/model"
)

// Layouts expected in uploads.
const (
	TimestampLayout = "January 2, 2006 3:04 PM"
	DateLayout      = "2006-01-02"
)

//nolint:gochecknoglobals // compiled once
var (
	nonWordPattern    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SnakeCase converts a header such as "Initial / Touch up" to
// "initial_touch_up": punctuation is dropped and whitespace runs become a
// single underscore.
func SnakeCase(name string) string {
	name = nonWordPattern.ReplaceAllString(strings.TrimSpace(name), "")
	name = whitespacePattern.ReplaceAllString(name, "_")
	return strings.ToLower(name)
}

// Phone formats a North American number as "+1 (AAA) BBB-CCCC". Fewer than
// ten digits are left padded with zeros, so text with no digits at all reads
// as "+1 (000) 000-0000". Longer numbers are returned unchanged. Blank input
// and "N/A" become "N/A".
func Phone(raw string) string {
	if trimmed := strings.TrimSpace(raw); trimmed == "" || trimmed == model.NotAvailable {
		return model.NotAvailable
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) < 10 {
		digits = strings.Repeat("0", 10-len(digits)) + digits
	}
	if len(digits) == 10 {
		return fmt.Sprintf("+1 (%s) %s-%s", digits[:3], digits[3:6], digits[6:])
	}
	return raw
}

// Titler title-cases text. It wraps a stateful cases.Caser and must not be
// shared between goroutines.
type Titler struct {
	caser cases.Caser
}

func NewTitler() *Titler {
	return &Titler{caser: cases.Title(language.Und)}
}

func (t *Titler) Title(value string) string {
	return t.caser.String(value)
}

// TitleOr title-cases value, or returns fallback when it is null or blank.
func (t *Titler) TitleOr(value string, ok bool, fallback string) string {
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return t.Title(value)
}

// TitlePtr title-cases a nullable value, keeping null as null.
func (t *Titler) TitlePtr(value string, ok bool) *string {
	if !ok {
		return nil
	}
	titled := t.Title(value)
	return &titled
}

// JoinKey folds a categorical value for matching: case and whitespace runs
// are ignored.
func JoinKey(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}

// ParseTimestamp reads value with TimestampLayout in loc. Anything that does
// not match yields nil.
func ParseTimestamp(value string, loc *time.Location) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := time.ParseInLocation(TimestampLayout, value, loc)
	if err != nil {
		return nil
	}
	return &parsed
}

func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil
	}
	return &parsed
}

// ParsePrice strips thousands separators and parses a float.
func ParsePrice(value string) *float64 {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func ParseInt(value string) *int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
