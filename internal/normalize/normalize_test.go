package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5551234567", "+1 (555) 123-4567"},
		{"(555) 123-4567", "+1 (555) 123-4567"},
		{"1-555-123-4567", "+1 (555) 123-4567"},
		{"+1 555.123.4567", "+1 (555) 123-4567"},
		// Short numbers are zero padded
		{"1234567", "+1 (000) 123-4567"},
		// Eleven digits without a leading 1 cannot be formatted
		{"25551234567", "25551234567"},
		{"555123456789", "555123456789"},
		// Blank input and the N/A sentinel
		{"", "N/A"},
		{"   ", "N/A"},
		{"N/A", "N/A"},
		// Digit-free text pads to all zeros
		{"unknown", "+1 (000) 000-0000"},
		{"none", "+1 (000) 000-0000"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Phone(tt.input))
		})
	}
}

func TestPhoneIdempotent(t *testing.T) {
	inputs := []string{"5551234567", "1234567", "1-800-555-0199", "25551234567", "", "N/A", "12", "unknown"}
	for _, input := range inputs {
		once := Phone(input)
		assert.Equal(t, once, Phone(once), "input %q", input)
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Start Time", "start_time"},
		{"Paid?", "paid"},
		{"Initial / Touch up", "initial_touch_up"},
		{"Include or not include", "include_or_not_include"},
		{"Amount  Paid\tOnline", "amount_paid_online"},
		{" First Name ", "first_name"},
		{"appointment_id", "appointment_id"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SnakeCase(tt.input))
		})
	}
}

func TestTitle(t *testing.T) {
	titler := NewTitler()
	assert.Equal(t, "Jane Doe", titler.Title("jane DOE"))
	assert.Equal(t, "Main", titler.Title("MAIN"))
	assert.Equal(t, "N/A", titler.TitleOr("", true, "N/A"))
	assert.Equal(t, "N/A", titler.TitleOr("x", false, "N/A"))
	assert.Nil(t, titler.TitlePtr("", false))
	require.NotNil(t, titler.TitlePtr("yes", true))
	assert.Equal(t, "Yes", *titler.TitlePtr("yes", true))
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "brow touch up", JoinKey("  Brow   TOUCH up "))
	assert.Equal(t, JoinKey("Initial Session"), JoinKey("initial  session"))
}

func TestParseTimestamp(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	parsed := ParseTimestamp("January 10, 2024 3:30 PM", loc)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2024, time.January, 10, 15, 30, 0, 0, loc), *parsed)
	assert.Equal(t, loc, parsed.Location())

	assert.Nil(t, ParseTimestamp("2024-01-10 15:30", loc))
	assert.Nil(t, ParseTimestamp("", loc))
	assert.Nil(t, ParseTimestamp("Smarch 3, 2024 1:00 PM", loc))
}

func TestParseDatePriceInt(t *testing.T) {
	date := ParseDate("2024-03-15")
	require.NotNil(t, date)
	assert.Equal(t, 15, date.Day())
	assert.Nil(t, ParseDate("03/15/2024"))

	price := ParsePrice("1,250.50")
	require.NotNil(t, price)
	assert.InDelta(t, 1250.5, *price, 1e-9)
	assert.Nil(t, ParsePrice("free"))
	assert.Nil(t, ParsePrice(""))

	id := ParseInt("42")
	require.NotNil(t, id)
	assert.Equal(t, int64(42), *id)
	assert.Nil(t, ParseInt("4x2"))
}
