package visits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"appointment-visit-audit/internal/model"
)

func strPtr(s string) *string { return &s }

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func at(loc *time.Location, year int, month time.Month, day int) *time.Time {
	ts := time.Date(year, month, day, 10, 0, 0, 0, loc)
	return &ts
}

// record builds a joined record for the default identity.
func record(calendar, first, phone string, start *time.Time, include *string) model.Record {
	return model.Record{
		Appointment: model.Appointment{
			Type:      strPtr("Initial Session"),
			Calendar:  calendar,
			FirstName: first,
			LastName:  "Doe",
			Phone:     phone,
			Email:     model.NotAvailable,
			StartTime: start,
			FullName:  first + " Doe",
		},
		IncludeOrNotInclude: include,
	}
}

func ready(records ...model.Record) Filtered {
	return Filtered{State: stateOf(len(records)), Records: records}
}
