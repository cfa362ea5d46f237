package visits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointment-visit-audit/internal/model"
)

func TestMonthDeltaIgnoresDayOfMonth(t *testing.T) {
	loc := newYork(t)
	assert.Equal(t, 1, MonthDelta(*at(loc, 2024, time.January, 31), *at(loc, 2024, time.February, 1)))
	assert.Equal(t, 1, MonthDelta(*at(loc, 2024, time.January, 1), *at(loc, 2024, time.February, 28)))
	assert.Equal(t, 13, MonthDelta(*at(loc, 2023, time.December, 31), *at(loc, 2025, time.January, 1)))
	assert.Equal(t, 0, MonthDelta(*at(loc, 2024, time.May, 1), *at(loc, 2024, time.May, 31)))
	assert.Equal(t, -2, MonthDelta(*at(loc, 2024, time.March, 1), *at(loc, 2024, time.January, 20)))
}

func TestSequenceTwoVisitScenario(t *testing.T) {
	loc := newYork(t)
	f := ready(
		record("Main", "Alice", "+1 (555) 123-4567", at(loc, 2024, time.March, 15), strPtr("Yes")),
		record("Main", "Alice", "+1 (555) 123-4567", at(loc, 2024, time.January, 10), strPtr("Yes")),
	)

	seq, err := Sequence(f, model.DefaultIdentity())
	require.NoError(t, err)
	require.Equal(t, StateReady, seq.State)
	require.Len(t, seq.Rows, 2)

	first, second := seq.Rows[0], seq.Rows[1]
	assert.Equal(t, time.January, first.StartTime.Month())
	assert.Equal(t, 1, first.AppointmentNumber)
	assert.Nil(t, first.MonthsSinceLast)
	assert.Nil(t, first.MaxAppointmentNumber)

	assert.Equal(t, 2, second.AppointmentNumber)
	require.NotNil(t, second.MonthsSinceLast)
	assert.Equal(t, 2, *second.MonthsSinceLast)
	require.NotNil(t, second.MaxAppointmentNumber)
	assert.Equal(t, 2, *second.MaxAppointmentNumber)
}

func TestSequenceOrdinalsAreContiguousPerGroup(t *testing.T) {
	loc := newYork(t)
	var records []model.Record
	sizes := map[string]int{"Ann": 5, "Bob": 1, "Cy": 3}
	for name, size := range sizes {
		for i := 0; i < size; i++ {
			records = append(records, record("Main", name, "p", at(loc, 2024, time.Month(12-i), 1), nil))
		}
	}

	seq, err := Sequence(ready(records...), model.DefaultIdentity())
	require.NoError(t, err)

	ordinals := map[string][]int{}
	finals := map[string][]int{}
	for _, row := range seq.Rows {
		ordinals[row.FirstName] = append(ordinals[row.FirstName], row.AppointmentNumber)
		if row.MaxAppointmentNumber != nil {
			finals[row.FirstName] = append(finals[row.FirstName], *row.MaxAppointmentNumber)
		}
	}
	for name, size := range sizes {
		want := make([]int, size)
		for i := range want {
			want[i] = i + 1
		}
		assert.Equal(t, want, ordinals[name], name)
		assert.Equal(t, []int{size}, finals[name], name)
	}
}

func TestSequenceSingleVisitGroup(t *testing.T) {
	loc := newYork(t)
	seq, err := Sequence(ready(record("Main", "Solo", "p", at(loc, 2024, time.June, 1), nil)), model.DefaultIdentity())
	require.NoError(t, err)
	require.Len(t, seq.Rows, 1)
	row := seq.Rows[0]
	assert.Equal(t, 1, row.AppointmentNumber)
	assert.Nil(t, row.MonthsSinceLast)
	require.NotNil(t, row.MaxAppointmentNumber)
	assert.Equal(t, 1, *row.MaxAppointmentNumber)
}

func TestSequenceGroupsByConfiguredAttributes(t *testing.T) {
	loc := newYork(t)
	f := ready(
		record("Main", "Ann", "111", at(loc, 2024, time.January, 1), nil),
		record("Main", "Ann", "222", at(loc, 2024, time.February, 1), nil),
		record("Annex", "Ann", "111", at(loc, 2024, time.March, 1), nil),
	)

	byDefault, err := Sequence(f, model.DefaultIdentity())
	require.NoError(t, err)
	for _, row := range byDefault.Rows {
		assert.Equal(t, 1, row.AppointmentNumber)
	}

	byName, err := Sequence(f, []model.Attribute{model.AttrFirstName})
	require.NoError(t, err)
	numbers := []int{}
	for _, row := range byName.Rows {
		numbers = append(numbers, row.AppointmentNumber)
	}
	assert.Equal(t, []int{1, 2, 3}, numbers)
	assert.Equal(t, "Main", byName.Rows[0].Calendar)
	assert.Equal(t, "Annex", byName.Rows[2].Calendar)
}

func TestSequenceNullStartSortsFirst(t *testing.T) {
	loc := newYork(t)
	f := ready(
		record("Main", "Ann", "p", at(loc, 2024, time.April, 1), nil),
		record("Main", "Ann", "p", nil, nil),
		record("Main", "Ann", "p", at(loc, 2024, time.January, 1), nil),
	)

	seq, err := Sequence(f, model.DefaultIdentity())
	require.NoError(t, err)
	require.Len(t, seq.Rows, 3)

	assert.Nil(t, seq.Rows[0].StartTime)
	assert.Equal(t, 1, seq.Rows[0].AppointmentNumber)
	assert.Nil(t, seq.Rows[0].MonthsSinceLast)

	// the delta against the null row is null
	assert.Equal(t, 2, seq.Rows[1].AppointmentNumber)
	assert.Nil(t, seq.Rows[1].MonthsSinceLast)

	require.NotNil(t, seq.Rows[2].MonthsSinceLast)
	assert.Equal(t, 3, *seq.Rows[2].MonthsSinceLast)
	require.NotNil(t, seq.Rows[2].MaxAppointmentNumber)
	assert.Equal(t, 3, *seq.Rows[2].MaxAppointmentNumber)
}

func TestSequenceIsStableForEqualTimestamps(t *testing.T) {
	loc := newYork(t)
	same := at(loc, 2024, time.May, 5)
	a := record("Main", "Ann", "p", same, nil)
	a.Type = strPtr("First")
	b := record("Main", "Ann", "p", same, nil)
	b.Type = strPtr("Second")

	seq, err := Sequence(ready(a, b), model.DefaultIdentity())
	require.NoError(t, err)
	assert.Equal(t, "First", *seq.Rows[0].Type)
	assert.Equal(t, "Second", *seq.Rows[1].Type)
	require.NotNil(t, seq.Rows[1].MonthsSinceLast)
	assert.Equal(t, 0, *seq.Rows[1].MonthsSinceLast)
}

func TestSequenceIsDeterministic(t *testing.T) {
	loc := newYork(t)
	f := ready(
		record("Main", "Cy", "p", at(loc, 2024, time.May, 5), nil),
		record("Main", "Ann", "p", at(loc, 2024, time.May, 5), nil),
		record("Main", "Ann", "p", nil, nil),
		record("Annex", "Bob", "q", at(loc, 2023, time.May, 5), nil),
	)
	first, err := Sequence(f, model.DefaultIdentity())
	require.NoError(t, err)
	second, err := Sequence(f, model.DefaultIdentity())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSequencePropagatesStateAndRejectsUnknownAttributes(t *testing.T) {
	seq, err := Sequence(Filtered{State: StateMissing}, model.DefaultIdentity())
	require.NoError(t, err)
	assert.Equal(t, StateMissing, seq.State)

	seq, err = Sequence(Filtered{State: StateEmpty}, model.DefaultIdentity())
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, seq.State)
	assert.Empty(t, seq.Rows)

	_, err = Sequence(ready(), []model.Attribute{"nickname"})
	assert.Error(t, err)
	_, err = Sequence(ready(), nil)
	assert.Error(t, err)
}
