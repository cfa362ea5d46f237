package visits

import (
	"fmt"
	"sort"
	"time"

	"appointment-visit-audit/internal/model"
)

// Recency summarizes how long ago one individual last visited.
type Recency struct {
	State        State                        `json:"state"`
	FullName     string                       `json:"full_name"`
	Now          time.Time                    `json:"now"`
	LastVisit    *time.Time                   `json:"last_visit,omitempty"`
	Months       int                          `json:"months_since_last_visit"`
	Human        string                       `json:"months_since_last_visit_human"`
	Appointments int                          `json:"appointments"`
	Rows         []model.SequencedAppointment `json:"appointments_detail"`
}

// ClientNames lists the distinct full names in the sequenced table, sorted.
func ClientNames(s Sequenced) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, row := range s.Rows {
		if row.FullName == "" || seen[row.FullName] {
			continue
		}
		seen[row.FullName] = true
		names = append(names, row.FullName)
	}
	sort.Strings(names)
	return names
}

// Individual returns the sequenced rows for one full name, in table order.
func Individual(s Sequenced, fullName string) []model.SequencedAppointment {
	var rows []model.SequencedAppointment
	for _, row := range s.Rows {
		if row.FullName == fullName {
			rows = append(rows, row)
		}
	}
	return rows
}

// ComputeRecency measures calendar months from an individual's last visit to
// now. The last visit is the terminal row with the latest start time; if no
// row is terminal, the latest start time overall. With no rows, or no start
// time on the chosen row, the result is StateEmpty.
func ComputeRecency(rows []model.SequencedAppointment, now time.Time) Recency {
	rec := Recency{State: StateEmpty, Now: now, Appointments: len(rows), Rows: rows}
	if len(rows) == 0 {
		return rec
	}
	rec.FullName = rows[0].FullName

	last, ok := lastVisit(rows, func(row model.SequencedAppointment) bool {
		return row.MaxAppointmentNumber != nil
	})
	if !ok {
		last, ok = lastVisit(rows, func(model.SequencedAppointment) bool { return true })
	}
	if !ok || last.StartTime == nil {
		return rec
	}

	visit := *last.StartTime
	rec.State = StateReady
	rec.LastVisit = &visit
	rec.Months = MonthDelta(visit, now.In(visit.Location()))
	rec.Human = HumanMonths(rec.Months)
	return rec
}

// lastVisit picks, among rows accepted by keep, the one with the latest start
// time. Rows without a start time lose to any row that has one.
func lastVisit(rows []model.SequencedAppointment, keep func(model.SequencedAppointment) bool) (model.SequencedAppointment, bool) {
	var (
		best  model.SequencedAppointment
		found bool
	)
	for _, row := range rows {
		if !keep(row) {
			continue
		}
		if !found || startBefore(best.StartTime, row.StartTime) {
			best = row
			found = true
		}
	}
	return best, found
}

// HumanMonths renders a month count as "{years} years {months} months" using
// floor division.
func HumanMonths(total int) string {
	years := total / 12
	months := total % 12
	if months < 0 {
		years--
		months += 12
	}
	return fmt.Sprintf("%d years %d months", years, months)
}
