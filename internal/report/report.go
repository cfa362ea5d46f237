// Package report renders pipeline results as a printed summary, a JSON
// document and a CSV export of the sequenced table.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"appointment-visit-audit/internal/model"
	"appointment-visit-audit/internal/normalize"
	"appointment-visit-audit/internal/visits"
)

const (
	MessageMissing = "Please upload both Data and Reference files to continue. No data to display yet."
	MessageEmpty   = "No records match the current inclusion selection."
	MessageNoVisit = "No dated appointments found for this client."
)

// Inputs echoes the configuration a report was produced with.
type Inputs struct {
	Appointments string   `json:"appointments"`
	References   string   `json:"references"`
	Identity     []string `json:"identity"`
	Include      string   `json:"include"`
	Timezone     string   `json:"timezone"`
}

// Row is one sequenced appointment as exported.
type Row struct {
	FirstName                  string     `json:"first_name"`
	LastName                   string     `json:"last_name"`
	FullName                   string     `json:"full_name"`
	Phone                      string     `json:"phone"`
	Email                      string     `json:"email"`
	Calendar                   string     `json:"calendar"`
	Type                       *string    `json:"type"`
	RevisedType                *string    `json:"revised_type"`
	StartTime                  *time.Time `json:"start_time"`
	AppointmentNumber          int        `json:"appointment_number"`
	MonthsSinceLastAppointment *int       `json:"months_since_last_appointment"`
	MaxAppointmentNumber       *int       `json:"max_appointment_number"`
}

type Report struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Inputs      Inputs             `json:"inputs"`
	State       visits.State       `json:"state"`
	Quality     *normalize.Quality `json:"data_quality,omitempty"`
	Unmatched   int                `json:"unmatched_types"`
	Status      visits.Status      `json:"records_status"`
	Summary     visits.Summary     `json:"distribution"`
	Clients     []string           `json:"clients"`
	Client      *visits.Recency    `json:"client,omitempty"`
	Rows        []Row              `json:"appointments"`
}

func Build(runID string, now time.Time, inputs Inputs, result *visits.Result) Report {
	rep := Report{
		RunID:       runID,
		GeneratedAt: now,
		Inputs:      inputs,
		State:       result.Sequenced.State,
		Quality:     result.Quality,
		Unmatched:   result.Joined.Unmatched,
		Status:      result.Status,
		Summary:     result.Summary,
		Clients:     result.Clients,
		Client:      result.Recency,
		Rows:        make([]Row, 0, len(result.Sequenced.Rows)),
	}
	for _, seq := range result.Sequenced.Rows {
		rep.Rows = append(rep.Rows, toRow(seq))
	}
	return rep
}

func toRow(seq model.SequencedAppointment) Row {
	return Row{
		FirstName:                  seq.FirstName,
		LastName:                   seq.LastName,
		FullName:                   seq.FullName,
		Phone:                      seq.Phone,
		Email:                      seq.Email,
		Calendar:                   seq.Calendar,
		Type:                       seq.Type,
		RevisedType:                seq.RevisedType,
		StartTime:                  seq.StartTime,
		AppointmentNumber:          seq.AppointmentNumber,
		MonthsSinceLastAppointment: seq.MonthsSinceLast,
		MaxAppointmentNumber:       seq.MaxAppointmentNumber,
	}
}

func stateMessage(state visits.State) string {
	if state == visits.StateMissing {
		return MessageMissing
	}
	return MessageEmpty
}

func Print(w io.Writer, rep Report) {
	fmt.Fprintln(w, "Visit Sequencing & Recency Audit")
	fmt.Fprintln(w, strings.Repeat("=", 38))
	fmt.Fprintf(w, "Run: %s\n", rep.RunID)
	fmt.Fprintf(w, "Appointments: %s\n", orDash(rep.Inputs.Appointments))
	fmt.Fprintf(w, "References: %s\n", orDash(rep.Inputs.References))
	fmt.Fprintf(w, "Identity: %s | Include: %s\n", strings.Join(rep.Inputs.Identity, ", "), rep.Inputs.Include)
	if rep.Quality != nil {
		q := rep.Quality
		if q.UnparsedStartTime+q.UnparsedEndTime+q.UnparsedDates+q.UnparsedPrices+q.UnparsedIDs > 0 {
			fmt.Fprintf(w, "Unparsed values set to null: start %d | end %d | dates %d | prices %d | ids %d\n",
				q.UnparsedStartTime, q.UnparsedEndTime, q.UnparsedDates, q.UnparsedPrices, q.UnparsedIDs)
		}
	}

	fmt.Fprintln(w, "\nRecords status")
	fmt.Fprintln(w, strings.Repeat("-", 38))
	if rep.Status.State == visits.StateMissing {
		fmt.Fprintln(w, MessageMissing)
	} else {
		fmt.Fprintf(w, "Kept: %d | Dropped: %d | Needs review: %d\n", rep.Status.Kept, rep.Status.Dropped, rep.Status.NeedsReview)
		if rep.Unmatched > 0 {
			fmt.Fprintf(w, "Appointment types without a reference row: %d\n", rep.Unmatched)
		}
	}

	fmt.Fprintln(w, "\nKey performance indicators")
	fmt.Fprintln(w, strings.Repeat("-", 38))
	if rep.Summary.State != visits.StateReady {
		fmt.Fprintln(w, stateMessage(rep.Summary.State))
	} else {
		k := rep.Summary.KPIs
		fmt.Fprintf(w, "Total appointment records: %d\n", k.TotalAppointments)
		fmt.Fprintf(w, "Individuals: %d\n", k.Individuals)
		fmt.Fprintf(w, "Appointments per person median/max: %.1f / %d\n", k.MedianAppointments, k.MaxAppointments)
	}

	fmt.Fprintln(w, "\nClient appointment distribution")
	fmt.Fprintln(w, strings.Repeat("-", 38))
	if rep.Summary.State != visits.StateReady {
		fmt.Fprintln(w, stateMessage(rep.Summary.State))
	} else {
		printHistogram(w, rep.Summary)
	}

	fmt.Fprintln(w, "\nIndividual summary")
	fmt.Fprintln(w, strings.Repeat("-", 38))
	printClient(w, rep)
}

func printHistogram(w io.Writer, summary visits.Summary) {
	for _, bin := range summary.Histogram {
		marker := " "
		if bin.Mode {
			marker = "*"
		}
		fmt.Fprintf(w, "%s [%6.1f, %6.1f) %4d %s\n", marker, bin.Start, bin.End, bin.Count, strings.Repeat("#", bin.Count))
	}
	fmt.Fprintf(w, "Median appointments: %.1f (* most common range)\n", summary.KPIs.MedianAppointments)
}

func printClient(w io.Writer, rep Report) {
	switch {
	case rep.State == visits.StateMissing:
		fmt.Fprintln(w, "Upload both Data and Reference files to enable client selection.")
		return
	case rep.Client == nil:
		fmt.Fprintf(w, "Select a client with --client to see a summary (%d clients available).\n", len(rep.Clients))
		return
	}

	c := rep.Client
	fmt.Fprintf(w, "Client: %s\n", c.FullName)
	if c.State != visits.StateReady {
		if c.Appointments == 0 {
			fmt.Fprintln(w, "No appointments found for this client.")
		} else {
			fmt.Fprintln(w, MessageNoVisit)
		}
		return
	}
	fmt.Fprintf(w, "Today's date: %s\n", c.Now.Format("2006-01-02"))
	fmt.Fprintf(w, "Last visit date: %s\n", c.LastVisit.Format("2006-01-02"))
	fmt.Fprintf(w, "Months since last visit: %s (%d months)\n", c.Human, c.Months)
	fmt.Fprintf(w, "No. of appointments: %d\n", c.Appointments)
	for _, row := range c.Rows {
		fmt.Fprintf(w, "  #%d | %s | %s | %s\n", row.AppointmentNumber, formatTime(row.StartTime), orDash(deref(row.Type)), row.Calendar)
	}
}

func WriteJSON(rep Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteTableCSV exports the sequenced table.
func WriteTableCSV(rep Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeTable(file, rep.Rows)
}

func writeTable(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{
		"first_name",
		"last_name",
		"full_name",
		"phone",
		"email",
		"calendar",
		"type",
		"revised_type",
		"start_time",
		"appointment_number",
		"months_since_last_appointment",
		"max_appointment_number",
	}); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.FirstName,
			row.LastName,
			row.FullName,
			row.Phone,
			row.Email,
			row.Calendar,
			deref(row.Type),
			deref(row.RevisedType),
			formatTime(row.StartTime),
			strconv.Itoa(row.AppointmentNumber),
			formatInt(row.MonthsSinceLastAppointment),
			formatInt(row.MaxAppointmentNumber),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(time.RFC3339)
}

func formatInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
