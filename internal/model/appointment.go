package model

import "time"

// NotAvailable stands in for identity text that was absent in the upload.
const NotAvailable = "N/A"

// Appointment is one cleaned row of the appointment upload. Identity text
// fields hold "N/A" when absent; optional fields are nil when absent or
// unparseable.
type Appointment struct {
	AppointmentID     *int64
	Type              *string
	Calendar          string
	FirstName         string
	LastName          string
	Phone             string
	Email             string
	StartTime         *time.Time
	EndTime           *time.Time
	Paid              *string
	Label             *string
	DateScheduled     *time.Time
	DateRescheduled   *time.Time
	AppointmentPrice  *float64
	AmountPaidOnline  *float64
	CertificateCode   *string
	FullName          string
	FirstNameAndPhone string
	FirstNameAndEmail string
}

// Reference is one row of the appointment-type reference upload, keyed by
// Type.
type Reference struct {
	Type                string
	IncludeOrNotInclude *string
	RevisedType         *string
	InitialTouchUp      *string
	FreeTouchUp         *string
}

// Record is an appointment left-joined with its reference row. Reference
// fields stay nil when the appointment type had no match.
type Record struct {
	Appointment
	IncludeOrNotInclude *string
	RevisedType         *string
	InitialTouchUp      *string
	FreeTouchUp         *string
}

// SequencedAppointment is a kept record with its position in the owner's
// chronological history. MonthsSinceLast is nil on an individual's first
// appointment and MaxAppointmentNumber is set only on the last one.
type SequencedAppointment struct {
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	FullName             string     `json:"full_name"`
	Phone                string     `json:"phone"`
	Email                string     `json:"email"`
	Calendar             string     `json:"calendar"`
	Type                 *string    `json:"type"`
	RevisedType          *string    `json:"revised_type"`
	StartTime            *time.Time `json:"start_time"`
	AppointmentNumber    int        `json:"appointment_number"`
	MonthsSinceLast      *int       `json:"months_since_last_appointment"`
	MaxAppointmentNumber *int       `json:"max_appointment_number"`
}
