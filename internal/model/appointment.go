package model

import (
	"strings"
	"time"
)

type AppointmentType string

const (
	AppointmentTypeStandard AppointmentType = "standard"
	AppointmentTypeLabTest  AppointmentType = "lab_test"
)

type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusProcessing  AppointmentStatus = "processing"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
)

// HomeCollectionMarker flags lab requests collected at the patient's
// location. The platform encodes this in the free-text provider label.
const HomeCollectionMarker = "Home Collection"

// Appointment covers both standard consults and lab-test requests.
// Type is immutable after creation; only Status moves.
type Appointment struct {
	ID              int               `json:"id"`
	PatientID       int               `json:"patient_id"`
	AppointmentTime time.Time         `json:"appointment_time"`
	Type            AppointmentType   `json:"type"`
	Status          AppointmentStatus `json:"status"`
	DoctorName      string            `json:"doctor_name,omitempty"`
}

// IsLabTest reports whether this record belongs on the lab queue.
func (a *Appointment) IsLabTest() bool {
	return a.Type == AppointmentTypeLabTest
}

// IsHomeCollection reports whether a lab request is a home-collection
// visit rather than an in-clinic draw.
func (a *Appointment) IsHomeCollection() bool {
	return strings.Contains(a.DoctorName, HomeCollectionMarker)
}

// NominalTransitions documents the expected status paths. The platform
// does not enforce them and neither does the console; the backend owns
// the final word on every update (see DESIGN.md).
var NominalTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:    {AppointmentStatusConfirmed, AppointmentStatusProcessing, AppointmentStatusRescheduled, AppointmentStatusCancelled},
	AppointmentStatusProcessing: {AppointmentStatusCompleted, AppointmentStatusRescheduled, AppointmentStatusCancelled},
	AppointmentStatusCompleted:  {AppointmentStatusRescheduled, AppointmentStatusCancelled},
}
