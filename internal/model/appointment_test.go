package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHomeCollection(t *testing.T) {
	tests := []struct {
		doctorName string
		want       bool
	}{
		{"Dr. Home Collection Services", true},
		{"Home Collection", true},
		{"Dr. Smith", false},
		{"", false},
		{"home collection", false}, // marker is case sensitive
	}

	for _, tt := range tests {
		a := Appointment{Type: AppointmentTypeLabTest, DoctorName: tt.doctorName}
		assert.Equal(t, tt.want, a.IsHomeCollection(), "doctor_name=%q", tt.doctorName)
	}
}

func TestIsLabTest(t *testing.T) {
	assert.True(t, (&Appointment{Type: AppointmentTypeLabTest}).IsLabTest())
	assert.False(t, (&Appointment{Type: AppointmentTypeStandard}).IsLabTest())
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "doctor", "lab", "pharmacist"} {
		role, err := ParseRole(s)
		assert.NoError(t, err)
		assert.Equal(t, Role(s), role)
	}

	_, err := ParseRole("receptionist")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
