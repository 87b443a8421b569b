package booking

import (
	"time"

	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// Booking maps to the booking table. DateTime must lie strictly in the
// future at creation time.
type Booking struct {
	ID             string    `db:"id" json:"id"`
	DoctorID       string    `db:"doctor_id" json:"doctor_id"`
	DoctorName     string    `db:"doctor_name" json:"doctor_name"`
	Receptionist   string    `db:"receptionist" json:"receptionist,omitempty"`
	PatientName    string    `db:"patient_name" json:"patient_name"`
	PatientContact string    `db:"patient_contact" json:"patient_contact"`
	ServiceID      string    `db:"service_id" json:"service_id,omitempty"`
	ServiceName    string    `db:"service_name" json:"service_name,omitempty"`
	DateTime       time.Time `db:"date_time" json:"date_time"`
	TimeSlot       string    `db:"time_slot" json:"time_slot,omitempty"`
	Remark         string    `db:"remark" json:"remark,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ClinicService is a bookable catalog entry (consultation, dressing,
// lab draw and the like).
type ClinicService struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Price       float64   `db:"price" json:"price"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TimeSlot is one entry of the read-only half-hour slot catalog.
type TimeSlot struct {
	ID    string `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
}

const (
	BookingIDPrefix  = "b"
	ServiceIDPrefix  = "s"
	TimeSlotIDPrefix = "ts"
)

var bookingRules = validate.Rules{
	"doctor_id":       {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1)},
	"patient_name":    {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(100)},
	"patient_contact": {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(50)},
	"receptionist":    {Kind: validate.String, MaxLen: validate.IntPtr(100)},
	"remark":          {Kind: validate.String, MaxLen: validate.IntPtr(500), AllowEmpty: true},
}

var serviceRules = validate.Rules{
	"name":        {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(100)},
	"price":       {Required: true, Kind: validate.Number, Min: validate.FloatPtr(0)},
	"description": {Kind: validate.String, MaxLen: validate.IntPtr(500)},
}

func (b *Booking) fields() map[string]interface{} {
	return map[string]interface{}{
		"doctor_id":       b.DoctorID,
		"patient_name":    b.PatientName,
		"patient_contact": b.PatientContact,
		"receptionist":    b.Receptionist,
		"remark":          b.Remark,
	}
}

func (s *ClinicService) fields() map[string]interface{} {
	return map[string]interface{}{
		"name":        s.Name,
		"price":       s.Price,
		"description": s.Description,
	}
}
