package doctor

import (
	"time"

	"github.com/pharmadesk/pharmadesk/pkg/timeofday"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// WorkingScheduleEntry is one weekly availability window. Day is 0-6
// with 0 = Sunday; times are 12-hour clock strings ("9:00 AM").
type WorkingScheduleEntry struct {
	Day       int    `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Doctor maps to the doctor table. Schedule is stored as a JSONB
// column in insertion order; Version backs the optimistic lock on
// schedule mutations.
type Doctor struct {
	ID             string                 `db:"id" json:"id"`
	Name           string                 `db:"name" json:"name"`
	Specialization string                 `db:"specialization" json:"specialization"`
	Contact        string                 `db:"contact" json:"contact,omitempty"`
	Schedule       []WorkingScheduleEntry `db:"schedule" json:"schedule"`
	Version        int                    `db:"version" json:"version"`
	CreatedAt      time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `db:"updated_at" json:"updated_at"`
}

// IDPrefix is the seqid prefix for doctor records.
const IDPrefix = "doc"

var doctorRules = validate.Rules{
	"name":           {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(100)},
	"specialization": {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(100)},
	"contact":        {Kind: validate.String, MaxLen: validate.IntPtr(50)},
}

var scheduleEntryRules = validate.Rules{
	"day":        {Required: true, Kind: validate.Number, Min: validate.FloatPtr(0), Max: validate.FloatPtr(6)},
	"start_time": {Required: true, Kind: validate.String, Pattern: timeofday.ClockPattern},
	"end_time":   {Required: true, Kind: validate.String, Pattern: timeofday.ClockPattern},
}

func (d *Doctor) fields() map[string]interface{} {
	return map[string]interface{}{
		"name":           d.Name,
		"specialization": d.Specialization,
		"contact":        d.Contact,
	}
}

func (e WorkingScheduleEntry) fields() map[string]interface{} {
	return map[string]interface{}{
		"day":        e.Day,
		"start_time": e.StartTime,
		"end_time":   e.EndTime,
	}
}
