package patient

import (
	"time"

	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// Patient maps to the patient table.
type Patient struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Contact   string    `db:"contact" json:"contact"`
	Gender    string    `db:"gender" json:"gender"`
	Age       int       `db:"age" json:"age"`
	Address   string    `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const IDPrefix = "p"

var patientRules = validate.Rules{
	"name":    {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(100)},
	"contact": {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(50)},
	"gender":  {Required: true, Kind: validate.String, Enum: []string{"male", "female", "other"}},
	"age":     {Required: true, Kind: validate.Number, Min: validate.FloatPtr(0), Max: validate.FloatPtr(150)},
	"address": {Kind: validate.String, MaxLen: validate.IntPtr(200)},
}

func (p *Patient) fields() map[string]interface{} {
	return map[string]interface{}{
		"name":    p.Name,
		"contact": p.Contact,
		"gender":  p.Gender,
		"age":     p.Age,
		"address": p.Address,
	}
}
