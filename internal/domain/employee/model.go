package employee

import (
	"time"

	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// Employee maps to the employee table. The password hash never leaves
// the server: it is excluded from JSON serialization entirely.
type Employee struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Username     string    `db:"username" json:"username"`
	Role         string    `db:"role" json:"role"`
	Contact      string    `db:"contact" json:"contact,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const IDPrefix = "emp"

// Roles an employee account can hold.
var roles = []string{"admin", "pharmacist", "receptionist", "cashier"}

var employeeRules = validate.Rules{
	"name":     {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(100)},
	"username": {Required: true, Kind: validate.String, MinLen: validate.IntPtr(3), MaxLen: validate.IntPtr(50)},
	"role":     {Required: true, Kind: validate.String, Enum: roles},
	"contact":  {Kind: validate.String, MaxLen: validate.IntPtr(50)},
}

var passwordRule = validate.Rules{
	"password": {Required: true, Kind: validate.String, MinLen: validate.IntPtr(6), MaxLen: validate.IntPtr(72)},
}

func (e *Employee) fields() map[string]interface{} {
	return map[string]interface{}{
		"name":     e.Name,
		"username": e.Username,
		"role":     e.Role,
		"contact":  e.Contact,
	}
}
