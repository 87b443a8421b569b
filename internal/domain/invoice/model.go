package invoice

import (
	"time"

	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// CartItem is one line of a pharmacy invoice. Name and Price are
// snapshotted from the medicine record at invoice time.
type CartItem struct {
	ProductNumber string  `json:"product_number"`
	Name          string  `json:"name"`
	Qty           int     `json:"qty"`
	Price         float64 `json:"price"`
}

// PharmacyInvoice maps to the pharmacy_invoice table; Items lives in a
// JSONB column. InvoiceNumber is unique across all pharmacy invoices.
type PharmacyInvoice struct {
	ID            string     `db:"id" json:"id"`
	InvoiceNumber string     `db:"invoice_number" json:"invoice_number"`
	EmployeeID    string     `db:"employee_id" json:"employee_id"`
	Cashier       string     `db:"cashier" json:"cashier"`
	CustomerID    string     `db:"customer_id" json:"customer_id,omitempty"`
	Payable       float64    `db:"payable" json:"payable"`
	Given         float64    `db:"given" json:"given"`
	Change        float64    `db:"change" json:"change"`
	Items         []CartItem `db:"items" json:"items"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// ClinicInvoice bills clinic services rendered to a patient.
type ClinicInvoice struct {
	ID            string    `db:"id" json:"id"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	EmployeeID    string    `db:"employee_id" json:"employee_id"`
	PatientID     string    `db:"patient_id" json:"patient_id"`
	DoctorID      string    `db:"doctor_id" json:"doctor_id"`
	ServiceIDs    []string  `db:"service_ids" json:"service_ids"`
	Payable       float64   `db:"payable" json:"payable"`
	Given         float64   `db:"given" json:"given"`
	Change        float64   `db:"change" json:"change"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PharmacyIDPrefix = "pinv"
	ClinicIDPrefix   = "cinv"
)

var pharmacyRules = validate.Rules{
	"invoice_number": {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(50)},
	"employee_id":    {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1)},
	"customer_id":    {Kind: validate.String, MaxLen: validate.IntPtr(50)},
	"payable":        {Required: true, Kind: validate.Number, Min: validate.FloatPtr(0)},
	"given":          {Required: true, Kind: validate.Number, Min: validate.FloatPtr(0)},
	"change":         {Kind: validate.Number, Min: validate.FloatPtr(0)},
}

var clinicRules = validate.Rules{
	"invoice_number": {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(50)},
	"employee_id":    {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1)},
	"patient_id":     {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1)},
	"doctor_id":      {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1)},
	"payable":        {Required: true, Kind: validate.Number, Min: validate.FloatPtr(0)},
	"given":          {Required: true, Kind: validate.Number, Min: validate.FloatPtr(0)},
	"change":         {Kind: validate.Number, Min: validate.FloatPtr(0)},
}

func (p *PharmacyInvoice) fields() map[string]interface{} {
	return map[string]interface{}{
		"invoice_number": p.InvoiceNumber,
		"employee_id":    p.EmployeeID,
		"customer_id":    p.CustomerID,
		"payable":        p.Payable,
		"given":          p.Given,
		"change":         p.Change,
	}
}

func (c *ClinicInvoice) fields() map[string]interface{} {
	return map[string]interface{}{
		"invoice_number": c.InvoiceNumber,
		"employee_id":    c.EmployeeID,
		"patient_id":     c.PatientID,
		"doctor_id":      c.DoctorID,
		"payable":        c.Payable,
		"given":          c.Given,
		"change":         c.Change,
	}
}
