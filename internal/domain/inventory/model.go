package inventory

import (
	"time"

	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// Medicine maps to the medicine table. Qty never goes negative: the
// decrement runs as a conditional update in the repository.
type Medicine struct {
	ID            string    `db:"id" json:"id"`
	ProductNumber string    `db:"product_number" json:"product_number"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description,omitempty"`
	Tag           string    `db:"tag" json:"tag"`
	Qty           int       `db:"qty" json:"qty"`
	Price         float64   `db:"price" json:"price"`
	Expiry        time.Time `db:"expiry" json:"expiry"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Tag is a shelf/bin grouping for medicines, carrying the alert
// thresholds the stock reports use.
type Tag struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	LowQtyAlert     int       `db:"low_qty_alert" json:"low_qty_alert"`
	ExpiryDateAlert int       `db:"expiry_date_alert" json:"expiry_date_alert"` // days before expiry
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

const (
	MedicineIDPrefix = "med"
	TagIDPrefix      = "tag"
)

var medicineRules = validate.Rules{
	"product_number": {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(50)},
	"name":           {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(100)},
	"description":    {Kind: validate.String, MaxLen: validate.IntPtr(500)},
	"tag":            {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(50)},
	"qty":            {Required: true, Kind: validate.Number, Min: validate.FloatPtr(0)},
	"price":          {Kind: validate.Number, Min: validate.FloatPtr(0)},
}

var tagRules = validate.Rules{
	"name":              {Required: true, Kind: validate.String, MinLen: validate.IntPtr(1), MaxLen: validate.IntPtr(50)},
	"low_qty_alert":     {Kind: validate.Number, Min: validate.FloatPtr(0)},
	"expiry_date_alert": {Kind: validate.Number, Min: validate.FloatPtr(0)},
}

func (m *Medicine) fields() map[string]interface{} {
	return map[string]interface{}{
		"product_number": m.ProductNumber,
		"name":           m.Name,
		"description":    m.Description,
		"tag":            m.Tag,
		"qty":            m.Qty,
		"price":          m.Price,
	}
}

func (t *Tag) fields() map[string]interface{} {
	return map[string]interface{}{
		"name":              t.Name,
		"low_qty_alert":     t.LowQtyAlert,
		"expiry_date_alert": t.ExpiryDateAlert,
	}
}
