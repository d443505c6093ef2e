package suppliers

import (
	"time"
)

// Supplier represents a vendor the business purchases from. StateCode
// is the two-digit GST state code; bills compare it against the home
// state to decide interstate treatment.
type Supplier struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	GSTIN     string    `json:"gstin"`
	StateCode string    `json:"state_code"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
