package entity

import "time"

// Order is one line-item belonging to one User and one Menu. PayerID
// references the user who fronted the cost; nil means nobody did, and a
// self-reference means the orderer paid for themselves (no debt either
// way). Deleting the payer nulls the reference but keeps the order.
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MenuID    int64     `json:"menu_id"`
	Items     string    `json:"items"`
	Amount    float64   `json:"amount"`
	Paid      bool      `json:"paid"`
	Note      string    `json:"note,omitempty"`
	PayerID   *int64    `json:"payer_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderDetail is an Order joined with its orderer, payer and menu slot.
// Report handlers group and total over these rows; nothing is cached or
// denormalized, every aggregate is summed fresh from the matching set.
type OrderDetail struct {
	Order
	UserCode  string    `json:"user_code"`
	UserName  string    `json:"user_name"`
	PayerCode string    `json:"payer_code,omitempty"`
	PayerName string    `json:"payer_name,omitempty"`
	MenuDate  time.Time `json:"menu_date"`
	MealType  string    `json:"meal_type"`
}

// HasPayer reports whether debt attribution survives for this row.
func (d *OrderDetail) HasPayer() bool {
	return d.PayerID != nil && d.PayerCode != ""
}
