package entity

import "time"

// Menu is a (date, meal type) bucket. At most one Menu exists per slot;
// it is created lazily the first time an order or amount command
// references the slot. Filename points at an optional menu image.
type Menu struct {
	ID          int64     `json:"id"`
	MealType    string    `json:"meal_type"`
	MenuDate    time.Time `json:"menu_date"`
	Description string    `json:"description"`
	Filename    string    `json:"filename,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
