package entity

// Meal type constants for Menu slots
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealDrink     = "drink"
	MealSnack     = "snack"
)

// MealTypes lists every valid meal type.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealDrink, MealSnack}

// Message type constants for LineMessage
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
)

// AdminUserCode is the reserved code of the bootstrap admin account.
const AdminUserCode = "admin"
