package model

import "time"

// Expense is a business cost, optionally linked to one watch.
type Expense struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	Amount      int64     `json:"amount" db:"amount"`
	Category    string    `json:"category" db:"category"`
	Date        time.Time `json:"date" db:"date"`
	Recurring   bool      `json:"recurring" db:"recurring"`
	WatchID     *int64    `json:"watchId,omitempty" db:"watch_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Expense categories.
const (
	ExpenseMarketing     = "marketing"
	ExpenseRentStorage   = "rent_storage"
	ExpenseSubscriptions = "subscriptions"
	ExpenseTools         = "tools"
	ExpenseInsurance     = "insurance"
	ExpenseService       = "service"
	ExpenseShipping      = "shipping"
	ExpenseParts         = "parts"
	ExpensePlatformFees  = "platform_fees"
	ExpenseOther         = "other"
)

// ExpenseCategories lists every accepted category.
var ExpenseCategories = []string{
	ExpenseMarketing,
	ExpenseRentStorage,
	ExpenseSubscriptions,
	ExpenseTools,
	ExpenseInsurance,
	ExpenseService,
	ExpenseShipping,
	ExpenseParts,
	ExpensePlatformFees,
	ExpenseOther,
}

// ValidExpenseCategory reports whether c is one of ExpenseCategories.
func ValidExpenseCategory(c string) bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}
