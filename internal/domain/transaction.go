package domain

import "time"

// Transaction represents a single business ledger entry (a sale or an expense).
// Rows are immutable once created; the only mutation is explicit deletion.
type Transaction struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index;not null"`
	Kind        string    `json:"type" gorm:"column:type;not null"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Category    string    `json:"category" gorm:"not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null"`
	Date        string    `json:"date" gorm:"not null"` // calendar date, "2006-01-02"
}

// Transaction kinds
const (
	KindSale    = "sale"
	KindExpense = "expense"
)

// Transaction categories
const (
	CategoryProductSale = "product-sale"
	CategoryService     = "service"
	CategorySupplies    = "supplies"
	CategoryTransport   = "transport"
	CategoryFood        = "food"
	CategoryUtilities   = "utilities"
)

// DateLayout is the calendar-date format used on transactions.
const DateLayout = "2006-01-02"
