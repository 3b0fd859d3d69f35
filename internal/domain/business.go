package domain

import "time"

// Default profit targets for a new business profile.
const (
	DefaultDailyTarget  = 500.0
	DefaultWeeklyTarget = 3500.0
)

// BusinessProfile holds per-user business settings. At most one row per user.
type BusinessProfile struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex;not null"`
	BusinessName string    `json:"business_name"`
	BusinessType string    `json:"business_type"`
	DailyTarget  float64   `json:"daily_target" gorm:"default:500.0"`
	WeeklyTarget float64   `json:"weekly_target" gorm:"default:3500.0"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// BusinessStats is derived from transaction rows on every request. Never persisted.
type BusinessStats struct {
	TodayProfit       float64 `json:"today_profit"`
	TotalSales        float64 `json:"total_sales"`
	TotalExpenses     float64 `json:"total_expenses"`
	NetProfit         float64 `json:"net_profit"`
	TotalTransactions int64   `json:"total_transactions"`
}

// DailyTotal is one day's aggregated sales and expenses.
type DailyTotal struct {
	Date     string  `json:"date"`
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// CategoryTotal is the summed sale amount for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Analytics bundles the daily series and the category breakdown.
type Analytics struct {
	DailyData         []DailyTotal    `json:"daily_data"`
	CategoryBreakdown []CategoryTotal `json:"category_breakdown"`
}

// Milestone records a one-time achievement for a user. Unique per (user, type).
type Milestone struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"uniqueIndex:idx_user_milestone;not null"`
	Type       string    `json:"milestone_type" gorm:"column:milestone_type;uniqueIndex:idx_user_milestone;not null"`
	AchievedAt time.Time `json:"achieved_at"`
}

// Milestone types
const (
	MilestoneFirstTransaction = "first_transaction"
	MilestoneDailyTarget      = "daily_target"
)
