package dto

// TransactionRequest represents a direct transaction entry payload
type TransactionRequest struct {
	UserID      string  `json:"user_id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// VoiceCommandRequest represents a voice command payload
type VoiceCommandRequest struct {
	UserID  string `json:"user_id"`
	Command string `json:"command"`
}

// ProfileRequest represents a business profile update payload
type ProfileRequest struct {
	UserID       string  `json:"user_id"`
	BusinessName string  `json:"business_name"`
	BusinessType string  `json:"business_type"`
	DailyTarget  float64 `json:"daily_target"`
	WeeklyTarget float64 `json:"weekly_target"`
}
