package model

// Dashboard is the aggregate shown on the home screen.
type Dashboard struct {
	UserProfile *UserProfile    `json:"user_profile,omitempty"`
	Goals       []FinancialGoal `json:"goals"`
	Missions    []Mission       `json:"missions"`
	Streak      *UserStreak     `json:"streak,omitempty"`
}

// BudgetSummary holds the headline numbers of the budget screen.
type BudgetSummary struct {
	TotalIncome   float64 `json:"total_income"`
	TotalSpending float64 `json:"total_spending"`
	NetSavings    float64 `json:"net_savings"`
	SavingsRate   float64 `json:"savings_rate"`
	Period        string  `json:"period,omitempty"`
}

// SpendingCategory is one slice of the spending breakdown.
type SpendingCategory struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// SpendingInsight is a backend-generated observation about spending.
type SpendingInsight struct {
	Category         string   `json:"category"`
	InsightType      string   `json:"insight_type"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	PotentialSavings *float64 `json:"potential_savings,omitempty"`
	ActionItems      []string `json:"action_items"`
}

// Transaction is a single parsed statement line.
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Merchant    string  `json:"merchant,omitempty"`
}

// BudgetReport is the budget aggregate. HasData is false until a statement is uploaded.
type BudgetReport struct {
	HasData            bool               `json:"has_data"`
	Summary            *BudgetSummary     `json:"summary,omitempty"`
	SpendingCategories []SpendingCategory `json:"spending_categories,omitempty"`
	Insights           []SpendingInsight  `json:"insights,omitempty"`
	RecentTransactions []Transaction      `json:"recent_transactions,omitempty"`
	OptimizationScore  *float64           `json:"optimization_score,omitempty"`
}

// SpendingReport is the legacy spending analysis payload.
type SpendingReport struct {
	UserID            string             `json:"user_id"`
	ReportID          string             `json:"report_id"`
	Period            string             `json:"period"`
	TotalSpending     float64            `json:"total_spending"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	Insights          []SpendingInsight  `json:"insights"`
	OptimizationScore float64            `json:"optimization_score"`
}
