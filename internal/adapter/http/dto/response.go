package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/caixa/internal/adapter/format"
	"github.com/iho/caixa/internal/domain"
	"github.com/iho/caixa/internal/usecase"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Display     string `json:"display"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Date:        t.Date.UTC().Format(domain.DateLayout),
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount.String(),
		Type:        string(t.Type),
		Display:     format.BRL(t.Amount),
	}
}

// TransactionsFromDomain converts multiple transactions. The result is never nil.
func TransactionsFromDomain(transactions []domain.Transaction) []TransactionResponse {
	result := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse represents the recent-transactions list.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

// MoneyResponse pairs an exact amount with its display form.
type MoneyResponse struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func money(amount decimal.Decimal) MoneyResponse {
	return MoneyResponse{Amount: amount.StringFixed(2), Display: format.BRL(amount)}
}

// KPIResponse represents the summary cards.
type KPIResponse struct {
	Income  MoneyResponse `json:"income"`
	Expense MoneyResponse `json:"expense"`
	Net     MoneyResponse `json:"net"`
	Balance MoneyResponse `json:"balance"`
}

// PointResponse is one day of the balance chart.
type PointResponse struct {
	Day     int    `json:"day"`
	Balance string `json:"balance"`
}

// ChartResponse represents the monthly balance chart.
type ChartResponse struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	OpeningBalance MoneyResponse   `json:"opening_balance"`
	Points         []PointResponse `json:"points"`
	Min            string          `json:"y_min"`
	Max            string          `json:"y_max"`
	MinLabel       string          `json:"y_min_label"`
	MaxLabel       string          `json:"y_max_label"`
}

// DashboardResponse represents every derived view of the cashbook.
type DashboardResponse struct {
	GeneratedAt time.Time             `json:"generated_at"`
	KPIs        KPIResponse           `json:"kpis"`
	Recent      []TransactionResponse `json:"recent"`
	Chart       ChartResponse         `json:"chart"`
	Count       int                   `json:"count"`
}

// DashboardFromUseCase converts a dashboard to response.
func DashboardFromUseCase(d usecase.Dashboard) DashboardResponse {
	points := make([]PointResponse, len(d.Series.Points))
	for i, p := range d.Series.Points {
		points[i] = PointResponse{Day: p.Day, Balance: p.Balance.StringFixed(2)}
	}

	lo, hi := format.ChartBounds(d.Series)

	return DashboardResponse{
		GeneratedAt: d.Now,
		KPIs: KPIResponse{
			Income:  money(d.KPIs.IncomeThisMonth),
			Expense: money(d.KPIs.ExpenseThisMonth),
			Net:     money(d.KPIs.NetThisMonth),
			Balance: money(d.KPIs.TotalBalance),
		},
		Recent: TransactionsFromDomain(d.Recent),
		Chart: ChartResponse{
			Year:           d.Series.Year,
			Month:          int(d.Series.Month),
			OpeningBalance: money(d.Series.OpeningBalance),
			Points:         points,
			Min:            lo.StringFixed(2),
			Max:            hi.StringFixed(2),
			MinLabel:       format.CompactBRL(lo),
			MaxLabel:       format.CompactBRL(hi),
		},
		Count: d.Count,
	}
}

// ResetResponse is the persisted document after a reset plus the number of
// discarded transactions.
type ResetResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Discarded    int                   `json:"discarded"`
}

// ImportResponse represents the outcome of an import.
type ImportResponse struct {
	Imported int `json:"imported"`
	Replaced int `json:"replaced"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
