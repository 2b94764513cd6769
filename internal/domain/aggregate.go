package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRecentLimit is the number of transactions shown in the recent list.
const DefaultRecentLimit = 5

// KPISummary holds the figures shown on the summary cards.
type KPISummary struct {
	IncomeThisMonth  decimal.Decimal
	ExpenseThisMonth decimal.Decimal
	NetThisMonth     decimal.Decimal
	TotalBalance     decimal.Decimal
}

// BalancePoint is the running balance at the end of a day of the month.
type BalancePoint struct {
	Day     int
	Balance decimal.Decimal
}

// BalanceSeries is the daily cumulative balance for one calendar month.
type BalanceSeries struct {
	Year           int
	Month          time.Month
	OpeningBalance decimal.Decimal
	Points         []BalancePoint
}

// Closing returns the balance at the end of the month.
func (s BalanceSeries) Closing() decimal.Decimal {
	if len(s.Points) == 0 {
		return s.OpeningBalance
	}
	return s.Points[len(s.Points)-1].Balance
}

// MonthlyKPIs computes income, expense and net for the calendar month that
// contains now, plus the all-time balance. Dates are compared in now's location.
func MonthlyKPIs(transactions []Transaction, now time.Time) KPISummary {
	income := decimal.Zero
	expense := decimal.Zero
	total := decimal.Zero

	for _, t := range transactions {
		if !t.contributes() {
			continue
		}

		total = total.Add(t.Signed())

		if !SameMonth(t.Date, now) {
			continue
		}

		switch t.Type {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expense = expense.Add(t.Amount)
		}
	}

	return KPISummary{
		IncomeThisMonth:  income,
		ExpenseThisMonth: expense,
		NetThisMonth:     income.Sub(expense),
		TotalBalance:     total,
	}
}

// RecentTransactions returns up to limit transactions, most recently inserted first.
func RecentTransactions(transactions []Transaction, limit int) []Transaction {
	if limit <= 0 || len(transactions) == 0 {
		return []Transaction{}
	}

	n := min(limit, len(transactions))
	recent := make([]Transaction, 0, n)
	for i := len(transactions) - 1; i >= len(transactions)-n; i-- {
		recent = append(recent, transactions[i])
	}

	return recent
}

// DailyBalanceSeries returns the running balance for every day of the month
// containing now. The series is seeded with the signed total of everything
// dated before the first instant of the month; transactions after the month
// are ignored.
func DailyBalanceSeries(transactions []Transaction, now time.Time) BalanceSeries {
	year, month, _ := now.Date()
	start := MonthStart(now)
	days := DaysInMonth(now)

	opening := decimal.Zero
	daily := make([]decimal.Decimal, days+1)

	for _, t := range transactions {
		if !t.contributes() {
			continue
		}

		at := t.Date.In(now.Location())
		if at.Before(start) {
			opening = opening.Add(t.Signed())
			continue
		}

		y, m, d := at.Date()
		if y == year && m == month {
			daily[d] = daily[d].Add(t.Signed())
		}
	}

	points := make([]BalancePoint, days)
	running := opening
	for d := 1; d <= days; d++ {
		running = running.Add(daily[d])
		points[d-1] = BalancePoint{Day: d, Balance: running}
	}

	return BalanceSeries{
		Year:           year,
		Month:          month,
		OpeningBalance: opening,
		Points:         points,
	}
}

// MonthStart returns the first instant of the month containing now, in now's location.
func MonthStart(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}

// DaysInMonth returns the number of days in the month containing now.
func DaysInMonth(now time.Time) int {
	y, m, _ := now.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, now.Location()).Day()
}

// SameMonth reports whether t falls in the calendar month and year of now.
func SameMonth(t, now time.Time) bool {
	ty, tm, _ := t.In(now.Location()).Date()
	ny, nm, _ := now.Date()
	return ty == ny && tm == nm
}
