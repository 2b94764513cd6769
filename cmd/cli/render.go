package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/caixa/internal/adapter/format"
	"github.com/iho/caixa/internal/domain"
	"github.com/iho/caixa/internal/usecase"
)

const labelWidth = 12

func transactionLine(t domain.Transaction, loc *time.Location) string {
	sign := "+"
	if t.Type == domain.Expense {
		sign = "-"
	}

	line := fmt.Sprintf("%s  %s %s", t.Date.In(loc).Format("02/01/2006"), sign, format.BRL(t.Amount))
	if t.Description != "" {
		line += "  " + t.Description
	}
	if t.Category != "" {
		line += " (" + t.Category + ")"
	}
	return line
}

func renderSummary(w io.Writer, d usecase.Dashboard) {
	fmt.Fprintf(w, "Mês %02d/%d\n", int(d.Series.Month), d.Series.Year)
	fmt.Fprintf(w, "  Entradas:    %s\n", format.BRL(d.KPIs.IncomeThisMonth))
	fmt.Fprintf(w, "  Saídas:      %s\n", format.BRL(d.KPIs.ExpenseThisMonth))
	fmt.Fprintf(w, "  Saldo mês:   %s\n", format.BRL(d.KPIs.NetThisMonth))
	fmt.Fprintf(w, "  Saldo total: %s\n", format.BRL(d.KPIs.TotalBalance))

	if len(d.Recent) == 0 {
		fmt.Fprintln(w, "\nNenhuma transação registrada.")
		return
	}

	fmt.Fprintln(w, "\nÚltimas transações:")
	for _, t := range d.Recent {
		fmt.Fprintf(w, "  %s\n", transactionLine(t, d.Now.Location()))
	}
}

// renderChart plots one column per day, top row at the upper bound. Only rows
// that sit exactly on a bound or on the midpoint are labelled.
func renderChart(w io.Writer, series domain.BalanceSeries, height int) {
	lo, hi := format.ChartBounds(series)
	span := hi.Sub(lo)
	steps := decimal.NewFromInt(int64(height - 1))

	grid := make([][]byte, height)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(" ", len(series.Points)))
	}

	for i, p := range series.Points {
		row := hi.Sub(p.Balance).Div(span).Mul(steps).Round(0).IntPart()
		grid[row][i] = '*'
	}

	fmt.Fprintf(w, "Saldo diário %02d/%d (inicial %s)\n", int(series.Month), series.Year, format.BRL(series.OpeningBalance))

	for r, line := range grid {
		label := ""
		if r == 0 || r == height-1 || 2*r == height-1 {
			value := hi.Sub(span.Mul(decimal.NewFromInt(int64(r))).Div(steps))
			label = format.CompactBRL(value)
		}
		fmt.Fprintf(w, "%*s |%s\n", labelWidth, label, strings.TrimRight(string(line), " "))
	}

	fmt.Fprintf(w, "%*s +%s\n", labelWidth, "", strings.Repeat("-", len(series.Points)))

	axis := []byte(strings.Repeat(" ", len(series.Points)))
	for day := 1; day <= len(series.Points); day += 5 {
		mark := fmt.Sprint(day)
		at := day - 1
		if at+len(mark) > len(axis) {
			at = len(axis) - len(mark)
		}
		copy(axis[at:], mark)
	}
	fmt.Fprintf(w, "%*s  %s\n", labelWidth, "", strings.TrimRight(string(axis), " "))
}
