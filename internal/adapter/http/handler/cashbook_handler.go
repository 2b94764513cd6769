package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/iho/caixa/internal/adapter/http/dto"
	"github.com/iho/caixa/internal/domain"
	"github.com/iho/caixa/internal/usecase"
)

// MaxImportSize bounds the body accepted by Import.
const MaxImportSize = 10 << 20

// CashbookService defines the behavior needed by CashbookHandler.
type CashbookService interface {
	Add(ctx context.Context, input usecase.AddTransactionInput) (domain.Transaction, error)
	Reset(ctx context.Context) (int, error)
	Import(ctx context.Context, blob []byte) (usecase.ImportResult, error)
	Export(ctx context.Context) (usecase.ExportFile, error)
	Dashboard(ctx context.Context, limit int) usecase.Dashboard
	Recent(ctx context.Context, limit int) []domain.Transaction
}

// CashbookHandler handles cashbook HTTP requests.
type CashbookHandler struct {
	cashbookUC CashbookService
}

// NewCashbookHandler creates a new CashbookHandler.
func NewCashbookHandler(cashbookUC CashbookService) *CashbookHandler {
	return &CashbookHandler{cashbookUC: cashbookUC}
}

// Dashboard returns KPIs, the recent list and the monthly balance chart.
func (h *CashbookHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 0)

	dashboard := h.cashbookUC.Dashboard(r.Context(), limit)

	writeJSON(w, http.StatusOK, dto.DashboardFromUseCase(dashboard))
}

// List returns the most recent transactions, newest first.
func (h *CashbookHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 0)

	transactions := h.cashbookUC.Recent(r.Context(), limit)

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(transactions),
		Total:        len(transactions),
	})
}

// Create adds a transaction.
func (h *CashbookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid transaction", err.Error())
		return
	}

	t, err := h.cashbookUC.Add(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(t))
}

// Reset discards every transaction.
func (h *CashbookHandler) Reset(w http.ResponseWriter, r *http.Request) {
	discarded, err := h.cashbookUC.Reset(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reset", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ResetResponse{
		Transactions: []dto.TransactionResponse{},
		Discarded:    discarded,
	})
}

// Export streams the backup document as a file download.
func (h *CashbookHandler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := h.cashbookUC.Export(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to export", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// Import replaces the store with the backup document in the request body.
func (h *CashbookHandler) Import(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxImportSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "backup too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.cashbookUC.Import(r.Context(), blob)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to import", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ImportResponse{
		Imported: result.Imported,
		Replaced: result.Replaced,
	})
}
