package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dompet/internal/core"
	"dompet/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Count        int                `json:"count"`
	Period       string             `json:"period"`
}

type pageResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Page         int                `json:"page"`
	TotalPages   int                `json:"total_pages"`
	PageSize     int                `json:"page_size"`
	Total        int                `json:"total"`
}

type importResponse struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

type transactionRequest struct {
	Type        string          `json:"type"`
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
	DateTime    string          `json:"datetime"`
	Category    string          `json:"category"`
}

type updateRequest struct {
	Type        *string         `json:"type"`
	Amount      json.RawMessage `json:"amount"`
	Description *string         `json:"description"`
	DateTime    *string         `json:"datetime"`
	Category    *string         `json:"category"`
}

// amountString accepts the amount both as a JSON number and as a quoted
// decimal string.
func amountString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// invalidateListCache drops every period-keyed list after a mutation.
func (s *Server) invalidateListCache() {
	for _, p := range []core.Period{core.PeriodWeek, core.PeriodMonth, core.PeriodYear, core.PeriodAll} {
		s.listCache.Delete(string(p))
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	case http.MethodDelete:
		s.clearTransactions(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	period, err := core.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, hit := s.listCache.Get(string(period))
	if !hit {
		txs = s.tracker.List(period)
		s.listCache.Set(string(period), txs)
	}

	respondJSON(w, http.StatusOK, listResponse{
		Transactions: txs,
		Count:        len(txs),
		Period:       string(period),
	})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := s.tracker.NewTransaction(req.Type, amountString(req.Amount), req.Description, req.DateTime, req.Category)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.tracker.Add(r.Context(), tx); err != nil {
		slog.ErrorContext(r.Context(), "Failed to add transaction", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to store transaction")
		return
	}

	s.invalidateListCache()
	respondJSON(w, http.StatusCreated, tx)
}

func (s *Server) clearTransactions(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Clear(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Failed to clear transactions", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to clear transactions")
		return
	}

	s.invalidateListCache()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.deleteTransaction(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields, err := req.toFields()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := s.tracker.Update(r.Context(), id, fields)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}

	s.invalidateListCache()
	w.WriteHeader(http.StatusNoContent)
}

func (req updateRequest) toFields() (ledger.Fields, error) {
	var fields ledger.Fields
	if req.Type != nil {
		t := core.TransactionType(*req.Type)
		if t != core.Income && t != core.Expense {
			return ledger.Fields{}, core.ErrInvalidType
		}
		fields.Type = &t
	}
	if len(req.Amount) > 0 {
		amount, err := core.ParseAmount(amountString(req.Amount))
		if err != nil {
			return ledger.Fields{}, err
		}
		fields.Amount = &amount
	}
	fields.Description = req.Description
	fields.DateTime = req.DateTime
	fields.Category = req.Category
	return fields, nil
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	ok, err := s.tracker.Delete(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "transaction_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}

	s.invalidateListCache()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	l := s.tracker.Ledger()
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid page number")
			return
		}
		l.SetPage(n)
	}

	respondJSON(w, http.StatusOK, pageResponse{
		Transactions: l.Page(),
		Page:         l.CurrentPage(),
		TotalPages:   l.TotalPages(),
		PageSize:     l.PageSize(),
		Total:        l.Size(),
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, s.tracker.Ledger().Balance())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := s.tracker.ExportCSV()
	if err != nil {
		if errors.Is(err, ledger.ErrNoTransactions) {
			respondError(w, http.StatusConflict, "no transactions to export")
			return
		}
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(data))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "import payload too large")
		return
	}

	imported, err := s.tracker.ImportCSV(r.Context(), string(body))
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV import failed", "error", err)
		respondError(w, http.StatusInternalServerError, "import failed")
		return
	}
	if imported == 0 {
		respondError(w, http.StatusBadRequest, "no valid transactions in file")
		return
	}

	s.invalidateListCache()
	respondJSON(w, http.StatusOK, importResponse{
		Imported: imported,
		Total:    s.tracker.Ledger().Size(),
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": s.engine.Cards()})
}

func (s *Server) handleInsightsRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cards, err := s.engine.Refresh(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "insights refresh interrupted")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleInsightsAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	report, ok := s.engine.DetailedReport()
	if !ok {
		respondError(w, http.StatusNotFound, "no analysis available, refresh insights first")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
