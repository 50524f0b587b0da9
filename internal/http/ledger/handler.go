package ledger

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/hesab/internal/currency"
	txHandler "github.com/MrJamesThe3rd/hesab/internal/http/transaction"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
	tag language.Tag
}

func NewHandler(svc *transaction.Service, tag language.Tag) *Handler {
	return &Handler{svc: svc, tag: tag}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/ledger", h.get)
	r.Post("/setup", h.setup)
	r.Post("/reset", h.reset)
}

type ledgerResponse struct {
	SetupDone           bool   `json:"setup_done"`
	InitialBalance      int64  `json:"initial_balance"`
	InitialBalanceToman string `json:"initial_balance_toman"`
	Balance             int64  `json:"balance"`
	BalanceToman        string `json:"balance_toman"`
	Transactions        int    `json:"transactions"`
}

func (h *Handler) toResponse(l *transaction.Ledger) ledgerResponse {
	return ledgerResponse{
		SetupDone:           l.SetupDone,
		InitialBalance:      l.InitialBalance,
		InitialBalanceToman: currency.Format(l.InitialBalance, h.tag),
		Balance:             l.Balance(),
		BalanceToman:        currency.Format(l.Balance(), h.tag),
		Transactions:        len(l.Transactions),
	}
}

func (h *Handler) writeLedger(w http.ResponseWriter, status int, l *transaction.Ledger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(h.toResponse(l)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Ledger(r.Context())
	if err != nil {
		txHandler.WriteError(w, err)
		return
	}

	h.writeLedger(w, http.StatusOK, l)
}

// setupRequest carries the balance the user's account shows now, in rials, and the
// recent transactions already reflected in it.
type setupRequest struct {
	CurrentBalance int64                     `json:"current_balance"`
	Recent         []txHandler.CreateRequest `json:"recent"`
}

func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.SetupParams{
		CurrentBalance: req.CurrentBalance,
		Recent:         make([]transaction.CreateParams, len(req.Recent)),
	}

	for i, rr := range req.Recent {
		params.Recent[i] = rr.Params()
	}

	l, err := h.svc.Setup(r.Context(), params)
	if err != nil {
		txHandler.WriteError(w, err)
		return
	}

	h.writeLedger(w, http.StatusCreated, l)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		txHandler.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
