package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/hesab/internal/backup"
	txHandler "github.com/MrJamesThe3rd/hesab/internal/http/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc *backup.Service
}

func NewHandler(svc *backup.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Post("/", h.restore)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	// Buffer so a failure can still be reported with a proper status.
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), &buf); err != nil {
		txHandler.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.svc.Filename()))

	if _, err := io.Copy(w, &buf); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}

type restoreResponse struct {
	InitialBalance int64 `json:"initial_balance"`
	Balance        int64 `json:"balance"`
	Imported       int   `json:"imported"`
}

// restore accepts the backup either as the "file" field of a multipart form or as
// the raw request body.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	body := io.Reader(r.Body)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		body = file
	}

	ledger, err := h.svc.Import(r.Context(), body)
	if err != nil {
		if errors.Is(err, backup.ErrMalformedBackup) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		txHandler.WriteError(w, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(restoreResponse{
		InitialBalance: ledger.InitialBalance,
		Balance:        ledger.Balance(),
		Imported:       len(ledger.Transactions),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
