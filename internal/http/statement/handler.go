// Package statement serves the smart import flow: a preview step that runs
// the statement parser without touching the store, and a confirm step that
// stores the reviewed candidates in one batch.
package statement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pastel/internal/encoding"
	txHandler "github.com/MrJamesThe3rd/pastel/internal/http/transaction"
	"github.com/MrJamesThe3rd/pastel/internal/importer"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	timeout   time.Duration
}

// NewHandler creates a Handler. timeout bounds each parser call; zero means
// only the request context applies.
func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, timeout time.Duration) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
		timeout:   timeout,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.preview)
	r.Post("/confirm", h.confirm)
}

type previewRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider,omitempty"`
}

type previewResponse struct {
	Provider     importer.Provider     `json:"provider"`
	Transactions []txHandler.Candidate `json:"transactions"`
}

type confirmRequest struct {
	Transactions []txHandler.Request `json:"transactions"`
}

type confirmResponse struct {
	Imported     int                  `json:"imported"`
	Transactions []txHandler.Response `json:"transactions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	provider := h.importSvc.Provider()

	var (
		inputs []transaction.Input
		err    error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(encoding.MaxStatementSize); err != nil {
			http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}

		if p := r.FormValue("provider"); p != "" {
			provider = importer.Provider(p)
		}

		file, _, fileErr := r.FormFile("file")
		if fileErr != nil {
			inputs, err = h.importSvc.ParseWith(ctx, provider, r.FormValue("text"))
		} else {
			defer file.Close()

			var text string

			text, err = encoding.ReadText(file)
			if err == nil {
				inputs, err = h.importSvc.ParseWith(ctx, provider, text)
			}
		}
	} else {
		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.Provider != "" {
			provider = importer.Provider(req.Provider)
		}

		inputs, err = h.importSvc.ParseWith(ctx, provider, req.Text)
	}

	if err != nil {
		writeParseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		Provider:     provider,
		Transactions: txHandler.ToCandidateList(inputs),
	})
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Transactions) == 0 {
		http.Error(w, "no transactions to import", http.StatusBadRequest)
		return
	}

	inputs := make([]transaction.Input, len(req.Transactions))

	for i, t := range req.Transactions {
		in, err := t.Input()
		if err != nil {
			http.Error(w, fmt.Sprintf("transaction %d: %s", i, err), http.StatusBadRequest)
			return
		}

		inputs[i] = in
	}

	txs := h.txSvc.AddBatch(r.Context(), inputs)

	writeJSON(w, http.StatusCreated, confirmResponse{
		Imported:     len(txs),
		Transactions: txHandler.ToResponseList(txs),
	})
}

func writeParseError(w http.ResponseWriter, err error) {
	var parseErr *importer.Error

	switch {
	case errors.Is(err, importer.ErrEmptyStatement), errors.Is(err, importer.ErrUnknownProvider):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, encoding.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: parseErr.UserMessage()})
	default:
		slog.Error("failed to import statement", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: importer.FailureMessage})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
