package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pastel/internal/export"
	txHandler "github.com/MrJamesThe3rd/pastel/internal/http/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Post("/sheets", h.sheets)
}

type sheetsResponse struct {
	Range string `json:"range"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter, err := txHandler.ParseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Buffer so a failed write can still turn into a 500.
	var buf bytes.Buffer
	if err := h.svc.Write(r.Context(), format, filter, &buf); err != nil {
		slog.Error("failed to export transactions", "format", format, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func (h *Handler) sheets(w http.ResponseWriter, r *http.Request) {
	filter, err := txHandler.ParseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ref, err := h.svc.AppendToSheets(r.Context(), filter)

	w.Header().Set("Content-Type", "application/json")

	var body any = sheetsResponse{Range: ref}

	switch {
	case errors.Is(err, export.ErrSheetsDisabled):
		w.WriteHeader(http.StatusServiceUnavailable)

		body = errorResponse{Error: err.Error()}
	case err != nil:
		slog.Error("failed to append to sheets", "error", err)
		w.WriteHeader(http.StatusBadGateway)

		body = errorResponse{Error: "failed to append to spreadsheet"}
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
