package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	txHandler "github.com/MrJamesThe3rd/pastel/internal/http/transaction"
	"github.com/MrJamesThe3rd/pastel/internal/summary"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type statsResponse struct {
	Income  json.Number `json:"income"`
	Expense json.Number `json:"expense"`
	Tax     json.Number `json:"tax"`
	Balance json.Number `json:"balance"`
}

type barResponse struct {
	Type   transaction.Type `json:"type"`
	Label  string           `json:"label"`
	Amount json.Number      `json:"amount"`
	Color  string           `json:"color"`
}

type categoryResponse struct {
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
}

type sliceResponse struct {
	Name    string      `json:"name"`
	Amount  json.Number `json:"amount"`
	Percent json.Number `json:"percent"`
	Color   string      `json:"color"`
}

type dashboardResponse struct {
	Count     int                `json:"count"`
	Stats     statsResponse      `json:"stats"`
	Flow      []barResponse      `json:"flow"`
	Breakdown []categoryResponse `json:"breakdown"`
	Slices    []sliceResponse    `json:"slices"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func toResponse(count int, rep summary.Report) dashboardResponse {
	resp := dashboardResponse{
		Count: count,
		Stats: statsResponse{
			Income:  number(rep.Stats.Income),
			Expense: number(rep.Stats.Expense),
			Tax:     number(rep.Stats.Tax),
			Balance: number(rep.Stats.Balance),
		},
		Flow:      make([]barResponse, len(rep.Flow)),
		Breakdown: make([]categoryResponse, len(rep.Breakdown)),
		Slices:    make([]sliceResponse, len(rep.Slices)),
	}

	for i, b := range rep.Flow {
		resp.Flow[i] = barResponse{Type: b.Type, Label: b.Label, Amount: number(b.Amount), Color: b.Color}
	}

	for i, c := range rep.Breakdown {
		resp.Breakdown[i] = categoryResponse{Name: c.Name, Amount: number(c.Amount)}
	}

	for i, s := range rep.Slices {
		resp.Slices[i] = sliceResponse{Name: s.Name, Amount: number(s.Amount), Percent: number(s.Percent), Color: s.Color}
	}

	return resp
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	filter, err := txHandler.ParseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs := h.svc.List(r.Context(), filter)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(len(txs), summary.Dashboard(txs))); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
