package admin

import (
	"errors"
	"net/http"

	"github.com/sami992010/ProBTC/internal/httputil"
	"github.com/sami992010/ProBTC/internal/ledger"
)

// Handler serves the admin surface. Every method takes the caller's resolved
// admin capability; the ledger re-checks it on the mutating path.
type Handler struct {
	ledger *ledger.Ledger
}

func NewHandler(l *ledger.Ledger) *Handler {
	return &Handler{ledger: l}
}

type closeTradeRequest struct {
	TradeID int64 `json:"trade_id"`
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request, isAdmin bool) {
	if !isAdmin {
		httputil.WriteJSON(w, http.StatusForbidden, httputil.ErrorResponse{Error: "admin access required"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"users": h.ledger.Users()})
}

func (h *Handler) Trades(w http.ResponseWriter, r *http.Request, isAdmin bool) {
	if !isAdmin {
		httputil.WriteJSON(w, http.StatusForbidden, httputil.ErrorResponse{Error: "admin access required"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"trades": h.ledger.AllTrades()})
}

func (h *Handler) CloseTrade(w http.ResponseWriter, r *http.Request, isAdmin bool) {
	var req closeTradeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if req.TradeID <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "trade_id is required"})
		return
	}
	pnl, err := h.ledger.AdminCloseTrade(r.Context(), req.TradeID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotAdmin):
			httputil.WriteJSON(w, http.StatusForbidden, httputil.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ledger.ErrTradeNotFound):
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error()})
		default:
			httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "internal error"})
		}
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "admin closed trade", "pnl": pnl.StringFixed(2)})
}
