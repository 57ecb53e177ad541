package ledger

import (
	"errors"
	"log"
	"net/http"

	"github.com/sami992010/ProBTC/internal/httputil"
	"github.com/sami992010/ProBTC/internal/model"
	"github.com/sami992010/ProBTC/internal/types"

	"github.com/shopspring/decimal"
)

type Handler struct {
	ledger *Ledger
}

func NewHandler(l *Ledger) *Handler {
	return &Handler{ledger: l}
}

type openTradeRequest struct {
	Symbol string `json:"symbol"`
	Side   string `json:"side"`
	Size   string `json:"size"`
}

type closeTradeRequest struct {
	TradeID int64 `json:"trade_id"`
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request, userID int64) {
	balance, err := h.ledger.Balance(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"balance": balance.String()})
}

func (h *Handler) OpenTrade(w http.ResponseWriter, r *http.Request, userID int64) {
	var req openTradeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	size, err := decimal.NewFromString(req.Size)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid size"})
		return
	}
	tradeID, err := h.ledger.OpenTrade(r.Context(), userID, req.Symbol, types.TradeSide(req.Side), size)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{"message": "trade opened", "trade_id": tradeID})
}

func (h *Handler) CloseTrade(w http.ResponseWriter, r *http.Request, userID int64) {
	var req closeTradeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if req.TradeID <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "trade_id is required"})
		return
	}
	pnl, err := h.ledger.CloseTrade(r.Context(), userID, req.TradeID)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "trade closed", "pnl": pnl.StringFixed(2)})
}

func (h *Handler) Trades(w http.ResponseWriter, r *http.Request, userID int64) {
	trades := h.ledger.Trades(userID)
	if trades == nil {
		trades = []model.Trade{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"trades": trades})
}

// writeError maps ledger errors to HTTP statuses. Anything outside the known
// taxonomy is logged and surfaced as an opaque failure.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInsufficientBalance):
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrTradeNotFound):
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrNotAdmin):
		httputil.WriteJSON(w, http.StatusForbidden, httputil.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[ledger] unexpected error: %v", err)
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "internal error"})
	}
}
