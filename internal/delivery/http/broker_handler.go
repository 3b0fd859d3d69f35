package http

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"tradejoy/internal/delivery/http/dto"
	"tradejoy/internal/domain"
	"tradejoy/internal/middleware"
	"tradejoy/internal/service"
)

// BrokerHandler handles quote, portfolio, trade and watchlist requests
type BrokerHandler struct {
	broker *service.BrokerService
	quotes domain.QuoteProvider
	logger zerolog.Logger
}

// NewBrokerHandler creates a new BrokerHandler
func NewBrokerHandler(broker *service.BrokerService, quotes domain.QuoteProvider, logger zerolog.Logger) *BrokerHandler {
	return &BrokerHandler{
		broker: broker,
		quotes: quotes,
		logger: logger,
	}
}

// GetStock returns a live quote for one symbol
// GET /api/stock/:symbol
func (h *BrokerHandler) GetStock(c echo.Context) error {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		return BadRequest(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	quote, err := h.quotes.GetQuote(ctx, symbol)
	if err != nil {
		h.logger.Warn().Err(err).Str("symbol", symbol).Msg("quote lookup failed")
		return NotFound(c, "Unable to get stock price")
	}

	return Success(c, echo.Map{
		"quote": quote,
	})
}

// GetPortfolio returns the user's holdings valued at live prices
// GET /api/portfolio
func (h *BrokerHandler) GetPortfolio(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return Unauthorized(c, "Not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	view, err := h.broker.Portfolio(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load portfolio")
		return InternalServerError(c, "Failed to load portfolio")
	}

	return Success(c, echo.Map{
		"portfolio":      view.Holdings,
		"cash_balance":   view.CashBalance,
		"holdings_value": view.HoldingsValue,
		"total_value":    view.TotalValue,
	})
}

// ExecuteTrade settles a BUY or SELL order at market price
// POST /api/trade
func (h *BrokerHandler) ExecuteTrade(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return Unauthorized(c, "Not authenticated")
	}

	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest(c, "Invalid request payload")
	}
	if req.Symbol == "" {
		return BadRequest(c, "Symbol is required")
	}
	if req.Quantity <= 0 {
		return BadRequest(c, "Quantity must be a positive integer")
	}
	action := strings.ToUpper(strings.TrimSpace(req.Action))
	if action != domain.ActionBuy && action != domain.ActionSell {
		return BadRequest(c, "Action must be BUY or SELL")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	trade, err := h.broker.ExecuteTrade(ctx, userID, req.Symbol, action, req.Quantity)
	switch {
	case errors.Is(err, domain.ErrPriceUnavailable):
		return BadRequest(c, "Unable to get stock price")
	case errors.Is(err, domain.ErrInsufficientFunds):
		return BadRequest(c, "Insufficient funds")
	case errors.Is(err, domain.ErrInsufficientShares):
		return BadRequest(c, "Insufficient shares")
	case err != nil:
		h.logger.Error().Err(err).Msg("trade execution failed")
		return InternalServerError(c, "Trade failed")
	}

	return Success(c, echo.Map{
		"trade":   trade,
		"message": formatTradeMessage(trade),
	})
}

func formatTradeMessage(trade *domain.Trade) string {
	verb := "Bought"
	if trade.Action == domain.ActionSell {
		verb = "Sold"
	}
	return verb + " " + strconv.FormatInt(trade.Quantity, 10) + " " + trade.Symbol +
		" @ $" + strconv.FormatFloat(trade.Price, 'f', 2, 64)
}

// GetTrades returns the user's trade history, newest first
// GET /api/trades
func (h *BrokerHandler) GetTrades(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return Unauthorized(c, "Not authenticated")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return BadRequest(c, "Invalid limit")
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trades, err := h.broker.TradeHistory(ctx, userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load trades")
		return InternalServerError(c, "Failed to load trade history")
	}
	if trades == nil {
		trades = []*domain.Trade{}
	}

	return Success(c, echo.Map{
		"trades": trades,
	})
}

// GetWatchlist returns the user's watched symbols with best-effort quotes
// GET /api/watchlist
func (h *BrokerHandler) GetWatchlist(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return Unauthorized(c, "Not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	items, err := h.broker.Watchlist(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load watchlist")
		return InternalServerError(c, "Failed to load watchlist")
	}

	return Success(c, echo.Map{
		"watchlist": items,
	})
}

// AddToWatchlist tracks a new symbol
// POST /api/watchlist/add
func (h *BrokerHandler) AddToWatchlist(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return Unauthorized(c, "Not authenticated")
	}

	var req dto.WatchlistAddRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.Symbol) == "" {
		return BadRequest(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.broker.AddToWatchlist(ctx, userID, req.Symbol); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return BadRequest(c, "Symbol already in watchlist")
		}
		h.logger.Error().Err(err).Msg("failed to add watchlist entry")
		return InternalServerError(c, "Failed to update watchlist")
	}

	return Success(c, echo.Map{
		"message": "Symbol added to watchlist",
	})
}

// RemoveFromWatchlist stops tracking a symbol
// DELETE /api/watchlist/:symbol
func (h *BrokerHandler) RemoveFromWatchlist(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return Unauthorized(c, "Not authenticated")
	}

	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		return BadRequest(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.broker.RemoveFromWatchlist(ctx, userID, symbol); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return NotFound(c, "Symbol not in watchlist")
		}
		h.logger.Error().Err(err).Msg("failed to remove watchlist entry")
		return InternalServerError(c, "Failed to update watchlist")
	}

	return Success(c, echo.Map{
		"message": "Symbol removed from watchlist",
	})
}
