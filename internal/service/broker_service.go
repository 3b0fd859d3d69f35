package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tradejoy/internal/domain"
)

// Holding is one portfolio position enriched with a live quote. When the
// quote provider is unavailable the current price falls back to the average
// entry price and the derived fields are zeroed.
type Holding struct {
	Symbol          string  `json:"symbol"`
	Quantity        int64   `json:"quantity"`
	AvgPrice        float64 `json:"avg_price"`
	CurrentPrice    float64 `json:"current_price"`
	CurrentValue    float64 `json:"current_value"`
	GainLoss        float64 `json:"gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
}

// PortfolioView is a user's holdings plus cash.
type PortfolioView struct {
	Holdings      []Holding `json:"holdings"`
	CashBalance   float64   `json:"cash_balance"`
	HoldingsValue float64   `json:"holdings_value"`
	TotalValue    float64   `json:"total_value"`
}

// WatchlistItem is a watched symbol with a best-effort quote.
type WatchlistItem struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	AddedAt       time.Time `json:"added_at"`
}

// BrokerService executes simulated trades and values portfolios. Settlement
// writes (balance, position, trade log) are applied atomically by the
// portfolio repository.
type BrokerService struct {
	users     domain.UserRepository
	portfolio domain.PortfolioRepository
	trades    domain.TradeRepository
	watchlist domain.WatchlistRepository
	quotes    domain.QuoteProvider
	logger    zerolog.Logger
}

// NewBrokerService creates a new BrokerService
func NewBrokerService(
	users domain.UserRepository,
	portfolio domain.PortfolioRepository,
	trades domain.TradeRepository,
	watchlist domain.WatchlistRepository,
	quotes domain.QuoteProvider,
	logger zerolog.Logger,
) *BrokerService {
	return &BrokerService{
		users:     users,
		portfolio: portfolio,
		trades:    trades,
		watchlist: watchlist,
		quotes:    quotes,
		logger:    logger,
	}
}

// ExecuteTrade settles a BUY or SELL at the current market price. No state
// changes when the price lookup fails or a funds/shares guard rejects the
// order; there are no partial fills.
func (s *BrokerService) ExecuteTrade(ctx context.Context, userID uuid.UUID, symbol, action string, quantity int64) (*domain.Trade, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be a positive integer")
	}
	if action != domain.ActionBuy && action != domain.ActionSell {
		return nil, fmt.Errorf("action must be BUY or SELL")
	}

	price, err := s.quotes.GetPrice(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("price lookup failed")
		return nil, domain.ErrPriceUnavailable
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	total := price * float64(quantity)
	settlement := &domain.Settlement{
		Trade: &domain.Trade{
			ID:        uuid.New(),
			UserID:    userID,
			Symbol:    symbol,
			Action:    action,
			Quantity:  quantity,
			Price:     price,
			Total:     total,
			CreatedAt: time.Now(),
		},
	}

	switch action {
	case domain.ActionBuy:
		if total > user.Balance {
			return nil, domain.ErrInsufficientFunds
		}
		settlement.NewBalance = user.Balance - total
		settlement.Position, err = s.buyPosition(ctx, userID, symbol, quantity, price)
		if err != nil {
			return nil, err
		}

	case domain.ActionSell:
		position, err := s.portfolio.GetPosition(ctx, userID, symbol)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrInsufficientShares
			}
			return nil, fmt.Errorf("failed to load position: %w", err)
		}
		if position.Quantity < quantity {
			return nil, domain.ErrInsufficientShares
		}

		settlement.NewBalance = user.Balance + total
		remaining := position.Quantity - quantity
		if remaining == 0 {
			// Fully closed positions are removed; the average price is
			// not preserved for a later reopen.
			settlement.RemovePosition = true
		} else {
			settlement.Position = &domain.Position{
				UserID:   userID,
				Symbol:   symbol,
				Quantity: remaining,
				AvgPrice: position.AvgPrice,
			}
		}
	}

	if err := s.portfolio.ApplySettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to settle trade: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("symbol", symbol).
		Str("action", action).
		Int64("quantity", quantity).
		Float64("price", price).
		Float64("total", total).
		Msg("trade executed")

	return settlement.Trade, nil
}

// buyPosition computes the post-BUY position, merging into an existing one
// with a quantity-weighted average entry price.
func (s *BrokerService) buyPosition(ctx context.Context, userID uuid.UUID, symbol string, quantity int64, price float64) (*domain.Position, error) {
	existing, err := s.portfolio.GetPosition(ctx, userID, symbol)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Position{
			UserID:   userID,
			Symbol:   symbol,
			Quantity: quantity,
			AvgPrice: price,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load position: %w", err)
	}

	newQuantity := existing.Quantity + quantity
	newAvg := (existing.AvgPrice*float64(existing.Quantity) + price*float64(quantity)) / float64(newQuantity)
	return &domain.Position{
		UserID:   userID,
		Symbol:   symbol,
		Quantity: newQuantity,
		AvgPrice: newAvg,
	}, nil
}

// Portfolio values a user's holdings at live prices, degrading to the
// average entry price when the provider is unreachable.
func (s *BrokerService) Portfolio(ctx context.Context, userID uuid.UUID) (*PortfolioView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	positions, err := s.portfolio.GetPositions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	view := &PortfolioView{
		Holdings:    make([]Holding, 0, len(positions)),
		CashBalance: user.Balance,
	}

	for _, pos := range positions {
		h := Holding{
			Symbol:   pos.Symbol,
			Quantity: pos.Quantity,
			AvgPrice: pos.AvgPrice,
		}

		if price, err := s.quotes.GetPrice(ctx, pos.Symbol); err == nil {
			h.CurrentPrice = price
			h.CurrentValue = price * float64(pos.Quantity)
			h.GainLoss = (price - pos.AvgPrice) * float64(pos.Quantity)
			if pos.AvgPrice > 0 {
				h.GainLossPercent = (price - pos.AvgPrice) / pos.AvgPrice * 100
			}
		} else {
			s.logger.Warn().Err(err).Str("symbol", pos.Symbol).Msg("quote unavailable, using entry price")
			h.CurrentPrice = pos.AvgPrice
			h.CurrentValue = pos.AvgPrice * float64(pos.Quantity)
		}

		view.HoldingsValue += h.CurrentValue
		view.Holdings = append(view.Holdings, h)
	}

	view.TotalValue = view.CashBalance + view.HoldingsValue
	return view, nil
}

// TradeHistory lists a user's executed trades, newest first.
func (s *BrokerService) TradeHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Trade, error) {
	return s.trades.ListByUser(ctx, userID, limit)
}

// Watchlist lists a user's watched symbols with best-effort quotes.
func (s *BrokerService) Watchlist(ctx context.Context, userID uuid.UUID) ([]WatchlistItem, error) {
	entries, err := s.watchlist.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}

	items := make([]WatchlistItem, 0, len(entries))
	for _, entry := range entries {
		item := WatchlistItem{
			Symbol:  entry.Symbol,
			AddedAt: entry.AddedAt,
		}
		if quote, err := s.quotes.GetQuote(ctx, entry.Symbol); err == nil {
			item.Price = quote.Price
			item.Change = quote.Change
			item.ChangePercent = quote.ChangePercent
		}
		items = append(items, item)
	}

	return items, nil
}

// AddToWatchlist tracks a new symbol for the user.
func (s *BrokerService) AddToWatchlist(ctx context.Context, userID uuid.UUID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	return s.watchlist.Add(ctx, userID, symbol)
}

// RemoveFromWatchlist stops tracking a symbol.
func (s *BrokerService) RemoveFromWatchlist(ctx context.Context, userID uuid.UUID, symbol string) error {
	return s.watchlist.Remove(ctx, userID, strings.ToUpper(strings.TrimSpace(symbol)))
}
