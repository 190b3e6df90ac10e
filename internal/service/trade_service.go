package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/quangvu-go/pricehub/internal/model"
	"github.com/quangvu-go/pricehub/internal/repository"
)

const (
	maxQuantityIntegerDigits  = 10
	maxQuantityFractionDigits = 8
	maxClientOrderIDLength    = 50
)

var maxQuantity = decimal.NewFromInt(1_000_000)

// TradeRequest is an inbound settlement request.
type TradeRequest struct {
	UserID        uint            `json:"userId"`
	Symbol        string          `json:"symbol"`
	Side          model.TradeSide `json:"side"`
	Quantity      decimal.Decimal `json:"quantity"`
	ClientOrderID string          `json:"clientOrderId"`
}

// Validate normalizes the request in place and checks the inbound contract.
// All violations are ErrInvalidRequest so callers can map them to one
// remediation category.
func (r *TradeRequest) Validate() error {
	if r.UserID == 0 {
		return fmt.Errorf("%w: user ID is required and must be positive", ErrInvalidRequest)
	}
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	if r.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
	}
	if !r.Side.Valid() {
		return fmt.Errorf("%w: side must be BUY or SELL", ErrInvalidRequest)
	}
	if !r.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidRequest)
	}
	if r.Quantity.GreaterThan(maxQuantity) {
		return fmt.Errorf("%w: quantity cannot exceed 1,000,000", ErrInvalidRequest)
	}
	if r.Quantity.Exponent() < -maxQuantityFractionDigits {
		return fmt.Errorf("%w: quantity can have at most %d decimal places", ErrInvalidRequest, maxQuantityFractionDigits)
	}
	if len(r.Quantity.Truncate(0).String()) > maxQuantityIntegerDigits {
		return fmt.Errorf("%w: quantity can have at most %d integer digits", ErrInvalidRequest, maxQuantityIntegerDigits)
	}
	if len(r.ClientOrderID) > maxClientOrderIDLength {
		return fmt.Errorf("%w: client order ID cannot exceed %d characters", ErrInvalidRequest, maxClientOrderIDLength)
	}
	return nil
}

// TradeResult is the outcome of a settlement. The updated balances are nil
// when the result was replayed from an existing trade via the idempotency
// key, since no balances changed.
type TradeResult struct {
	TradeID              uint             `json:"tradeId"`
	UserID               uint             `json:"userId"`
	Symbol               string           `json:"symbol"`
	Side                 model.TradeSide  `json:"side"`
	Price                decimal.Decimal  `json:"price"`
	Quantity             decimal.Decimal  `json:"quantity"`
	TotalAmount          decimal.Decimal  `json:"totalAmount"`
	CreatedAt            time.Time        `json:"createdAt"`
	ClientOrderID        string           `json:"clientOrderId,omitempty"`
	AssetCurrency        string           `json:"assetCurrency"`
	UpdatedQuoteBalance  *decimal.Decimal `json:"updatedQuoteBalance,omitempty"`
	UpdatedAssetBalance  *decimal.Decimal `json:"updatedAssetBalance,omitempty"`
}

// TradeEventPublisher receives every successfully settled trade.
type TradeEventPublisher interface {
	PublishTrade(trade *model.Trade)
}

// TradeService settles buy/sell orders against the wallet ledger at the
// latest aggregated price.
type TradeService struct {
	users   repository.UserRepository
	quotes  repository.QuoteRepository
	trades  repository.TradeRepository
	wallets repository.WalletRepository
	events  TradeEventPublisher

	quoteCurrency  string
	maxAttempts    int
	retryBaseDelay time.Duration
	logger         *logrus.Logger
}

// NewTradeService wires the settlement engine. events may be nil when trade
// publishing is disabled.
func NewTradeService(users repository.UserRepository, quotes repository.QuoteRepository,
	trades repository.TradeRepository, wallets repository.WalletRepository,
	events TradeEventPublisher, quoteCurrency string, maxAttempts int,
	retryBaseDelay time.Duration, logger *logrus.Logger) *TradeService {

	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if retryBaseDelay <= 0 {
		retryBaseDelay = 50 * time.Millisecond
	}

	return &TradeService{
		users:          users,
		quotes:         quotes,
		trades:         trades,
		wallets:        wallets,
		events:         events,
		quoteCurrency:  quoteCurrency,
		maxAttempts:    maxAttempts,
		retryBaseDelay: retryBaseDelay,
		logger:         logger,
	}
}

// ExecuteTrade settles one trade request. Version conflicts from concurrent
// settlements are retried from scratch with jittered backoff up to the
// configured bound; every other outcome is returned as-is. After
// ErrConcurrencyExhausted the caller must not assume any mutation occurred.
func (ts *TradeService) ExecuteTrade(ctx context.Context, req *TradeRequest) (*TradeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ts.logger.WithFields(logrus.Fields{
		"userId":        req.UserID,
		"symbol":        req.Symbol,
		"side":          req.Side,
		"quantity":      req.Quantity,
		"clientOrderId": req.ClientOrderID,
	}).Info("Executing trade")

	for attempt := 1; ; attempt++ {
		result, err := ts.executeOnce(ctx, req)
		if err == nil || !errors.Is(err, repository.ErrVersionConflict) {
			return result, err
		}

		if attempt >= ts.maxAttempts {
			ts.logger.Errorf("Settlement failed after %d attempts for userId=%d symbol=%s: %v",
				attempt, req.UserID, req.Symbol, err)
			return nil, ErrConcurrencyExhausted
		}

		delay := ts.retryBaseDelay * time.Duration(attempt)
		delay += time.Duration(rand.Int63n(int64(ts.retryBaseDelay)))
		ts.logger.Warnf("Version conflict for userId=%d symbol=%s, retrying in %v (attempt %d/%d)",
			req.UserID, req.Symbol, delay, attempt, ts.maxAttempts)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// executeOnce runs the linear settlement sequence once: idempotency check,
// user resolution, price resolution, pricing, then the atomic lock-validate-
// mutate-persist step inside the wallet repository.
func (ts *TradeService) executeOnce(ctx context.Context, req *TradeRequest) (*TradeResult, error) {
	if req.ClientOrderID != "" {
		existing, err := ts.trades.FindByClientOrderID(ctx, req.ClientOrderID)
		if err == nil {
			ts.logger.Warnf("Duplicate order detected for clientOrderId=%s, replaying existing trade %d",
				req.ClientOrderID, existing.ID)
			return resultFromTrade(existing, ts.quoteCurrency), nil
		}
		if !errors.Is(err, repository.ErrTradeNotFound) {
			return nil, err
		}
	}

	user, err := ts.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	latest, err := ts.quotes.GetLatest(ctx, req.Symbol)
	if err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			return nil, fmt.Errorf("%w for symbol: %s", ErrPriceUnavailable, req.Symbol)
		}
		return nil, err
	}

	price := latest.BestBid
	if req.Side == model.TradeSideBuy {
		price = latest.BestAsk
	}
	totalAmount := price.Mul(req.Quantity).Round(maxQuantityFractionDigits)
	assetCurrency := strings.TrimSuffix(req.Symbol, ts.quoteCurrency)

	trade := &model.Trade{
		UserID:      user.ID,
		Symbol:      req.Symbol,
		Side:        req.Side,
		Price:       price,
		Quantity:    req.Quantity,
		TotalAmount: totalAmount,
		CreatedAt:   time.Now().UTC(),
	}
	if req.ClientOrderID != "" {
		clientOrderID := req.ClientOrderID
		trade.ClientOrderID = &clientOrderID
	}

	wallets, err := ts.wallets.Settle(ctx, user.ID, []string{ts.quoteCurrency, assetCurrency},
		func(w map[string]*model.WalletBalance) error {
			return ts.applyTrade(w[ts.quoteCurrency], w[assetCurrency], req.Side, req.Quantity, totalAmount)
		}, trade)
	if err != nil {
		return nil, err
	}

	ts.logger.WithFields(logrus.Fields{
		"tradeId":     trade.ID,
		"userId":      user.ID,
		"symbol":      req.Symbol,
		"side":        req.Side,
		"price":       price,
		"quantity":    req.Quantity,
		"totalAmount": totalAmount,
	}).Info("Trade executed successfully")

	if ts.events != nil {
		ts.events.PublishTrade(trade)
	}

	result := resultFromTrade(trade, ts.quoteCurrency)
	quoteBalance := wallets[ts.quoteCurrency].Balance
	assetBalance := wallets[assetCurrency].Balance
	result.UpdatedQuoteBalance = &quoteBalance
	result.UpdatedAssetBalance = &assetBalance
	return result, nil
}

// applyTrade validates funding and moves value between the two wallets.
// BUY spends the quote currency for the asset; SELL does the reverse.
// Any failure leaves both balances untouched because the whole mutation is
// rolled back by the surrounding transaction.
func (ts *TradeService) applyTrade(quoteWallet, assetWallet *model.WalletBalance,
	side model.TradeSide, quantity, totalAmount decimal.Decimal) error {

	if side == model.TradeSideBuy {
		if quoteWallet.Balance.LessThan(totalAmount) {
			return fmt.Errorf("%w: required %s %s, available %s",
				ErrInsufficientBalance, totalAmount, quoteWallet.Currency, quoteWallet.Balance)
		}
		quoteWallet.Balance = quoteWallet.Balance.Sub(totalAmount)
		assetWallet.Balance = assetWallet.Balance.Add(quantity)
		return nil
	}

	if assetWallet.Balance.LessThan(quantity) {
		return fmt.Errorf("%w: required %s %s, available %s",
			ErrInsufficientBalance, quantity, assetWallet.Currency, assetWallet.Balance)
	}
	assetWallet.Balance = assetWallet.Balance.Sub(quantity)
	quoteWallet.Balance = quoteWallet.Balance.Add(totalAmount)
	return nil
}

func resultFromTrade(trade *model.Trade, quoteCurrency string) *TradeResult {
	result := &TradeResult{
		TradeID:       trade.ID,
		UserID:        trade.UserID,
		Symbol:        trade.Symbol,
		Side:          trade.Side,
		Price:         trade.Price,
		Quantity:      trade.Quantity,
		TotalAmount:   trade.TotalAmount,
		CreatedAt:     trade.CreatedAt,
		AssetCurrency: strings.TrimSuffix(trade.Symbol, quoteCurrency),
	}
	if trade.ClientOrderID != nil {
		result.ClientOrderID = *trade.ClientOrderID
	}
	return result
}

// TradeHistoryPage is one page of a user's trade history, newest first.
type TradeHistoryPage struct {
	Trades        []model.Trade `json:"trades"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalPages    int           `json:"totalPages"`
	TotalElements int64         `json:"totalElements"`
}

// GetUserTradeHistory returns a page of the user's trades, optionally
// filtered by symbol.
func (ts *TradeService) GetUserTradeHistory(ctx context.Context, userID uint, page, size int, symbol string) (*TradeHistoryPage, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	trades, total, err := ts.trades.FindByUserID(ctx, userID, symbol, page, size)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}

	return &TradeHistoryPage{
		Trades:        trades,
		Page:          page,
		Size:          size,
		TotalPages:    totalPages,
		TotalElements: total,
	}, nil
}
