package dataflows

import (
	"context"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// QuoteClient fetches real-time quotes through the finance-go Yahoo
// client.
type QuoteClient struct{}

// NewQuoteClient creates a new quote client.
func NewQuoteClient() *QuoteClient {
	return &QuoteClient{}
}

// Quote gets current quote data for a symbol.
func (qc *QuoteClient) Quote(ctx context.Context, symbol string) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, err := quote.Get(symbol)
	if err != nil {
		return nil, upstreamErr("quote", symbol, "failed to get quote for %s: %w", symbol, err)
	}
	// finance-go reports unknown symbols as a nil quote with no error.
	if q == nil {
		return nil, upstreamErr("quote", symbol, "no quote data returned for %s", symbol)
	}

	return &Quote{
		Symbol:             symbol,
		RegularMarketPrice: decimal.NewFromFloat(q.RegularMarketPrice),
		Currency:           q.CurrencyID,
	}, nil
}
