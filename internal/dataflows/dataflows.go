package dataflows

import "context"

// MarketData is the market data surface the finance tools consume.
type MarketData interface {
	// CompanyProfile gets general company information for a symbol.
	CompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error)
	// Quote gets the current market quote for a symbol.
	Quote(ctx context.Context, symbol string) (*Quote, error)
	// Statement gets one annual financial statement table for a symbol.
	Statement(ctx context.Context, symbol string, kind StatementKind) (*StatementTable, error)
}

// Provider bundles the Yahoo clients behind the MarketData interface.
type Provider struct {
	fundamentals *YahooFundamentalsClient
	quotes       *QuoteClient
}

// NewProvider creates a provider backed by Yahoo Finance.
func NewProvider(cfg *Config) *Provider {
	return &Provider{
		fundamentals: NewYahooFundamentalsClient(cfg),
		quotes:       NewQuoteClient(),
	}
}

// CompanyProfile gets general company information for a symbol.
func (p *Provider) CompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	return p.fundamentals.CompanyProfile(ctx, symbol)
}

// Quote gets the current market quote for a symbol.
func (p *Provider) Quote(ctx context.Context, symbol string) (*Quote, error) {
	return p.quotes.Quote(ctx, symbol)
}

// Statement gets one annual financial statement table for a symbol.
func (p *Provider) Statement(ctx context.Context, symbol string, kind StatementKind) (*StatementTable, error) {
	return p.fundamentals.Statement(ctx, symbol, kind)
}
