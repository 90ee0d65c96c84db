package fintools

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"finagent/internal/dataflows"
)

// Service implements the finance tool operations on top of a market
// data provider.
type Service struct {
	data   dataflows.MarketData
	logger *log.Logger
	now    func() time.Time
}

// NewService creates a tool service. A nil logger falls back to the
// standard logger.
func NewService(data dataflows.MarketData, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		data:   data,
		logger: logger,
		now:    time.Now,
	}
}

// classify maps provider-originated failures to user-facing tool errors
// and lets everything else through untouched.
func classify(err error, format string, args ...any) error {
	var upErr *dataflows.UpstreamError
	if errors.As(err, &upErr) {
		return toolErrorf(format, args...)
	}
	return err
}

// StockInfo gets basic information about a stock.
func (s *Service) StockInfo(ctx context.Context, ticker string) (*StockInfo, error) {
	s.logger.Printf("Fetching information for %s...", ticker)

	profile, err := s.data.CompanyProfile(ctx, ticker)
	if err != nil {
		return nil, classify(err, "Could not retrieve information for %s: %v", ticker, err)
	}

	info := &StockInfo{
		ShortName: profile.ShortName,
		LongName:  profile.LongName,
		Symbol:    profile.Symbol,
		Sector:    profile.Sector,
		Industry:  profile.Industry,
		MarketCap: profile.MarketCap,
		Currency:  profile.Currency,
	}
	if profile.CurrentPrice.Valid {
		info.CurrentPrice = profile.CurrentPrice.Decimal.InexactFloat64()
	}
	if info.Currency == "" {
		info.Currency = "USD"
	}
	return info, nil
}

// StockPrice gets the current price of a stock. The profile's
// currentPrice wins; when the provider omits it the real-time quote
// fills in, and failing that the price reports as zero.
func (s *Service) StockPrice(ctx context.Context, ticker string) (*StockPrice, error) {
	s.logger.Printf("Fetching current price for %s...", ticker)

	profile, err := s.data.CompanyProfile(ctx, ticker)
	if err != nil {
		return nil, classify(err, "Could not retrieve price for %s: %v", ticker, err)
	}

	price := 0.0
	if profile.CurrentPrice.Valid {
		price = profile.CurrentPrice.Decimal.InexactFloat64()
	} else if quote, qErr := s.data.Quote(ctx, ticker); qErr == nil {
		price = quote.RegularMarketPrice.InexactFloat64()
	} else {
		s.logger.Printf("Quote fallback failed for %s: %v", ticker, qErr)
	}

	currency := profile.Currency
	if currency == "" {
		currency = "USD"
	}

	return &StockPrice{
		Symbol:   ticker,
		Price:    price,
		Currency: currency,
		AsOf:     s.now().Format(time.RFC3339),
	}, nil
}

// FinancialData gets one financial statement for a company. The
// statement selector is case insensitive and defaults to the income
// statement.
func (s *Service) FinancialData(ctx context.Context, ticker, statementType string) (*FinancialData, error) {
	if statementType == "" {
		statementType = "income"
	}
	s.logger.Printf("Fetching %s statement for %s...", statementType, ticker)

	var kind dataflows.StatementKind
	switch strings.ToLower(statementType) {
	case "income":
		kind = dataflows.StatementIncome
	case "balance":
		kind = dataflows.StatementBalance
	case "cash":
		kind = dataflows.StatementCash
	default:
		return nil, toolErrorf("Invalid statement type: %s. Use 'income', 'balance', or 'cash'.", statementType)
	}

	table, err := s.data.Statement(ctx, ticker, kind)
	if err != nil {
		return nil, classify(err, "Could not retrieve financial data for %s: %v", ticker, err)
	}
	if table.Empty() {
		return nil, toolErrorf("No %s data available for %s.", kind.DisplayName(), ticker)
	}

	data := make(map[string]map[string]float64, len(table.Rows))
	for metric, values := range table.Rows {
		row := make(map[string]float64, len(values))
		for period, value := range values {
			row[period] = value.InexactFloat64()
		}
		data[metric] = row
	}

	return &FinancialData{
		Symbol:    ticker,
		Statement: kind.DisplayName(),
		Data:      data,
	}, nil
}

// KeyMetrics gets key financial metrics for a company's latest reported
// period, deriving the EBITDA margin from the income statement.
func (s *Service) KeyMetrics(ctx context.Context, ticker string) (*KeyMetrics, error) {
	s.logger.Printf("Fetching key metrics for %s...", ticker)

	table, err := s.data.Statement(ctx, ticker, dataflows.StatementIncome)
	if err != nil {
		return nil, classify(err, "Could not retrieve key metrics for %s: %v", ticker, err)
	}
	if table.Empty() {
		return nil, toolErrorf("No financial data available for %s.", ticker)
	}

	metrics := MetricsSet{}
	ebitda, _ := table.Latest("EBITDA")
	revenue, _ := table.Latest("Total Revenue")
	if income, ok := table.Latest("Net Income"); ok {
		metrics.NetIncome = income.InexactFloat64()
	}
	metrics.EBITDA = ebitda.InexactFloat64()
	metrics.TotalRevenue = revenue.InexactFloat64()
	if !revenue.IsZero() {
		metrics.EBITDAMargin = ebitda.Div(revenue).InexactFloat64()
	}

	profile, err := s.data.CompanyProfile(ctx, ticker)
	if err != nil {
		return nil, classify(err, "Could not retrieve key metrics for %s: %v", ticker, err)
	}
	metrics.MarketCap = profile.MarketCap

	return &KeyMetrics{
		Symbol:  ticker,
		Period:  table.LatestPeriod(),
		Metrics: metrics,
	}, nil
}
