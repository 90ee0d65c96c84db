package dataflows

import (
	"fmt"

	"finagent/internal/config"

	"github.com/shopspring/decimal"
)

// Config is an alias for the main application config
type Config = config.Config

// CompanyProfile is the provider's general profile surface for one symbol.
// String fields are empty and numeric fields are unset when the provider
// omits them.
type CompanyProfile struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"short_name"`
	LongName  string `json:"long_name"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
	Currency  string `json:"currency"`
	MarketCap int64  `json:"market_cap"`

	CurrentPrice       decimal.NullDecimal `json:"current_price"`
	RegularMarketPrice decimal.NullDecimal `json:"regular_market_price"`
}

// Quote is a trimmed real-time quote.
type Quote struct {
	Symbol             string          `json:"symbol"`
	RegularMarketPrice decimal.Decimal `json:"regular_market_price"`
	Currency           string          `json:"currency"`
}

// StatementKind selects one of the three provider statement tables.
type StatementKind string

const (
	StatementIncome  StatementKind = "income"
	StatementBalance StatementKind = "balance"
	StatementCash    StatementKind = "cash"
)

// DisplayName returns the human-readable statement name.
func (k StatementKind) DisplayName() string {
	switch k {
	case StatementIncome:
		return "Income Statement"
	case StatementBalance:
		return "Balance Sheet"
	case StatementCash:
		return "Cash Flow Statement"
	}
	return string(k)
}

// StatementTable is one financial statement: metric rows by reporting
// period. Periods are YYYY-MM-DD labels sorted most recent first; a cell
// missing from Rows means the provider reported no value for that
// metric/period pair.
type StatementTable struct {
	Symbol  string                                `json:"symbol"`
	Kind    StatementKind                         `json:"kind"`
	Periods []string                              `json:"periods"`
	Rows    map[string]map[string]decimal.Decimal `json:"rows"`
}

// Empty reports whether the table carries no data at all.
func (t *StatementTable) Empty() bool {
	return t == nil || len(t.Periods) == 0 || len(t.Rows) == 0
}

// Latest returns the metric's value for the most recent period.
func (t *StatementTable) Latest(metric string) (decimal.Decimal, bool) {
	if t.Empty() {
		return decimal.Decimal{}, false
	}
	v, ok := t.Rows[metric][t.Periods[0]]
	return v, ok
}

// LatestPeriod returns the most recent reporting-period label.
func (t *StatementTable) LatestPeriod() string {
	if t.Empty() {
		return ""
	}
	return t.Periods[0]
}

// UpstreamError marks a failure that originated at the data provider:
// transport errors, non-OK statuses, unusable payloads. The tool layer
// uses it to tell expected provider trouble apart from programming
// faults.
type UpstreamError struct {
	Op     string
	Symbol string
	Err    error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstreamErr(op, symbol string, format string, args ...any) *UpstreamError {
	return &UpstreamError{
		Op:     op,
		Symbol: symbol,
		Err:    fmt.Errorf(format, args...),
	}
}
