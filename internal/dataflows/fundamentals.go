package dataflows

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Yahoo rejects requests with Go's default user agent.
const yahooUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// YahooFundamentalsClient handles the Yahoo quoteSummary and
// fundamentals-timeseries APIs.
type YahooFundamentalsClient struct {
	client *resty.Client
}

// NewYahooFundamentalsClient creates a new fundamentals client.
func NewYahooFundamentalsClient(cfg *Config) *YahooFundamentalsClient {
	client := resty.New()
	client.SetBaseURL(cfg.YahooQuoteAPIURL)
	client.SetTimeout(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)
	client.SetHeader("User-Agent", yahooUserAgent)
	client.SetHeader("Accept", "application/json")

	return &YahooFundamentalsClient{client: client}
}

// yahooNumber is Yahoo's wrapped numeric: {"raw": 391035000000, "fmt": "391.04B"}.
type yahooNumber struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type yahooAPIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			Price struct {
				Symbol             string       `json:"symbol"`
				ShortName          string       `json:"shortName"`
				LongName           string       `json:"longName"`
				Currency           string       `json:"currency"`
				MarketCap          *yahooNumber `json:"marketCap"`
				RegularMarketPrice *yahooNumber `json:"regularMarketPrice"`
			} `json:"price"`
			FinancialData struct {
				CurrentPrice      *yahooNumber `json:"currentPrice"`
				FinancialCurrency string       `json:"financialCurrency"`
			} `json:"financialData"`
		} `json:"result"`
		Error *yahooAPIError `json:"error"`
	} `json:"quoteSummary"`
}

// CompanyProfile gets the general profile for a symbol: names, sector,
// industry, market cap, prices, currency.
func (c *YahooFundamentalsClient) CompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"modules": "assetProfile,price,financialData",
		}).
		Get("/v10/finance/quoteSummary/" + url.PathEscape(symbol))
	if err != nil {
		return nil, upstreamErr("profile", symbol, "failed to fetch profile for %s: %w", symbol, err)
	}

	var payload quoteSummaryResponse
	decodeErr := json.Unmarshal(resp.Body(), &payload)

	if resp.StatusCode() != 200 {
		if decodeErr == nil && payload.QuoteSummary.Error != nil {
			return nil, upstreamErr("profile", symbol, "API error %d: %s", resp.StatusCode(), payload.QuoteSummary.Error.Description)
		}
		return nil, upstreamErr("profile", symbol, "API error %d: %s", resp.StatusCode(), resp.String())
	}
	if decodeErr != nil {
		return nil, upstreamErr("profile", symbol, "failed to parse profile response for %s: %w", symbol, decodeErr)
	}
	if apiErr := payload.QuoteSummary.Error; apiErr != nil {
		return nil, upstreamErr("profile", symbol, "API error: %s", apiErr.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, upstreamErr("profile", symbol, "no profile data returned for %s", symbol)
	}

	r := payload.QuoteSummary.Result[0]

	currency := r.Price.Currency
	if currency == "" {
		currency = r.FinancialData.FinancialCurrency
	}

	profile := &CompanyProfile{
		Symbol:    r.Price.Symbol,
		ShortName: r.Price.ShortName,
		LongName:  r.Price.LongName,
		Sector:    r.AssetProfile.Sector,
		Industry:  r.AssetProfile.Industry,
		Currency:  currency,
	}
	if r.Price.MarketCap != nil {
		profile.MarketCap = int64(r.Price.MarketCap.Raw)
	}
	if r.FinancialData.CurrentPrice != nil {
		profile.CurrentPrice = decimal.NewNullDecimal(decimal.NewFromFloat(r.FinancialData.CurrentPrice.Raw))
	}
	if r.Price.RegularMarketPrice != nil {
		profile.RegularMarketPrice = decimal.NewNullDecimal(decimal.NewFromFloat(r.Price.RegularMarketPrice.Raw))
	}

	return profile, nil
}

type timeseriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *yahooAPIError    `json:"error"`
	} `json:"timeseries"`
}

// timeseriesRow is one reported value of one metric. Yahoo pads the row
// arrays with nulls for years a company did not report.
type timeseriesRow struct {
	AsOfDate      string       `json:"asOfDate"`
	PeriodType    string       `json:"periodType"`
	CurrencyCode  string       `json:"currencyCode"`
	ReportedValue *yahooNumber `json:"reportedValue"`
}

// Statement gets one financial statement table for a symbol, covering
// the last five reported annual periods.
func (c *YahooFundamentalsClient) Statement(ctx context.Context, symbol string, kind StatementKind) (*StatementTable, error) {
	now := time.Now()
	start := now.AddDate(-5, 0, 0)

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":  symbol,
			"type":    timeseriesTypeParam(kind),
			"period1": strconv.FormatInt(start.Unix(), 10),
			"period2": strconv.FormatInt(now.Unix(), 10),
			"merge":   "false",
		}).
		Get("/ws/fundamentals-timeseries/v1/finance/timeseries/" + url.PathEscape(symbol))
	if err != nil {
		return nil, upstreamErr("statement", symbol, "failed to fetch %s data for %s: %w", kind, symbol, err)
	}

	var payload timeseriesResponse
	decodeErr := json.Unmarshal(resp.Body(), &payload)

	if resp.StatusCode() != 200 {
		if decodeErr == nil && payload.Timeseries.Error != nil {
			return nil, upstreamErr("statement", symbol, "API error %d: %s", resp.StatusCode(), payload.Timeseries.Error.Description)
		}
		return nil, upstreamErr("statement", symbol, "API error %d: %s", resp.StatusCode(), resp.String())
	}
	if decodeErr != nil {
		return nil, upstreamErr("statement", symbol, "failed to parse %s response for %s: %w", kind, symbol, decodeErr)
	}
	if apiErr := payload.Timeseries.Error; apiErr != nil {
		return nil, upstreamErr("statement", symbol, "API error: %s", apiErr.Description)
	}

	return buildStatementTable(symbol, kind, payload.Timeseries.Result), nil
}

// buildStatementTable folds the per-metric result objects into one table.
// Rows that cannot be decoded are skipped; a symbol with no usable rows
// yields an empty table, which callers report as missing data.
func buildStatementTable(symbol string, kind StatementKind, results []json.RawMessage) *StatementTable {
	table := &StatementTable{
		Symbol: symbol,
		Kind:   kind,
		Rows:   make(map[string]map[string]decimal.Decimal),
	}
	seen := make(map[string]bool)

	for _, raw := range results {
		var envelope struct {
			Meta struct {
				Type []string `json:"type"`
			} `json:"meta"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Meta.Type) == 0 {
			continue
		}
		typeKey := envelope.Meta.Type[0]
		label, ok := metricLabel(kind, typeKey)
		if !ok {
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		rowsRaw, ok := fields[typeKey]
		if !ok {
			continue
		}
		var rows []*timeseriesRow
		if err := json.Unmarshal(rowsRaw, &rows); err != nil {
			continue
		}

		for _, row := range rows {
			if row == nil || row.ReportedValue == nil || row.AsOfDate == "" {
				continue
			}
			if table.Rows[label] == nil {
				table.Rows[label] = make(map[string]decimal.Decimal)
			}
			table.Rows[label][row.AsOfDate] = decimal.NewFromFloat(row.ReportedValue.Raw)
			if !seen[row.AsOfDate] {
				seen[row.AsOfDate] = true
				table.Periods = append(table.Periods, row.AsOfDate)
			}
		}
	}

	sortPeriodsDesc(table.Periods)
	return table
}
