package fintools

// StockInfo is the get_stock_info payload. Fields the provider omits
// keep their zero values, except currency which defaults to USD.
type StockInfo struct {
	ShortName    string  `json:"shortName"`
	LongName     string  `json:"longName"`
	Symbol       string  `json:"symbol"`
	Sector       string  `json:"sector"`
	Industry     string  `json:"industry"`
	MarketCap    int64   `json:"marketCap"`
	CurrentPrice float64 `json:"currentPrice"`
	Currency     string  `json:"currency"`
}

// StockPrice is the get_stock_price payload.
type StockPrice struct {
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	AsOf     string  `json:"asOf"`
}

// FinancialData is the get_financial_data payload: one statement as
// metric rows keyed by reporting period.
type FinancialData struct {
	Symbol    string                        `json:"symbol"`
	Statement string                        `json:"statement"`
	Data      map[string]map[string]float64 `json:"data"`
}

// KeyMetrics is the get_key_metrics payload for the latest reported
// period.
type KeyMetrics struct {
	Symbol  string     `json:"symbol"`
	Period  string     `json:"period"`
	Metrics MetricsSet `json:"metrics"`
}

// MetricsSet keys match the upstream statement row labels.
type MetricsSet struct {
	EBITDA       float64 `json:"EBITDA"`
	TotalRevenue float64 `json:"Total Revenue"`
	NetIncome    float64 `json:"Net Income"`
	MarketCap    int64   `json:"Market Cap"`
	EBITDAMargin float64 `json:"EBITDA Margin"`
}
