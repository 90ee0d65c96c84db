package fintools

import (
	"context"
	"fmt"
	"strconv"
)

// InfoSummary renders the finance://info/{ticker} resource body. The
// resource never fails: provider trouble renders as an error line.
func (s *Service) InfoSummary(ctx context.Context, ticker string) string {
	profile, err := s.data.CompanyProfile(ctx, ticker)
	if err != nil {
		return fmt.Sprintf("Error retrieving finance info for %s: %v", ticker, err)
	}

	company := orUnknown(profile.LongName)
	sector := orUnknown(profile.Sector)
	industry := orUnknown(profile.Industry)

	price := "Unknown"
	if profile.CurrentPrice.Valid {
		price = profile.CurrentPrice.Decimal.String()
	}
	currency := profile.Currency
	if currency == "" {
		currency = "USD"
	}

	marketCap := "Unknown"
	if profile.MarketCap != 0 {
		marketCap = strconv.FormatInt(profile.MarketCap, 10)
	}

	return fmt.Sprintf(`Company: %s
Symbol: %s
Sector: %s
Industry: %s
Current Price: %s %s
Market Cap: %s`, company, ticker, sector, industry, price, currency, marketCap)
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
