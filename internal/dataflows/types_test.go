package dataflows

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementKindDisplayName(t *testing.T) {
	assert.Equal(t, "Income Statement", StatementIncome.DisplayName())
	assert.Equal(t, "Balance Sheet", StatementBalance.DisplayName())
	assert.Equal(t, "Cash Flow Statement", StatementCash.DisplayName())
	assert.Equal(t, "dividends", StatementKind("dividends").DisplayName())
}

func TestStatementTableLatest(t *testing.T) {
	table := &StatementTable{
		Symbol:  "AAPL",
		Kind:    StatementIncome,
		Periods: []string{"2024-09-28", "2023-09-30"},
		Rows: map[string]map[string]decimal.Decimal{
			"Total Revenue": {
				"2024-09-28": decimal.NewFromInt(391035000000),
				"2023-09-30": decimal.NewFromInt(383285000000),
			},
			"Basic EPS": {
				// Reported for the older period only.
				"2023-09-30": decimal.NewFromFloat(6.16),
			},
		},
	}

	assert.False(t, table.Empty())
	assert.Equal(t, "2024-09-28", table.LatestPeriod())

	revenue, ok := table.Latest("Total Revenue")
	require.True(t, ok)
	assert.True(t, revenue.Equal(decimal.NewFromInt(391035000000)))

	// A metric with no value in the latest period counts as missing.
	_, ok = table.Latest("Basic EPS")
	assert.False(t, ok)

	_, ok = table.Latest("No Such Metric")
	assert.False(t, ok)
}

func TestStatementTableEmpty(t *testing.T) {
	var nilTable *StatementTable
	assert.True(t, nilTable.Empty())

	assert.True(t, (&StatementTable{}).Empty())

	noRows := &StatementTable{Periods: []string{"2024-09-28"}}
	assert.True(t, noRows.Empty())

	_, ok := noRows.Latest("Total Revenue")
	assert.False(t, ok)
}

func TestUpstreamErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := upstreamErr("quote", "AAPL", "failed to get quote for %s: %w", "AAPL", cause)

	assert.Equal(t, "failed to get quote for AAPL: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	var upErr *UpstreamError
	require.ErrorAs(t, error(err), &upErr)
	assert.Equal(t, "quote", upErr.Op)
	assert.Equal(t, "AAPL", upErr.Symbol)
}
