package dataflows

import (
	"sort"
	"strings"
)

// statementMetric pairs a fundamentals-timeseries type key (without its
// "annual" prefix) with the row label used in the assembled table.
type statementMetric struct {
	key   string
	label string
}

var incomeMetrics = []statementMetric{
	{"TotalRevenue", "Total Revenue"},
	{"CostOfRevenue", "Cost Of Revenue"},
	{"GrossProfit", "Gross Profit"},
	{"OperatingExpense", "Operating Expense"},
	{"SellingGeneralAndAdministration", "Selling General And Administration"},
	{"ResearchAndDevelopment", "Research And Development"},
	{"OperatingIncome", "Operating Income"},
	{"InterestExpense", "Interest Expense"},
	{"PretaxIncome", "Pretax Income"},
	{"TaxProvision", "Tax Provision"},
	{"NetIncome", "Net Income"},
	{"BasicEPS", "Basic EPS"},
	{"DilutedEPS", "Diluted EPS"},
	{"EBIT", "EBIT"},
	{"EBITDA", "EBITDA"},
}

var balanceMetrics = []statementMetric{
	{"TotalAssets", "Total Assets"},
	{"CurrentAssets", "Current Assets"},
	{"CashAndCashEquivalents", "Cash And Cash Equivalents"},
	{"AccountsReceivable", "Accounts Receivable"},
	{"Inventory", "Inventory"},
	{"NetPPE", "Net PPE"},
	{"TotalLiabilitiesNetMinorityInterest", "Total Liabilities Net Minority Interest"},
	{"CurrentLiabilities", "Current Liabilities"},
	{"AccountsPayable", "Accounts Payable"},
	{"CurrentDebt", "Current Debt"},
	{"LongTermDebt", "Long Term Debt"},
	{"TotalDebt", "Total Debt"},
	{"StockholdersEquity", "Stockholders Equity"},
	{"RetainedEarnings", "Retained Earnings"},
	{"WorkingCapital", "Working Capital"},
}

var cashMetrics = []statementMetric{
	{"OperatingCashFlow", "Operating Cash Flow"},
	{"InvestingCashFlow", "Investing Cash Flow"},
	{"FinancingCashFlow", "Financing Cash Flow"},
	{"FreeCashFlow", "Free Cash Flow"},
	{"CapitalExpenditure", "Capital Expenditure"},
	{"DepreciationAndAmortization", "Depreciation And Amortization"},
	{"RepurchaseOfCapitalStock", "Repurchase Of Capital Stock"},
	{"CashDividendsPaid", "Cash Dividends Paid"},
	{"IssuanceOfDebt", "Issuance Of Debt"},
	{"RepaymentOfDebt", "Repayment Of Debt"},
	{"ChangesInCash", "Changes In Cash"},
	{"EndCashPosition", "End Cash Position"},
}

func statementMetrics(kind StatementKind) []statementMetric {
	switch kind {
	case StatementIncome:
		return incomeMetrics
	case StatementBalance:
		return balanceMetrics
	case StatementCash:
		return cashMetrics
	default:
		return nil
	}
}

// timeseriesTypeParam builds the comma separated type list for the
// fundamentals-timeseries request, e.g. "annualTotalRevenue,annualNetIncome".
func timeseriesTypeParam(kind StatementKind) string {
	metrics := statementMetrics(kind)
	types := make([]string, 0, len(metrics))
	for _, m := range metrics {
		types = append(types, "annual"+m.key)
	}
	return strings.Join(types, ",")
}

// metricLabel maps a result's type key back to its row label. Unknown
// keys are reported as not found and the result is ignored.
func metricLabel(kind StatementKind, typeKey string) (string, bool) {
	key := strings.TrimPrefix(typeKey, "annual")
	for _, m := range statementMetrics(kind) {
		if m.key == key {
			return m.label, true
		}
	}
	return "", false
}

// sortPeriodsDesc orders report dates most recent first. Dates are
// ISO formatted so plain string comparison gives chronological order.
func sortPeriodsDesc(periods []string) {
	sort.Slice(periods, func(i, j int) bool {
		return periods[i] > periods[j]
	})
}
