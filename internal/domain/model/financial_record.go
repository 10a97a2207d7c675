package model

import (
	"github.com/shopspring/decimal"
)

// LineItem names a financial statement figure supplied by the numeric feed.
type LineItem string

const (
	Revenue                  LineItem = "revenue"
	NetProfit                LineItem = "net_profit"
	OperatingCashFlow        LineItem = "operating_cash_flow"
	Capex                    LineItem = "capex"
	Receivables              LineItem = "receivables"
	Inventory                LineItem = "inventory"
	CostOfGoodsSold          LineItem = "cost_of_goods_sold"
	Cash                     LineItem = "cash"
	CurrentAssets            LineItem = "current_assets"
	CurrentLiabilities       LineItem = "current_liabilities"
	TotalAssets              LineItem = "total_assets"
	IntangibleAssets         LineItem = "intangible_assets"
	TotalDebt                LineItem = "total_debt"
	Equity                   LineItem = "equity"
	InterestExpense          LineItem = "interest_expense"
	OtherIncome              LineItem = "other_income"
	ContingentLiabilities    LineItem = "contingent_liabilities"
	RelatedPartyTransactions LineItem = "related_party_transactions"
	AuditFees                LineItem = "audit_fees"
	NonAuditFees             LineItem = "non_audit_fees"
	PromoterHoldingPct       LineItem = "promoter_holding_pct"
	PromoterPledgePct        LineItem = "promoter_pledge_pct"
)

// IsPercentage reports whether the item is expressed in percent (0-100).
func (li LineItem) IsPercentage() bool {
	return li == PromoterHoldingPct || li == PromoterPledgePct
}

// FinancialPeriod holds the figures reported for one fiscal year. A line item
// that was not reported is absent from Items, never zero.
type FinancialPeriod struct {
	Items      map[LineItem]decimal.Decimal `json:"items"`
	FiscalYear int                          `json:"fiscal_year"`
}

// Value returns the figure for item and whether it was reported.
func (p FinancialPeriod) Value(item LineItem) (decimal.Decimal, bool) {
	v, ok := p.Items[item]
	return v, ok
}

// FinancialRecord is a company's multi-period numeric feed.
type FinancialRecord struct {
	CompanyID string            `json:"company_id"`
	Periods   []FinancialPeriod `json:"periods"`
}

// Period returns the period for the fiscal year, if present.
func (r *FinancialRecord) Period(fiscalYear int) (FinancialPeriod, bool) {
	for _, p := range r.Periods {
		if p.FiscalYear == fiscalYear {
			return p, true
		}
	}
	return FinancialPeriod{}, false
}
