package service

import (
	"github.com/shopspring/decimal"

	"github.com/akashent3/redflags-sub002/internal/domain/model"
)

// structuredRule is a pure predicate over a window of financial periods.
type structuredRule func(w *window) outcome

var (
	tenPct       = decimal.NewFromFloat(0.10)
	twentyPct    = decimal.NewFromFloat(0.20)
	thirtyPct    = decimal.NewFromFloat(0.30)
	half         = decimal.NewFromFloat(0.50)
	onePointFive = decimal.NewFromFloat(1.5)
	two          = decimal.NewFromInt(2)
)

// defaultRules maps structured flag ids to their predicates. Capex is a
// positive outflow; percentages are 0-100.
func defaultRules() map[int]structuredRule {
	return map[int]structuredRule{
		5:  auditFeesOutpaceRevenue,
		6:  nonAuditFeesExceedAudit,
		9:  profitWithoutCash,
		10: negativeCashWhileProfitable,
		11: persistentNegativeFreeCash,
		12: cashAlongsideDebt,
		13: debtFundedCapex,
		15: relatedPartyShare,
		16: relatedPartyOutpaceRevenue,
		21: highPledge,
		22: risingPledge,
		23: decliningHolding,
		24: lowHolding,
		32: largeContingentLiabilities,
		33: receivablesOutpaceRevenue,
		34: inventoryOutpacesCOGS,
		35: highLeverage,
		36: weakInterestCoverage,
		37: intangibleHeavy,
		38: currentRatioBelowOne,
		39: stretchedReceivableDays,
		40: otherIncomeDominates,
		41: revenueJump,
		42: revenueUpCashDown,
	}
}

// outpaces compares the growth of an item against a benchmark item over the
// last two years. It triggers when the item grew by more than minGrowth and
// faster than the benchmark.
func outpaces(w *window, item, benchmark model.LineItem, minGrowth decimal.Decimal) outcome {
	cur, prev := w.get(0, item), w.get(1, item)
	bCur, bPrev := w.get(0, benchmark), w.get(1, benchmark)
	if !w.complete() {
		return w.incomplete()
	}
	g, ok := growth(cur, prev)
	if !ok {
		return w.skip("prior %s is zero", item)
	}
	bg, ok := growth(bCur, bPrev)
	if !ok {
		return w.skip("prior %s is zero", benchmark)
	}
	return w.result(g.GreaterThan(minGrowth) && g.GreaterThan(bg),
		"%s grew %s against %s growth of %s", item, pct(g), benchmark, pct(bg))
}

// gapOutpaces triggers when an item's growth exceeds the benchmark's growth
// by more than gap.
func gapOutpaces(w *window, item, benchmark model.LineItem, gap decimal.Decimal) outcome {
	cur, prev := w.get(0, item), w.get(1, item)
	bCur, bPrev := w.get(0, benchmark), w.get(1, benchmark)
	if !w.complete() {
		return w.incomplete()
	}
	g, ok := growth(cur, prev)
	if !ok {
		return w.skip("prior %s is zero", item)
	}
	bg, ok := growth(bCur, bPrev)
	if !ok {
		return w.skip("prior %s is zero", benchmark)
	}
	return w.result(g.Sub(bg).GreaterThan(gap),
		"%s grew %s against %s growth of %s", item, pct(g), benchmark, pct(bg))
}

// shareOf triggers when item/base exceeds limit.
func shareOf(w *window, item, base model.LineItem, limit decimal.Decimal) outcome {
	v, b := w.get(0, item), w.get(0, base)
	if !w.complete() {
		return w.incomplete()
	}
	r, ok := ratio(v, b)
	if !ok {
		return w.skip("%s is zero", base)
	}
	return w.result(r.GreaterThan(limit), "%s is %s of %s", item, pct(r), base)
}

func auditFeesOutpaceRevenue(w *window) outcome {
	return outpaces(w, model.AuditFees, model.Revenue, twentyPct)
}

func nonAuditFeesExceedAudit(w *window) outcome {
	nonAudit, audit := w.get(0, model.NonAuditFees), w.get(0, model.AuditFees)
	if !w.complete() {
		return w.incomplete()
	}
	return w.result(nonAudit.GreaterThan(audit),
		"non-audit fees %s against audit fees %s", nonAudit.String(), audit.String())
}

func profitWithoutCash(w *window) outcome {
	profit, ocf := w.get(0, model.NetProfit), w.get(0, model.OperatingCashFlow)
	if !w.complete() {
		return w.incomplete()
	}
	if !profit.IsPositive() {
		return w.result(false, "net profit %s is not positive", profit.String())
	}
	r := ocf.Div(profit)
	return w.result(r.LessThan(half), "operating cash flow is %s of net profit", pct(r))
}

func negativeCashWhileProfitable(w *window) outcome {
	count := 0
	for offset := 0; offset < 3; offset++ {
		profit, ocf := w.get(offset, model.NetProfit), w.get(offset, model.OperatingCashFlow)
		if profit.IsPositive() && ocf.IsNegative() {
			count++
		}
	}
	if !w.complete() {
		return w.incomplete()
	}
	return w.result(count >= 2, "operating cash flow negative while profitable in %d of 3 years", count)
}

func persistentNegativeFreeCash(w *window) outcome {
	negative := 0
	for offset := 0; offset < 3; offset++ {
		fcf := w.get(offset, model.OperatingCashFlow).Sub(w.get(offset, model.Capex))
		if fcf.IsNegative() {
			negative++
		}
	}
	if !w.complete() {
		return w.incomplete()
	}
	return w.result(negative == 3, "free cash flow negative in %d of 3 years", negative)
}

func cashAlongsideDebt(w *window) outcome {
	cash, debt, assets := w.get(0, model.Cash), w.get(0, model.TotalDebt), w.get(0, model.TotalAssets)
	if !w.complete() {
		return w.incomplete()
	}
	cashShare, ok := ratio(cash, assets)
	if !ok {
		return w.skip("total assets is zero")
	}
	debtShare := debt.Div(assets)
	return w.result(cashShare.GreaterThan(twentyPct) && debtShare.GreaterThan(thirtyPct),
		"cash is %s and debt %s of total assets", pct(cashShare), pct(debtShare))
}

func debtFundedCapex(w *window) outcome {
	capex, ocf := w.get(0, model.Capex), w.get(0, model.OperatingCashFlow)
	debt, prevDebt := w.get(0, model.TotalDebt), w.get(1, model.TotalDebt)
	if !w.complete() {
		return w.incomplete()
	}
	g, ok := growth(debt, prevDebt)
	if !ok {
		return w.skip("prior total debt is zero")
	}
	return w.result(capex.GreaterThan(ocf) && g.GreaterThan(twentyPct),
		"capex %s against operating cash flow %s with debt growth of %s", capex.String(), ocf.String(), pct(g))
}

func relatedPartyShare(w *window) outcome {
	return shareOf(w, model.RelatedPartyTransactions, model.Revenue, tenPct)
}

func relatedPartyOutpaceRevenue(w *window) outcome {
	return outpaces(w, model.RelatedPartyTransactions, model.Revenue, twentyPct)
}

func highPledge(w *window) outcome {
	pledge := w.get(0, model.PromoterPledgePct)
	if !w.complete() {
		return w.incomplete()
	}
	return w.result(pledge.GreaterThan(decimal.NewFromInt(50)), "%s%% of promoter holding is pledged", pledge.String())
}

func risingPledge(w *window) outcome {
	cur, prev := w.get(0, model.PromoterPledgePct), w.get(1, model.PromoterPledgePct)
	if !w.complete() {
		return w.incomplete()
	}
	delta := cur.Sub(prev)
	return w.result(delta.GreaterThanOrEqual(decimal.NewFromInt(10)),
		"pledge moved from %s%% to %s%%", prev.String(), cur.String())
}

func decliningHolding(w *window) outcome {
	cur, prev := w.get(0, model.PromoterHoldingPct), w.get(1, model.PromoterHoldingPct)
	if !w.complete() {
		return w.incomplete()
	}
	drop := prev.Sub(cur)
	return w.result(drop.GreaterThanOrEqual(decimal.NewFromInt(5)),
		"promoter holding moved from %s%% to %s%%", prev.String(), cur.String())
}

func lowHolding(w *window) outcome {
	holding := w.get(0, model.PromoterHoldingPct)
	if !w.complete() {
		return w.incomplete()
	}
	return w.result(holding.LessThan(decimal.NewFromInt(25)), "promoters hold %s%%", holding.String())
}

func largeContingentLiabilities(w *window) outcome {
	contingent, equity := w.get(0, model.ContingentLiabilities), w.get(0, model.Equity)
	if !w.complete() {
		return w.incomplete()
	}
	if !equity.IsPositive() {
		return w.skip("equity %s is not positive", equity.String())
	}
	r := contingent.Div(equity)
	return w.result(r.GreaterThan(half), "contingent liabilities are %s of equity", pct(r))
}

func receivablesOutpaceRevenue(w *window) outcome {
	return gapOutpaces(w, model.Receivables, model.Revenue, twentyPct)
}

func inventoryOutpacesCOGS(w *window) outcome {
	return gapOutpaces(w, model.Inventory, model.CostOfGoodsSold, twentyPct)
}

func highLeverage(w *window) outcome {
	debt, equity := w.get(0, model.TotalDebt), w.get(0, model.Equity)
	if !w.complete() {
		return w.incomplete()
	}
	if equity.IsNegative() {
		return w.result(true, "equity is negative (%s)", equity.String())
	}
	r, ok := ratio(debt, equity)
	if !ok {
		return w.skip("equity is zero")
	}
	return w.result(r.GreaterThan(two), "debt to equity is %s", r.StringFixed(2))
}

func weakInterestCoverage(w *window) outcome {
	profit, interest := w.get(0, model.NetProfit), w.get(0, model.InterestExpense)
	if !w.complete() {
		return w.incomplete()
	}
	coverage, ok := ratio(profit.Add(interest), interest)
	if !ok {
		return w.skip("interest expense is zero")
	}
	return w.result(coverage.LessThan(onePointFive), "interest coverage is %sx", coverage.StringFixed(2))
}

func intangibleHeavy(w *window) outcome {
	return shareOf(w, model.IntangibleAssets, model.TotalAssets, thirtyPct)
}

func currentRatioBelowOne(w *window) outcome {
	assets, liabilities := w.get(0, model.CurrentAssets), w.get(0, model.CurrentLiabilities)
	if !w.complete() {
		return w.incomplete()
	}
	r, ok := ratio(assets, liabilities)
	if !ok {
		return w.skip("current liabilities are zero")
	}
	return w.result(r.LessThan(decimal.NewFromInt(1)), "current ratio is %s", r.StringFixed(2))
}

func stretchedReceivableDays(w *window) outcome {
	receivables, revenue := w.get(0, model.Receivables), w.get(0, model.Revenue)
	if !w.complete() {
		return w.incomplete()
	}
	r, ok := ratio(receivables, revenue)
	if !ok {
		return w.skip("revenue is zero")
	}
	d := r.Mul(days)
	return w.result(d.GreaterThan(decimal.NewFromInt(120)), "receivables equal %s days of revenue", d.StringFixed(0))
}

func otherIncomeDominates(w *window) outcome {
	other, profit := w.get(0, model.OtherIncome), w.get(0, model.NetProfit)
	if !w.complete() {
		return w.incomplete()
	}
	if !profit.IsPositive() {
		return w.result(false, "net profit %s is not positive", profit.String())
	}
	r := other.Div(profit)
	return w.result(r.GreaterThan(half), "other income is %s of net profit", pct(r))
}

func revenueJump(w *window) outcome {
	cur, prev := w.get(0, model.Revenue), w.get(1, model.Revenue)
	if !w.complete() {
		return w.incomplete()
	}
	g, ok := growth(cur, prev)
	if !ok {
		return w.skip("prior revenue is zero")
	}
	return w.result(g.GreaterThan(half), "revenue grew %s", pct(g))
}

func revenueUpCashDown(w *window) outcome {
	rev, prevRev := w.get(0, model.Revenue), w.get(1, model.Revenue)
	ocf, prevOCF := w.get(0, model.OperatingCashFlow), w.get(1, model.OperatingCashFlow)
	if !w.complete() {
		return w.incomplete()
	}
	g, ok := growth(rev, prevRev)
	if !ok {
		return w.skip("prior revenue is zero")
	}
	return w.result(g.GreaterThan(tenPct) && ocf.LessThan(prevOCF),
		"revenue grew %s while operating cash flow moved from %s to %s", pct(g), prevOCF.String(), ocf.String())
}
