package budget

import (
	"fmt"
	"math"
	"strings"

	"calibration-report/internal/lib/numeric"
	"calibration-report/internal/storage"
)

// Policy selects how a budget is totalled. A deployment uses exactly one.
type Policy string

const (
	// PolicyTaxInclusive treats prices as tax-inclusive and shows the implied
	// pre-tax subtotal and tax. The currency is always local.
	PolicyTaxInclusive Policy = "tax_inclusive"
	// PolicyFlatTotal shows a single total in the currency picked on the form.
	PolicyFlatTotal Policy = "flat_total"
)

// DefaultTaxRate is the IGV rate included in local prices.
const DefaultTaxRate = 0.18

const epsilon = 2.220446049250313e-16

var symbols = map[string]string{
	storage.CurrencyPEN: "S/",
	storage.CurrencyUSD: "$",
}

// LineSubtotal multiplies quantity by price; absent values count as zero.
func LineSubtotal(quantity, price numeric.Value) float64 {
	return quantity.Or(0) * price.Or(0)
}

// RoundCurrency rounds to cents, half away from zero, nudging by machine epsilon
// so values like 1.005 stored as 1.00499... still round up.
func RoundCurrency(x float64) float64 {
	return math.Round((x+epsilon)*100) / 100
}

// Symbol maps a currency code to its display symbol. Unknown codes render as dollars.
func Symbol(currency string) string {
	if s, ok := symbols[strings.ToUpper(currency)]; ok {
		return s
	}
	return symbols[storage.CurrencyUSD]
}

// Format renders "S/ 12.50".
func Format(amount float64, currency string) string {
	return fmt.Sprintf("%s %.2f", Symbol(currency), RoundCurrency(amount))
}

// Collect keeps the rows that belong on the invoice: a description and a positive quantity.
func Collect(items []storage.BudgetItem) []storage.BudgetItem {
	out := make([]storage.BudgetItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Description) == "" {
			continue
		}
		if it.Quantity.Or(0) <= 0 {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Aggregator totals budgets under one policy.
type Aggregator struct {
	policy  Policy
	taxRate float64
}

func NewAggregator(policy string, taxRate float64) (*Aggregator, error) {
	const op = "budget.NewAggregator"

	p := Policy(policy)
	switch p {
	case PolicyTaxInclusive, PolicyFlatTotal:
	case "":
		p = PolicyTaxInclusive
	default:
		return nil, fmt.Errorf("%s: unknown budget policy %q", op, policy)
	}

	if taxRate <= 0 {
		taxRate = DefaultTaxRate
	}

	return &Aggregator{policy: p, taxRate: taxRate}, nil
}

func (a *Aggregator) Policy() Policy {
	return a.policy
}

func (a *Aggregator) TaxRate() float64 {
	return a.taxRate
}

// AllowsCurrencySelection is false for the tax-inclusive policy: a tax breakdown is
// never shown next to a foreign currency.
func (a *Aggregator) AllowsCurrencySelection() bool {
	return a.policy == PolicyFlatTotal
}

// Currency resolves the currency a report is shown in.
func (a *Aggregator) Currency(requested string) string {
	if a.policy == PolicyTaxInclusive {
		return storage.CurrencyPEN
	}
	if strings.ToUpper(requested) == storage.CurrencyPEN {
		return storage.CurrencyPEN
	}
	return storage.CurrencyUSD
}

// Aggregate sums every item it is given. Use Collect first to drop incomplete rows.
func (a *Aggregator) Aggregate(items []storage.BudgetItem, currency string) storage.Totals {
	var sum float64
	for _, it := range items {
		sum += LineSubtotal(it.Quantity, it.Price)
	}

	totals := storage.Totals{
		Policy:   string(a.policy),
		Currency: a.Currency(currency),
		Total:    RoundCurrency(sum),
	}

	if a.policy == PolicyTaxInclusive {
		net := sum / (1 + a.taxRate)
		totals.Breakdown = true
		totals.Subtotal = RoundCurrency(net)
		totals.Tax = RoundCurrency(sum - net)
	}

	return totals
}

// Summarize totals the invoice rows of a budget.
func (a *Aggregator) Summarize(items []storage.BudgetItem, currency string) storage.Totals {
	return a.Aggregate(Collect(items), currency)
}

// TaxLabel renders "IGV (18%)".
func (a *Aggregator) TaxLabel() string {
	return fmt.Sprintf("IGV (%d%%)", int(math.Round(a.taxRate*100)))
}
