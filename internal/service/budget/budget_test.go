package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calibration-report/internal/lib/numeric"
	"calibration-report/internal/storage"
)

func item(desc string, qty, price float64) storage.BudgetItem {
	return storage.BudgetItem{Description: desc, Quantity: numeric.Of(qty), Price: numeric.Of(price)}
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, 1.01, RoundCurrency(1.005))
	assert.Equal(t, 10.0, RoundCurrency(9.999))
	assert.Equal(t, 0.0, RoundCurrency(0))
}

func TestLineSubtotal_CoercesMissing(t *testing.T) {
	assert.Equal(t, 200.0, LineSubtotal(numeric.Of(2), numeric.Of(100)))
	assert.Equal(t, 0.0, LineSubtotal(numeric.Parse("dos"), numeric.Of(100)))
	assert.Equal(t, 0.0, LineSubtotal(numeric.Of(3), numeric.Missing()))
}

func TestAggregate_TaxInclusive(t *testing.T) {
	agg, err := NewAggregator(string(PolicyTaxInclusive), 0.18)
	require.NoError(t, err)

	totals := agg.Aggregate([]storage.BudgetItem{
		item("Mantenimiento", 2, 100.00),
		item("Solución buffer", 1, 50.00),
	}, storage.CurrencyUSD)

	assert.True(t, totals.Breakdown)
	assert.Equal(t, 250.00, totals.Total)
	assert.Equal(t, 211.86, totals.Subtotal)
	assert.Equal(t, 38.14, totals.Tax)
	assert.Equal(t, storage.CurrencyPEN, totals.Currency, "tax breakdown is always in local currency")
}

func TestAggregate_FlatTotal(t *testing.T) {
	agg, err := NewAggregator(string(PolicyFlatTotal), 0)
	require.NoError(t, err)

	totals := agg.Aggregate([]storage.BudgetItem{
		item("Mantenimiento", 2, 100.00),
		item("Solución buffer", 1, 50.00),
	}, storage.CurrencyPEN)

	assert.False(t, totals.Breakdown)
	assert.Equal(t, 250.00, totals.Total)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.Tax)
	assert.Equal(t, storage.CurrencyPEN, totals.Currency)

	assert.Equal(t, storage.CurrencyUSD, agg.Currency("EUR"))
	assert.True(t, agg.AllowsCurrencySelection())
}

func TestNewAggregator(t *testing.T) {
	agg, err := NewAggregator("", 0)
	require.NoError(t, err)
	assert.Equal(t, PolicyTaxInclusive, agg.Policy())
	assert.Equal(t, DefaultTaxRate, agg.TaxRate())
	assert.Equal(t, "IGV (18%)", agg.TaxLabel())
	assert.False(t, agg.AllowsCurrencySelection())

	_, err = NewAggregator("both", 0.18)
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	items := []storage.BudgetItem{
		item("Mantenimiento", 1, 80),
		item("", 1, 30),
		item("Sin cantidad", 0, 30),
		item("Negativo", -1, 30),
		{Description: "Cantidad vacía", Price: numeric.Of(10)},
		item("Gratis", 1, 0),
	}

	got := Collect(items)
	require.Len(t, got, 2)
	assert.Equal(t, "Mantenimiento", got[0].Description)
	assert.Equal(t, "Gratis", got[1].Description)

	agg, _ := NewAggregator(string(PolicyFlatTotal), 0)
	assert.Equal(t, 80.0, agg.Summarize(items, "USD").Total)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "S/ 250.00", Format(250, storage.CurrencyPEN))
	assert.Equal(t, "$ 1.01", Format(1.005, storage.CurrencyUSD))
	assert.Equal(t, "$ 3.50", Format(3.5, ""))
	assert.Equal(t, "S/ 0.00", Format(0, "pen"))
}

func TestSheet_RenumbersAfterRemoval(t *testing.T) {
	s := NewSheet(nil)
	s.Add(item("Uno", 1, 10))
	second := s.Add(item("Dos", 1, 20))
	s.Add(item("Tres", 1, 30))

	lines := s.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []int{1, 2, 3}, numbers(lines))

	require.True(t, s.Remove(second))
	lines = s.Lines()
	assert.Equal(t, []int{1, 2}, numbers(lines))
	assert.Equal(t, "Uno", lines[0].Description)
	assert.Equal(t, "Tres", lines[1].Description)

	assert.False(t, s.Remove(second))
}

func TestSheet_Update(t *testing.T) {
	s := NewSheet([]storage.BudgetItem{item("Uno", 1, 10)})
	id := s.Items()[0].ID
	require.NotEmpty(t, id)

	assert.True(t, s.Update(id, item("Uno bis", 3, 10)))
	lines := s.Lines()
	assert.Equal(t, id, lines[0].ID)
	assert.Equal(t, 30.0, lines[0].Subtotal)
	assert.False(t, s.Update("missing", item("x", 1, 1)))
}

func numbers(lines []Line) []int {
	out := make([]int, len(lines))
	for i, l := range lines {
		out[i] = l.Number
	}
	return out
}
