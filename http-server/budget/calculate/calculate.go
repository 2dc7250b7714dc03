package calculate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"calibration-report/internal/service/budget"
	"calibration-report/internal/storage"
)

type TotalsCalculator interface {
	Summarize(items []storage.BudgetItem, currency string) storage.Totals
	AllowsCurrencySelection() bool
	TaxLabel() string
}

type Resp struct {
	Lines             []budget.Line  `json:"lines"`
	Totals            storage.Totals `json:"totals"`
	Formatted         Formatted      `json:"formatted"`
	CurrencySelection bool           `json:"currency_selection"`
	TaxLabel          string         `json:"tax_label,omitempty"`
}

type Formatted struct {
	Subtotal string `json:"subtotal,omitempty"`
	Tax      string `json:"tax,omitempty"`
	Total    string `json:"total"`
}

// Calculate totals the submitted budget rows under the configured policy. Rows
// without a description or with a non-positive quantity are left out.
func Calculate(log *slog.Logger, calc TotalsCalculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.budget.Calculate"

		var req struct {
			Items    []storage.BudgetItem `json:"items"`
			Currency string               `json:"currency"`
		}

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("bad request body")
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		totals := calc.Summarize(req.Items, req.Currency)

		resp := Resp{
			Lines:             budget.Number(budget.Collect(req.Items)),
			Totals:            totals,
			CurrencySelection: calc.AllowsCurrencySelection(),
			Formatted:         Formatted{Total: budget.Format(totals.Total, totals.Currency)},
		}
		if totals.Breakdown {
			resp.TaxLabel = calc.TaxLabel()
			resp.Formatted.Subtotal = budget.Format(totals.Subtotal, totals.Currency)
			resp.Formatted.Tax = budget.Format(totals.Tax, totals.Currency)
		}

		render.JSON(w, r, resp)
	}
}
