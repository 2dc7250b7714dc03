package save

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"calibration-report/internal/client/lookup"
	"calibration-report/internal/storage"
)

type HistorySaver interface {
	SaveHistory(ctx context.Context, report storage.ReportDraft, totals storage.Totals) (*storage.HistoryEntry, error)
}

type DraftClearer interface {
	ClearDraft(ctx context.Context) error
}

type TotalsCalculator interface {
	Summarize(items []storage.BudgetItem, currency string) storage.Totals
}

type DraftSource interface {
	Snapshot() (storage.ReportDraft, uint64)
}

// SaveHistory stores a finished report and empties the draft slot. The report
// comes from the body or, when the body is empty, from the working session.
func SaveHistory(log *slog.Logger, history HistorySaver, drafts DraftClearer, calc TotalsCalculator, source DraftSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.history.SaveHistory"

		log := log.With(slog.String("op", op))

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "No se pudo leer la solicitud", http.StatusBadRequest)
			return
		}

		var report storage.ReportDraft
		if len(bytes.TrimSpace(body)) == 0 {
			report, _ = source.Snapshot()
		} else if err := render.DecodeJSON(bytes.NewReader(body), &report); err != nil {
			log.Warn("bad request body", slog.String("error", err.Error()))
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		if err := lookup.ValidateClient(report.Client); err != nil {
			log.Info("client rejected", slog.String("error", err.Error()))
			if errors.Is(err, lookup.ErrInvalidEmail) {
				http.Error(w, "Correo electrónico inválido", http.StatusBadRequest)
				return
			}
			http.Error(w, lookup.DocumentHint(report.Client.DocumentType), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		totals := calc.Summarize(report.BudgetItems, report.Currency)

		entry, err := history.SaveHistory(ctx, report, totals)
		if err != nil {
			log.Error("failed to save history", slog.String("error", err.Error()))
			http.Error(w, "No se pudo guardar el informe en el historial", http.StatusInternalServerError)
			return
		}

		if err := drafts.ClearDraft(ctx); err != nil {
			log.Warn("history saved but draft not cleared", slog.String("error", err.Error()))
		}

		log.Info("report stored", slog.String("id", entry.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, entry)
	}
}
