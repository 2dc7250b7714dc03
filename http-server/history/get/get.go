package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"calibration-report/internal/storage"
)

type HistoryLister interface {
	ListHistory(ctx context.Context) ([]storage.HistoryEntry, error)
}

// GetHistory lists stored reports, newest first.
func GetHistory(log *slog.Logger, lister HistoryLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.history.GetHistory"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := lister.ListHistory(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list history")
			http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		if entries == nil {
			entries = []storage.HistoryEntry{}
		}
		render.JSON(w, r, entries)
	}
}
