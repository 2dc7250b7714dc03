package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type HistoryClearer interface {
	ClearHistory(ctx context.Context) error
}

func ClearHistory(log *slog.Logger, clearer HistoryClearer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.ClearHistory"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := clearer.ClearHistory(ctx); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to clear history")
			http.Error(w, "No se pudo eliminar el historial", http.StatusInternalServerError)
			return
		}

		log.With(slog.String("op", op)).Info("history cleared")
		w.WriteHeader(http.StatusNoContent)
	}
}
