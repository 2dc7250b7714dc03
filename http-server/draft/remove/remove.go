package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type DraftClearer interface {
	ClearDraft(ctx context.Context) error
}

func ClearDraft(log *slog.Logger, clearer DraftClearer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.draft.ClearDraft"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := clearer.ClearDraft(ctx); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to clear draft")
			http.Error(w, "No se pudo eliminar el borrador", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
