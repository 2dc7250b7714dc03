package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"calibration-report/internal/storage"
)

type DraftLoader interface {
	LoadDraft(ctx context.Context) (*storage.Draft, error)
}

func GetDraft(log *slog.Logger, loader DraftLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.draft.GetDraft"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		draft, err := loader.LoadDraft(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrDraftNotFound) {
				http.Error(w, "No hay borrador guardado", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to load draft")
			http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, draft)
	}
}
