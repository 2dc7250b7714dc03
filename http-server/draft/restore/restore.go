package restore

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"calibration-report/internal/service/workspace"
	"calibration-report/internal/storage"
)

type DraftLoader interface {
	LoadDraft(ctx context.Context) (*storage.Draft, error)
}

type SessionRestorer interface {
	Restore(d storage.ReportDraft)
	View() workspace.View
}

// RestoreDraft loads the draft slot into the working session.
func RestoreDraft(log *slog.Logger, loader DraftLoader, session SessionRestorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.draft.RestoreDraft"

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

		session.Restore(draft.Report)
		log.With(slog.String("op", op)).Info("draft restored", slog.Time("saved_at", draft.SavedAt))

		render.JSON(w, r, session.View())
	}
}
