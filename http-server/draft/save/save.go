package save

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"calibration-report/internal/storage"
)

type SessionReplacer interface {
	Replace(d storage.ReportDraft)
}

type DraftWriter interface {
	SaveNow(ctx context.Context) (storage.Draft, error)
}

type Resp struct {
	SavedAt time.Time `json:"saved_at"`
	Version string    `json:"version"`
}

// SaveDraft overwrites the draft slot. A non-empty body replaces the working
// session first, otherwise the session is saved as it is.
func SaveDraft(log *slog.Logger, session SessionReplacer, writer DraftWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.draft.SaveDraft"

		log := log.With(slog.String("op", op))

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Warn("cannot read body", slog.String("error", err.Error()))
			http.Error(w, "No se pudo leer la solicitud", http.StatusBadRequest)
			return
		}

		if len(bytes.TrimSpace(body)) > 0 {
			var req storage.ReportDraft
			if err := render.DecodeJSON(bytes.NewReader(body), &req); err != nil {
				log.Warn("bad request body", slog.String("error", err.Error()))
				http.Error(w, "JSON inválido", http.StatusBadRequest)
				return
			}
			session.Replace(req)
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		draft, err := writer.SaveNow(ctx)
		if err != nil {
			log.Error("failed to save draft", slog.String("error", err.Error()))
			http.Error(w, "No se pudo guardar el borrador", http.StatusInternalServerError)
			return
		}

		log.Info("draft saved", slog.Int("equipments", len(draft.Report.Equipments)))
		render.JSON(w, r, Resp{SavedAt: draft.SavedAt, Version: draft.Version})
	}
}
