package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"calibration-report/internal/service/workspace"
)

type SessionViewer interface {
	View() workspace.View
}

// GetSession returns the working draft with item numbers derived from position.
func GetSession(log *slog.Logger, session SessionViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.GetSession"

		v := session.View()
		log.With(slog.String("op", op)).Debug("session read",
			slog.Int("equipments", len(v.Items)), slog.Bool("dirty", v.Dirty))

		render.JSON(w, r, v)
	}
}
