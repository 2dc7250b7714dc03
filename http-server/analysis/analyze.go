package analysis

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"calibration-report/internal/service/report"
	"calibration-report/internal/storage"
)

// Analyze validates one equipment and returns its readings tables, narrative and verdict.
func Analyze(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.analysis.Analyze"

		var req struct {
			Number    int               `json:"number"`
			Equipment storage.Equipment `json:"equipment"`
		}

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("bad request body")
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		if req.Number < 1 {
			req.Number = 1
		}

		render.JSON(w, r, report.Analyze(req.Number, req.Equipment))
	}
}
