package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"calibration-report/internal/client/lookup"
)

type DocumentLookup interface {
	Lookup(ctx context.Context, docType, number string) (lookup.Record, error)
}

type Resp struct {
	lookup.Record
	Active bool `json:"active"`
}

// GetDocument resolves a RUC or DNI into client data. Nothing is written to the
// working session; the form decides what to copy.
func GetDocument(log *slog.Logger, provider DocumentLookup, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lookup.GetDocument"

		docType := chi.URLParam(r, "type")
		number := chi.URLParam(r, "number")

		log := log.With(slog.String("op", op), slog.String("type", docType))

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rec, err := provider.Lookup(ctx, docType, number)
		if err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				log.Error("lookup failed", slog.String("error", err.Error()))
			} else {
				log.Info("lookup rejected", slog.String("error", err.Error()))
			}
			http.Error(w, lookup.Message(err, docType), status)
			return
		}

		render.JSON(w, r, Resp{Record: rec, Active: rec.Active()})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lookup.ErrInvalidDocument), errors.Is(err, lookup.ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, lookup.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lookup.ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, lookup.ErrConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
