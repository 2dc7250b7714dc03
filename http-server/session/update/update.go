package update

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"calibration-report/internal/service/workspace"
	"calibration-report/internal/storage"
)

type DraftReplacer interface {
	Replace(d storage.ReportDraft)
	View() workspace.View
}

// ReplaceSession overwrites the whole working draft with the request body.
func ReplaceSession(log *slog.Logger, session DraftReplacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.ReplaceSession"

		var req storage.ReportDraft
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("bad request body")
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		session.Replace(req)
		render.JSON(w, r, session.View())
	}
}

type EquipmentUpdater interface {
	UpdateEquipment(id string, eq storage.Equipment) error
}

func UpdateEquipment(log *slog.Logger, session EquipmentUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.UpdateEquipment"

		id := chi.URLParam(r, "id")

		var eq storage.Equipment
		if err := render.DecodeJSON(r.Body, &eq); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("bad request body")
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		if err := session.UpdateEquipment(id, eq); err != nil {
			if errors.Is(err, workspace.ErrEquipmentNotFound) {
				http.Error(w, "Equipo no encontrado", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("update failed")
			http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		eq.ID = id
		render.JSON(w, r, eq)
	}
}

type BudgetItemUpdater interface {
	UpdateBudgetItem(id string, item storage.BudgetItem) error
}

func UpdateBudgetItem(log *slog.Logger, session BudgetItemUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.UpdateBudgetItem"

		id := chi.URLParam(r, "id")

		var item storage.BudgetItem
		if err := render.DecodeJSON(r.Body, &item); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("bad request body")
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		if err := session.UpdateBudgetItem(id, item); err != nil {
			if errors.Is(err, workspace.ErrBudgetItemNotFound) {
				http.Error(w, "Ítem de presupuesto no encontrado", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("update failed")
			http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
			return
		}

		item.ID = id
		render.JSON(w, r, item)
	}
}
