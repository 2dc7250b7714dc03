package remove

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"calibration-report/internal/service/workspace"
)

type EquipmentRemover interface {
	RemoveEquipment(id string) error
	View() workspace.View
}

// RemoveEquipment deletes an equipment and answers with the renumbered list.
func RemoveEquipment(log *slog.Logger, session EquipmentRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.RemoveEquipment"

		if err := session.RemoveEquipment(chi.URLParam(r, "id")); err != nil {
			respondError(w, log, op, err)
			return
		}

		render.JSON(w, r, session.View().Items)
	}
}

type BudgetItemRemover interface {
	RemoveBudgetItem(id string) error
	View() workspace.View
}

func RemoveBudgetItem(log *slog.Logger, session BudgetItemRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.RemoveBudgetItem"

		if err := session.RemoveBudgetItem(chi.URLParam(r, "id")); err != nil {
			respondError(w, log, op, err)
			return
		}

		render.JSON(w, r, session.View().Budget)
	}
}

type ImageRemover interface {
	RemoveImage(slot, id string) error
}

func RemoveImage(log *slog.Logger, session ImageRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.RemoveImage"

		if err := session.RemoveImage(chi.URLParam(r, "slot"), chi.URLParam(r, "id")); err != nil {
			respondError(w, log, op, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func respondError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, workspace.ErrEquipmentNotFound):
		http.Error(w, "Equipo no encontrado", http.StatusNotFound)
	case errors.Is(err, workspace.ErrBudgetItemNotFound):
		http.Error(w, "Ítem de presupuesto no encontrado", http.StatusNotFound)
	case errors.Is(err, workspace.ErrImageNotFound):
		http.Error(w, "Imagen no encontrada", http.StatusNotFound)
	default:
		log.With(slog.String("op", op), slog.String("error", err.Error())).Error("remove failed")
		http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
	}
}
