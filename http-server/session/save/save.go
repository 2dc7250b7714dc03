package save

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"calibration-report/internal/service/images"
	"calibration-report/internal/service/workspace"
	"calibration-report/internal/storage"
)

type EquipmentAdder interface {
	AddEquipment(eq storage.Equipment) storage.Equipment
}

func AddEquipment(log *slog.Logger, session EquipmentAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.AddEquipment"

		var eq storage.Equipment
		if err := render.DecodeJSON(r.Body, &eq); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("bad request body")
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, session.AddEquipment(eq))
	}
}

type BudgetItemAdder interface {
	AddBudgetItem(item storage.BudgetItem) storage.BudgetItem
}

func AddBudgetItem(log *slog.Logger, session BudgetItemAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.AddBudgetItem"

		var item storage.BudgetItem
		if err := render.DecodeJSON(r.Body, &item); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("bad request body")
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, session.AddBudgetItem(item))
	}
}

type ImageAdder interface {
	AddImages(slot string, batch []images.Upload) ([]storage.Image, []images.Failure, error)
}

type UploadFailure struct {
	FileName string `json:"file_name"`
	Message  string `json:"message"`
}

type UploadResp struct {
	Added    []storage.Image `json:"added"`
	Failures []UploadFailure `json:"failures"`
}

// UploadImages accepts a multipart form with one or more "files" and an optional
// "equipment_id". Files that cannot be used are reported and skipped.
func UploadImages(log *slog.Logger, session ImageAdder, limits images.Limits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.UploadImages"

		log := log.With(slog.String("op", op))
		slot := chi.URLParam(r, "slot")

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			log.Warn("bad multipart form", slog.String("error", err.Error()))
			http.Error(w, "Formulario inválido", http.StatusBadRequest)
			return
		}

		equipmentID := r.FormValue("equipment_id")
		headers := r.MultipartForm.File["files"]
		if len(headers) == 0 {
			http.Error(w, "No se recibieron archivos", http.StatusBadRequest)
			return
		}

		var (
			batch    []images.Upload
			failures []UploadFailure
		)
		for _, fh := range headers {
			data, err := readFile(fh, limits.MaxBytes)
			if err != nil {
				log.Warn("cannot read upload", slog.String("file", fh.Filename), slog.String("error", err.Error()))
				failures = append(failures, UploadFailure{FileName: fh.Filename, Message: "No se pudo leer el archivo"})
				continue
			}
			batch = append(batch, images.Upload{FileName: fh.Filename, EquipmentID: equipmentID, Data: data})
		}

		added, rejected, err := session.AddImages(slot, batch)
		if err != nil {
			switch {
			case errors.Is(err, images.ErrUnknownSlot):
				http.Error(w, "Tipo de imagen no válido", http.StatusBadRequest)
			case errors.Is(err, workspace.ErrEquipmentNotFound):
				http.Error(w, "Equipo no encontrado", http.StatusNotFound)
			default:
				log.Error("upload failed", slog.String("error", err.Error()))
				http.Error(w, "Error interno del servidor", http.StatusInternalServerError)
			}
			return
		}

		for _, f := range rejected {
			failures = append(failures, UploadFailure{FileName: f.FileName, Message: failureMessage(f.Err, limits)})
		}
		if len(failures) > 0 {
			log.Info("some uploads skipped", slog.Int("added", len(added)), slog.Int("skipped", len(failures)))
		}

		render.JSON(w, r, UploadResp{Added: added, Failures: failures})
	}
}

func readFile(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if maxBytes <= 0 {
		return io.ReadAll(f)
	}
	// one byte over the limit is enough to reject the file
	return io.ReadAll(io.LimitReader(f, maxBytes+1))
}

func failureMessage(err error, limits images.Limits) string {
	switch {
	case errors.Is(err, images.ErrNotImage):
		return "El archivo no es una imagen"
	case errors.Is(err, images.ErrTooLarge):
		return fmt.Sprintf("La imagen supera el tamaño máximo de %d MB", limits.MaxBytes>>20)
	case errors.Is(err, images.ErrLimit):
		return fmt.Sprintf("Se alcanzó el máximo de %d imágenes", limits.MaxCount)
	default:
		return "No se pudo procesar la imagen"
	}
}
