package generate_report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/render"

	"calibration-report/internal/service/report"
	"calibration-report/internal/storage"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeHTML = "text/html; charset=utf-8"

	defaultReportName = "TECFRESH"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type Assembler interface {
	Assemble(ctx context.Context, draft storage.ReportDraft) (*report.Document, error)
}

type DraftSource interface {
	Snapshot() (storage.ReportDraft, uint64)
}

// Renderer turns an assembled document into bytes of one output format.
type Renderer func(doc *report.Document) ([]byte, error)

type Exporter struct {
	log       *slog.Logger
	assembler Assembler
	source    DraftSource
	timeout   time.Duration
}

func NewExporter(log *slog.Logger, assembler Assembler, source DraftSource, timeout time.Duration) *Exporter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Exporter{log: log, assembler: assembler, source: source, timeout: timeout}
}

func (e *Exporter) Preview() http.HandlerFunc {
	return e.handler("handlers.report.Preview", report.HTML, contentTypeHTML, "")
}

func (e *Exporter) PDF() http.HandlerFunc {
	return e.handler("handlers.report.PDF", report.PDF, contentTypePDF, ".pdf")
}

func (e *Exporter) Excel() http.HandlerFunc {
	return e.handler("handlers.report.Excel", report.Excel, contentTypeXLSX, ".xlsx")
}

// handler renders the request body draft, or the working session when the body
// is empty. An empty ext serves the result inline.
func (e *Exporter) handler(op string, renderer Renderer, contentType, ext string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := e.log.With(slog.String("op", op))

		draft, err := e.draft(r)
		if err != nil {
			log.Warn("bad request body", slog.String("error", err.Error()))
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), e.timeout)
		defer cancel()

		doc, err := e.assembler.Assemble(ctx, draft)
		if err != nil {
			log.Error("failed to assemble report", slog.String("error", err.Error()))
			http.Error(w, "No se pudo generar el informe", http.StatusInternalServerError)
			return
		}

		out, err := renderer(doc)
		if err != nil {
			log.Error("failed to render report", slog.String("error", err.Error()))
			http.Error(w, "No se pudo generar el informe", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		if ext != "" {
			w.Header().Set("Content-Disposition", "attachment; filename="+FileName(doc.ReportNumber, time.Now(), ext))
		}
		if _, err := w.Write(out); err != nil {
			log.Warn("failed to write response", slog.String("error", err.Error()))
		}
	}
}

func (e *Exporter) draft(r *http.Request) (storage.ReportDraft, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return storage.ReportDraft{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		d, _ := e.source.Snapshot()
		return d, nil
	}

	var d storage.ReportDraft
	if err := render.DecodeJSON(bytes.NewReader(body), &d); err != nil {
		return storage.ReportDraft{}, err
	}
	return d, nil
}

// FileName builds "Informe_<number>_<yyyy-mm-dd><ext>".
func FileName(reportNumber string, at time.Time, ext string) string {
	name := unsafeName.ReplaceAllString(reportNumber, "_")
	if name == "" || name == "_" {
		name = defaultReportName
	}
	return fmt.Sprintf("Informe_%s_%s%s", name, at.Format("2006-01-02"), ext)
}
