package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"calibration-report/http-server/analysis"
	"calibration-report/http-server/budget/calculate"
	getdraft "calibration-report/http-server/draft/get"
	removedraft "calibration-report/http-server/draft/remove"
	"calibration-report/http-server/draft/restore"
	savedraft "calibration-report/http-server/draft/save"
	generate_report "calibration-report/http-server/generate-report"
	gethistory "calibration-report/http-server/history/get"
	removehistory "calibration-report/http-server/history/remove"
	savehistory "calibration-report/http-server/history/save"
	getlookup "calibration-report/http-server/lookup/get"
	getsession "calibration-report/http-server/session/get"
	removesession "calibration-report/http-server/session/remove"
	savesession "calibration-report/http-server/session/save"
	updatesession "calibration-report/http-server/session/update"
	"calibration-report/internal/config"
	"calibration-report/internal/middleware/auth"
	"calibration-report/internal/service/images"
)

const frontendDir = "./frontend-dist"

func routes(cfg config.Config, log *slog.Logger, a app) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/api/analysis", analysis.Analyze(log))
	router.Post("/api/budget/calculate", calculate.Calculate(log, a.budget))
	router.Get("/api/lookup/{type}/{number}", getlookup.GetDocument(log, a.lookup, cfg.Lookup.Timeout))

	router.Route("/api/session", func(r chi.Router) {
		r.Get("/", getsession.GetSession(log, a.session))
		r.Put("/", updatesession.ReplaceSession(log, a.session))

		r.Post("/equipments", savesession.AddEquipment(log, a.session))
		r.Put("/equipments/{id}", updatesession.UpdateEquipment(log, a.session))
		r.Delete("/equipments/{id}", removesession.RemoveEquipment(log, a.session))

		r.Post("/budget", savesession.AddBudgetItem(log, a.session))
		r.Put("/budget/{id}", updatesession.UpdateBudgetItem(log, a.session))
		r.Delete("/budget/{id}", removesession.RemoveBudgetItem(log, a.session))

		r.Post("/images/{slot}", savesession.UploadImages(log, a.session, images.Limits{
			MaxBytes: cfg.Images.MaxBytes,
			MaxCount: cfg.Images.MaxCount,
		}))
		r.Delete("/images/{slot}/{id}", removesession.RemoveImage(log, a.session))
	})

	router.Post("/api/draft", savedraft.SaveDraft(log, a.session, a.autosaver))
	router.Get("/api/draft", getdraft.GetDraft(log, a.storage))
	router.Delete("/api/draft", removedraft.ClearDraft(log, a.storage))
	router.Post("/api/draft/restore", restore.RestoreDraft(log, a.storage, a.session))

	exporter := generate_report.NewExporter(log, a.assembler, a.session, cfg.ExportTimeout)
	router.Post("/api/report/preview", exporter.Preview())
	router.Post("/api/report/pdf", exporter.PDF())
	router.Post("/api/report/excel", exporter.Excel())

	router.Post("/api/history", savehistory.SaveHistory(log, a.storage, a.storage, a.budget, a.session))
	router.Get("/api/history", gethistory.GetHistory(log, a.storage))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
	adminRouter.Delete("/history", removehistory.ClearHistory(log, a.storage))
	router.Mount("/api/admin", adminRouter)

	if _, err := os.Stat(frontendDir); err != nil {
		log.Warn("frontend dir not found, serving API only", slog.String("path", frontendDir))
		return router
	}

	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
