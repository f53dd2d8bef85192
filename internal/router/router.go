package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/handlers"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/middleware"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/services"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/utils"
)

type Options struct {
	MaxFileSize int64
}

func NewRouter(docService services.DocumentService, reportService services.ReportService, opts Options, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	docHandler := handlers.NewDocumentHandler(docService, opts.MaxFileSize, logger)
	reportHandler := handlers.NewReportHandler(reportService, logger)

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("", handlers.Index).Methods(http.MethodGet)
	api.HandleFunc("/", handlers.Index).Methods(http.MethodGet)

	// Document endpoints
	api.HandleFunc("/documents", docHandler.ListDocuments).Methods(http.MethodGet)
	api.HandleFunc("/documents/upload", docHandler.UploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}", docHandler.GetDocument).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}/file", docHandler.GetFile).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}/analyze", docHandler.AnalyzeDocument).Methods(http.MethodPost)

	// Report endpoints
	api.HandleFunc("/reports/summary", reportHandler.Summary).Methods(http.MethodGet)
	api.HandleFunc("/reports/export.csv", reportHandler.ExportCSV).Methods(http.MethodGet)

	// Preflight requests match no route, so CORS wraps the whole router.
	return middleware.CORS()(r)
}
