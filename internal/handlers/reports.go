package handlers

import (
	"net/http"
	"strconv"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/services"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/utils"
)

type ReportHandler struct {
	service services.ReportService
	logger  *utils.Logger
}

func NewReportHandler(service services.ReportService, logger *utils.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger}
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, summary)
}

func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportCSV(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("Failed to write export", "error", err)
	}
}
