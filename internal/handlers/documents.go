package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/pipeline"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/services"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/utils"
)

// multipart framing on top of the file itself
const formOverhead = 1 << 20

type DocumentHandler struct {
	service     services.DocumentService
	maxFileSize int64
	logger      *utils.Logger
}

func NewDocumentHandler(service services.DocumentService, maxFileSize int64, logger *utils.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (h *DocumentHandler) tooLarge() error {
	return utils.NewBadRequestError(fmt.Sprintf("File size exceeds %s limit", humanize.IBytes(uint64(h.maxFileSize))))
}

func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	// Check Content-Length header first to reject oversized requests early
	if r.ContentLength > h.maxFileSize+formOverhead {
		respondError(w, h.logger, h.tooLarge())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+formOverhead)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			respondError(w, h.logger, h.tooLarge())
			return
		}
		respondError(w, h.logger, utils.NewBadRequestError("Invalid form data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, utils.NewBadRequestError("No file uploaded"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		respondError(w, h.logger, utils.NewInternalError("Failed to read file"))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		respondError(w, h.logger, h.tooLarge())
		return
	}
	if len(data) == 0 {
		respondError(w, h.logger, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"), data)

	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"reported_content_type", header.Header.Get("Content-Type"),
		"determined_content_type", contentType,
		"size_bytes", len(data))

	resp, err := h.service.UploadDocument(r.Context(), &models.UploadRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: contentType,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, resp)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	list, err := h.service.ListDocuments(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, list)
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, h.logger, utils.NewBadRequestError("Document ID is required"))
		return
	}

	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, doc)
}

func (h *DocumentHandler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, h.logger, utils.NewBadRequestError("Document ID is required"))
		return
	}

	resp, err := h.service.AnalyzeDocument(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, resp)
}

func (h *DocumentHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, h.logger, utils.NewBadRequestError("Document ID is required"))
		return
	}

	file, err := h.service.OpenFile(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.Warn("Failed to write file response", "error", err, "id", id)
	}
}

func parseListFilter(r *http.Request) (models.ListFilter, error) {
	q := r.URL.Query()
	filter := models.ListFilter{Page: 1, Limit: services.DefaultPageLimit}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return filter, utils.NewBadRequestError("page must be an integer")
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, utils.NewBadRequestError("limit must be an integer")
		}
		filter.Limit = limit
	}
	if v := q.Get("missingGst"); v != "" {
		missing, err := strconv.ParseBool(v)
		if err != nil {
			return filter, utils.NewBadRequestError("missingGst must be a boolean")
		}
		filter.MissingGST = missing
	}
	if v := q.Get("type"); v != "" {
		docType, ok := models.ParseDocumentType(v)
		if !ok {
			return filter, utils.NewBadRequestError("type must be BILL or CHECK")
		}
		filter.Type = docType
	}

	return filter, nil
}

// determineContentType picks the content type from the filename extension,
// then the part header, then by sniffing the data.
func determineContentType(filename, headerContentType string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	}

	if headerContentType != "" && headerContentType != "application/octet-stream" && pipeline.Supports(headerContentType) {
		return headerContentType
	}

	sniffed := http.DetectContentType(data)
	if pipeline.Supports(sniffed) {
		return pipeline.MediaType(sniffed)
	}

	if headerContentType != "" {
		return headerContentType
	}
	return sniffed
}
