package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/config"
	apperrors "github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/errors"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/pipeline"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/repository"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/storage"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/utils"
)

const (
	MaxPageLimit     = 100
	DefaultPageLimit = 20
)

// Processor is the document pipeline. *pipeline.Processor satisfies it.
type Processor interface {
	Process(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
	Evaluate(text string) *pipeline.Result
}

type DocumentService interface {
	UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error)
	ListDocuments(ctx context.Context, filter models.ListFilter) (*models.DocumentList, error)
	GetDocument(ctx context.Context, id string) (*models.DocumentDetail, error)
	AnalyzeDocument(ctx context.Context, id string) (*models.AnalysisResponse, error)
	OpenFile(ctx context.Context, id string) (*StoredFile, error)
}

// StoredFile is a raw upload as it was received.
type StoredFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type documentService struct {
	repo      repository.Repository
	storage   storage.Storage
	processor Processor
	tempDir   string
	baseURL   string
	logger    *utils.Logger
}

func NewDocumentService(repo repository.Repository, store storage.Storage, processor Processor, cfg *config.Config, logger *utils.Logger) DocumentService {
	return &documentService{
		repo:      repo,
		storage:   store,
		processor: processor,
		tempDir:   cfg.TempDir,
		baseURL:   cfg.BaseURL,
		logger:    logger,
	}
}

func (s *documentService) UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	if len(req.File) == 0 {
		return nil, utils.NewBadRequestError("Uploaded file is empty")
	}
	if !pipeline.Supports(req.ContentType) {
		s.logger.Warn("Unsupported content type", "content_type", req.ContentType, "filename", req.Filename)
		return nil, utils.NewBadRequestError(fmt.Sprintf("Unsupported file type '%s'. Only images, PDF and plain text are allowed", req.ContentType))
	}

	docID := utils.GenerateID()
	now := time.Now().UTC()

	tmpPath, err := s.stage(req)
	if err != nil {
		s.logger.Error("Failed to stage upload", "error", err, "doc_id", docID)
		return nil, utils.NewInternalError("Failed to store document")
	}
	defer os.Remove(tmpPath)

	result, err := s.processor.Process(ctx, pipeline.Input{Path: tmpPath, ContentType: req.ContentType})
	if err != nil {
		s.logger.Error("Failed to process document",
			"error", err,
			"code", apperrors.CodeOf(err),
			"doc_id", docID,
			"filename", req.Filename,
			"content_type", req.ContentType)
		return nil, pipelineError(err)
	}

	key := storage.DocumentKey(docID, req.Filename, now)
	if err := s.storage.Upload(ctx, key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to upload document", "error", err, "storage_key", key)
		return nil, utils.NewInternalError("Failed to store document")
	}

	doc := &models.Document{
		ID:            docID,
		Filename:      req.Filename,
		MimeType:      pipeline.MediaType(req.ContentType),
		SizeBytes:     int64(len(req.File)),
		StorageKey:    key,
		Text:          result.Text,
		Type:          result.Type,
		OCRConfidence: result.Confidence,
		Source:        result.Source,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, doc, result.Fields, result.Issues); err != nil {
		s.logger.Error("Failed to save document to database", "error", err, "doc_id", docID)
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove orphaned upload", "error", delErr, "storage_key", key)
		}
		return nil, utils.NewInternalError("Failed to save document")
	}

	s.logger.Info("Document processed",
		"doc_id", docID,
		"filename", req.Filename,
		"content_type", doc.MimeType,
		"source", result.Source,
		"type", result.Type,
		"issues", len(result.Issues),
		"duration_ms", result.Duration.Milliseconds())

	return &models.UploadResponse{
		ID:          docID,
		IssuesCount: len(result.Issues),
		Type:        result.Type,
	}, nil
}

// stage writes the upload to a temp file for the pipeline to read.
func (s *documentService) stage(req *models.UploadRequest) (string, error) {
	ext := filepath.Ext(storage.SafeName(req.Filename))
	f, err := os.CreateTemp(s.tempDir, "upload-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(req.File); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (s *documentService) ListDocuments(ctx context.Context, filter models.ListFilter) (*models.DocumentList, error) {
	if filter.Page < 1 {
		return nil, utils.NewBadRequestError("page must be at least 1")
	}
	if filter.Limit < 1 || filter.Limit > MaxPageLimit {
		return nil, utils.NewBadRequestError(fmt.Sprintf("limit must be between 1 and %d", MaxPageLimit))
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list documents", "error", err)
		return nil, utils.NewInternalError("Failed to list documents")
	}
	return list, nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*models.DocumentDetail, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	doc.FileURL = s.baseURL + "/api/documents/" + doc.ID + "/file"
	return doc, nil
}

// AnalyzeDocument re-runs field extraction and compliance evaluation on the
// stored text and replaces the previous results.
func (s *documentService) AnalyzeDocument(ctx context.Context, id string) (*models.AnalysisResponse, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	result := s.processor.Evaluate(doc.Text)

	err = s.repo.ReplaceAnalysis(ctx, id, result.Type, result.Fields, result.Issues)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.NewNotFoundError("Document not found")
	}
	if err != nil {
		s.logger.Error("Failed to update analysis", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to save analysis results")
	}

	s.logger.Info("Document re-analyzed",
		"doc_id", id,
		"type", result.Type,
		"issues", len(result.Issues))

	return &models.AnalysisResponse{
		ID:     id,
		Type:   result.Type,
		Fields: result.Fields,
		Issues: result.Issues,
	}, nil
}

func (s *documentService) OpenFile(ctx context.Context, id string) (*StoredFile, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	data, err := s.storage.Download(ctx, doc.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, utils.NewNotFoundError("Stored file not found")
	}
	if err != nil {
		s.logger.Error("Failed to download document", "error", err, "storage_key", doc.StorageKey)
		return nil, utils.NewInternalError("Failed to read stored file")
	}

	return &StoredFile{
		Filename:    doc.Filename,
		ContentType: doc.MimeType,
		Data:        data,
	}, nil
}

// pipelineError maps a pipeline failure to the HTTP error reported for it.
func pipelineError(err error) *utils.AppError {
	var pe *apperrors.Error
	if !errors.As(err, &pe) {
		return utils.NewInternalError("Failed to process document")
	}

	switch pe.Code {
	case apperrors.ErrorUnsupportedFormat:
		return utils.NewUnprocessableError("Unsupported or unreadable document: " + pe.Message)
	case apperrors.ErrorOCREngine:
		return utils.NewBadGatewayError("Text recognition failed")
	default:
		return utils.NewInternalError("Failed to process document")
	}
}
