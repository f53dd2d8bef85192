package services

import (
	"bytes"
	"context"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/reports"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/repository"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/utils"
)

type ReportService interface {
	Summary(ctx context.Context) (*models.Summary, error)
	// ExportCSV renders every document, newest first.
	ExportCSV(ctx context.Context) ([]byte, error)
}

type reportService struct {
	repo   repository.Repository
	logger *utils.Logger
}

func NewReportService(repo repository.Repository, logger *utils.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) Summary(ctx context.Context) (*models.Summary, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		s.logger.Error("Failed to compute summary", "error", err)
		return nil, utils.NewInternalError("Failed to compute summary")
	}
	return summary, nil
}

func (s *reportService) ExportCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.repo.ExportRows(ctx)
	if err != nil {
		s.logger.Error("Failed to load export rows", "error", err)
		return nil, utils.NewInternalError("Failed to export documents")
	}

	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, rows); err != nil {
		s.logger.Error("Failed to render CSV", "error", err)
		return nil, utils.NewInternalError("Failed to export documents")
	}

	s.logger.Debug("Export rendered", "rows", len(rows), "bytes", buf.Len())
	return buf.Bytes(), nil
}
