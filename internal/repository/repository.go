package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/utils"
)

const gstMissingCode = "GST_MISSING"

type Repository interface {
	// Create stores the document with its fields and issues atomically.
	Create(ctx context.Context, doc *models.Document, fields []models.ExtractedField, issues []models.ComplianceIssue) error
	// GetByID returns nil, nil when the document does not exist.
	GetByID(ctx context.Context, id string) (*models.DocumentDetail, error)
	List(ctx context.Context, filter models.ListFilter) (*models.DocumentList, error)
	// ReplaceAnalysis swaps the fields and issues of a document atomically.
	// It returns sql.ErrNoRows when the document does not exist.
	ReplaceAnalysis(ctx context.Context, id string, docType models.DocumentType, fields []models.ExtractedField, issues []models.ComplianceIssue) error
	Summary(ctx context.Context) (*models.Summary, error)
	ExportRows(ctx context.Context) ([]models.ExportRow, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, doc *models.Document, fields []models.ExtractedField, issues []models.ComplianceIssue) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			INSERT INTO documents (id, filename, mime_type, size_bytes, storage_key, text, type, ocr_confidence, source, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if _, err := tx.ExecContext(ctx, query,
			doc.ID,
			doc.Filename,
			doc.MimeType,
			doc.SizeBytes,
			doc.StorageKey,
			doc.Text,
			string(doc.Type),
			doc.OCRConfidence,
			doc.Source,
			doc.CreatedAt.UTC(),
			doc.UpdatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}

		return insertAnalysis(ctx, tx, doc.ID, fields, issues)
	})
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.DocumentDetail, error) {
	var detail models.DocumentDetail

	query := r.db.Rebind(`
		SELECT id, filename, mime_type, size_bytes, storage_key, text, type,
		       ocr_confidence, source, created_at, updated_at
		FROM documents
		WHERE id = ?
	`)
	err := r.db.GetContext(ctx, &detail.Document, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	detail.Fields = []models.ExtractedField{}
	query = r.db.Rebind(`SELECT name, value, confidence FROM extracted_fields WHERE document_id = ? ORDER BY seq`)
	if err := r.db.SelectContext(ctx, &detail.Fields, query, id); err != nil {
		return nil, fmt.Errorf("failed to load fields: %w", err)
	}

	detail.Issues = []models.ComplianceIssue{}
	query = r.db.Rebind(`SELECT code, description, severity FROM compliance_issues WHERE document_id = ? ORDER BY seq`)
	if err := r.db.SelectContext(ctx, &detail.Issues, query, id); err != nil {
		return nil, fmt.Errorf("failed to load issues: %w", err)
	}

	return &detail, nil
}

func (r *repository) List(ctx context.Context, filter models.ListFilter) (*models.DocumentList, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Type != "" {
		conds = append(conds, "d.type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.MissingGST {
		conds = append(conds, "EXISTS (SELECT 1 FROM compliance_issues ci WHERE ci.document_id = d.id AND ci.code = ?)")
		args = append(args, gstMissingCode)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := r.db.Rebind("SELECT COUNT(*) FROM documents d " + where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	items := []models.DocumentListItem{}
	listQuery := r.db.Rebind(`
		SELECT d.id, d.filename, d.type, d.created_at,
		       (SELECT COUNT(*) FROM compliance_issues ci WHERE ci.document_id = d.id) AS issues_count
		FROM documents d ` + where + `
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT ? OFFSET ?
	`)
	listArgs := append(append([]interface{}{}, args...), filter.Limit, (filter.Page-1)*filter.Limit)
	if err := r.db.SelectContext(ctx, &items, listQuery, listArgs...); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return &models.DocumentList{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (r *repository) ReplaceAnalysis(ctx context.Context, id string, docType models.DocumentType, fields []models.ExtractedField, issues []models.ComplianceIssue) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			tx.Rebind(`UPDATE documents SET type = ?, updated_at = ? WHERE id = ?`),
			string(docType), time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return sql.ErrNoRows
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM extracted_fields WHERE document_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete fields: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM compliance_issues WHERE document_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete issues: %w", err)
		}

		return insertAnalysis(ctx, tx, id, fields, issues)
	})
}

func (r *repository) Summary(ctx context.Context) (*models.Summary, error) {
	var summary models.Summary

	query := r.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM documents) AS total_docs,
			(SELECT COUNT(*) FROM documents d
			  WHERE d.type = ?
			    AND EXISTS (SELECT 1 FROM compliance_issues ci WHERE ci.document_id = d.id AND ci.code = ?)) AS bills_missing_gst,
			(SELECT COUNT(*) FROM compliance_issues) AS total_issues
	`)
	if err := r.db.GetContext(ctx, &summary, query, string(models.DocumentTypeBill), gstMissingCode); err != nil {
		return nil, err
	}

	return &summary, nil
}

type exportRecord struct {
	ID          string              `db:"id"`
	Filename    string              `db:"filename"`
	Type        models.DocumentType `db:"type"`
	CreatedAt   time.Time           `db:"created_at"`
	IssuesCount int                 `db:"issues_count"`
}

type fieldRecord struct {
	DocumentID string `db:"document_id"`
	Name       string `db:"name"`
	Value      string `db:"value"`
}

func (r *repository) ExportRows(ctx context.Context) ([]models.ExportRow, error) {
	var docs []exportRecord
	err := r.db.SelectContext(ctx, &docs, `
		SELECT d.id, d.filename, d.type, d.created_at,
		       (SELECT COUNT(*) FROM compliance_issues ci WHERE ci.document_id = d.id) AS issues_count
		FROM documents d
		ORDER BY d.created_at DESC, d.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	var fields []fieldRecord
	query := r.db.Rebind(`
		SELECT document_id, name, value
		FROM extracted_fields
		WHERE name IN (?, ?)
		ORDER BY document_id, seq
	`)
	if err := r.db.SelectContext(ctx, &fields, query, models.FieldGSTIN, models.FieldAmount); err != nil {
		return nil, fmt.Errorf("failed to load fields: %w", err)
	}

	// First occurrence of a name wins, as everywhere else.
	type picked struct{ gstin, amount *string }
	byDoc := make(map[string]*picked, len(docs))
	for i := range fields {
		f := &fields[i]
		p := byDoc[f.DocumentID]
		if p == nil {
			p = &picked{}
			byDoc[f.DocumentID] = p
		}
		switch {
		case f.Name == models.FieldGSTIN && p.gstin == nil:
			p.gstin = &f.Value
		case f.Name == models.FieldAmount && p.amount == nil:
			p.amount = &f.Value
		}
	}

	rows := make([]models.ExportRow, 0, len(docs))
	for _, d := range docs {
		row := models.ExportRow{
			ID:          d.ID,
			Filename:    d.Filename,
			Type:        d.Type,
			CreatedAt:   d.CreatedAt,
			IssuesCount: d.IssuesCount,
		}
		if p := byDoc[d.ID]; p != nil {
			if p.gstin != nil {
				row.GSTIN = *p.gstin
			}
			if p.amount != nil {
				row.Amount = *p.amount
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertAnalysis(ctx context.Context, tx *sqlx.Tx, docID string, fields []models.ExtractedField, issues []models.ComplianceIssue) error {
	fieldQuery := tx.Rebind(`
		INSERT INTO extracted_fields (id, document_id, seq, name, value, confidence)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	for i, f := range fields {
		if _, err := tx.ExecContext(ctx, fieldQuery, utils.GenerateID(), docID, i, f.Name, f.Value, f.Confidence); err != nil {
			return fmt.Errorf("failed to insert field %s: %w", f.Name, err)
		}
	}

	issueQuery := tx.Rebind(`
		INSERT INTO compliance_issues (id, document_id, seq, code, description, severity)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	for i, issue := range issues {
		if _, err := tx.ExecContext(ctx, issueQuery, utils.GenerateID(), docID, i, issue.Code, issue.Description, string(issue.Severity)); err != nil {
			return fmt.Errorf("failed to insert issue %s: %w", issue.Code, err)
		}
	}

	return nil
}
