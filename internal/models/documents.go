package models

import (
	"time"
)

type DocumentType string

const (
	DocumentTypeBill  DocumentType = "BILL"
	DocumentTypeCheck DocumentType = "CHECK"
)

// ParseDocumentType accepts the persisted spelling only ("BILL", "CHECK").
func ParseDocumentType(s string) (DocumentType, bool) {
	switch DocumentType(s) {
	case DocumentTypeBill, DocumentTypeCheck:
		return DocumentType(s), true
	}
	return "", false
}

type Severity string

const (
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Field names emitted by the field extractor.
const (
	FieldGSTIN       = "GSTIN"
	FieldAmount      = "AMOUNT"
	FieldAmountRaw   = "AMOUNT_RAW"
	FieldDate        = "DATE"
	FieldDocTypeHint = "DOC_TYPE_HINT"
)

type ExtractedField struct {
	Name       string   `json:"name" db:"name"`
	Value      string   `json:"value" db:"value"`
	Confidence *float64 `json:"confidence,omitempty" db:"confidence"`
}

type ComplianceIssue struct {
	Code        string   `json:"code" db:"code"`
	Description string   `json:"description" db:"description"`
	Severity    Severity `json:"severity" db:"severity"`
}

type Document struct {
	ID            string       `json:"id" db:"id"`
	Filename      string       `json:"filename" db:"filename"`
	MimeType      string       `json:"mimeType" db:"mime_type"`
	SizeBytes     int64        `json:"sizeBytes" db:"size_bytes"`
	StorageKey    string       `json:"storageKey" db:"storage_key"`
	Text          string       `json:"text" db:"text"`
	Type          DocumentType `json:"type" db:"type"`
	OCRConfidence *float64     `json:"ocrConfidence,omitempty" db:"ocr_confidence"`
	Source        string       `json:"source" db:"source"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

// DocumentDetail is a document with everything derived from it.
type DocumentDetail struct {
	Document
	Fields  []ExtractedField  `json:"fields"`
	Issues  []ComplianceIssue `json:"issues"`
	FileURL string            `json:"fileUrl"`
}

type DocumentListItem struct {
	ID          string       `json:"id" db:"id"`
	Filename    string       `json:"filename" db:"filename"`
	Type        DocumentType `json:"type" db:"type"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	IssuesCount int          `json:"issuesCount" db:"issues_count"`
}

type ListFilter struct {
	Page       int
	Limit      int
	MissingGST bool
	Type       DocumentType
}

type DocumentList struct {
	Items []DocumentListItem `json:"items"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
}

type UploadResponse struct {
	ID          string       `json:"id"`
	IssuesCount int          `json:"issuesCount"`
	Type        DocumentType `json:"type"`
}

type AnalysisResponse struct {
	ID     string            `json:"id"`
	Type   DocumentType      `json:"type"`
	Fields []ExtractedField  `json:"fields"`
	Issues []ComplianceIssue `json:"issues"`
}

type Summary struct {
	TotalDocs       int `json:"totalDocs" db:"total_docs"`
	BillsMissingGST int `json:"billsMissingGst" db:"bills_missing_gst"`
	TotalIssues     int `json:"totalIssues" db:"total_issues"`
}

// ExportRow is one line of the CSV export.
type ExportRow struct {
	ID          string
	Filename    string
	Type        DocumentType
	CreatedAt   time.Time
	GSTIN       string
	Amount      string
	IssuesCount int
}
