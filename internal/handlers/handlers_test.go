package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDetermineContentType(t *testing.T) {
	cases := []struct {
		filename string
		header   string
		data     []byte
		want     string
	}{
		{"scan.JPG", "application/octet-stream", nil, "image/jpeg"},
		{"bill.pdf", "", nil, "application/pdf"},
		{"notes.txt", "application/octet-stream", nil, "text/plain"},
		{"photo", "image/png", nil, "image/png"},
		{"photo", "application/octet-stream", pngMagic, "image/png"},
		{"blob", "", []byte("hello world"), "text/plain"},
		{"archive.zip", "application/zip", []byte("PK\x03\x04"), "application/zip"},
	}
	for _, c := range cases {
		if got := determineContentType(c.filename, c.header, c.data); got != c.want {
			t.Errorf("determineContentType(%q, %q) = %q, want %q", c.filename, c.header, got, c.want)
		}
	}
}

func TestParseListFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	filter, err := parseListFilter(req)
	if err != nil {
		t.Fatal(err)
	}
	if filter.Page != 1 || filter.Limit != 20 || filter.MissingGST || filter.Type != "" {
		t.Errorf("defaults = %+v", filter)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/documents?page=3&limit=5&missingGst=true&type=CHECK", nil)
	filter, err = parseListFilter(req)
	if err != nil {
		t.Fatal(err)
	}
	want := models.ListFilter{Page: 3, Limit: 5, MissingGST: true, Type: models.DocumentTypeCheck}
	if filter != want {
		t.Errorf("filter = %+v, want %+v", filter, want)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/documents?missingGst=false", nil)
	if filter, _ = parseListFilter(req); filter.MissingGST {
		t.Error("missingGst=false must not filter")
	}

	for _, q := range []string{"page=x", "limit=1.5", "missingGst=maybe", "type=bill"} {
		req := httptest.NewRequest(http.MethodGet, "/api/documents?"+q, nil)
		if _, err := parseListFilter(req); err == nil {
			t.Errorf("%s: expected error", q)
		}
	}
}
