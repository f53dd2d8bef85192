package extractor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/errors"
)

// buildPDF assembles a one-page PDF whose text layer shows line.
func buildPDF(line string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", line)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestPDFText(t *testing.T) {
	path := writeFile(t, "invoice.pdf", buildPDF("GSTIN 29ABCDE1234F1Z5 Total 1500.00"))

	text, err := PDFText(path)
	if err != nil {
		t.Fatalf("PDFText returned error: %v", err)
	}
	if !strings.Contains(text, "29ABCDE1234F1Z5") {
		t.Errorf("PDFText = %q, want GSTIN in text layer", text)
	}
}

func TestPDFTextNotAPDF(t *testing.T) {
	path := writeFile(t, "fake.pdf", []byte("hello, not a pdf"))

	_, err := PDFText(path)
	if got := apperrors.CodeOf(err); got != apperrors.ErrorUnsupportedFormat {
		t.Fatalf("code = %q, want %q (err=%v)", got, apperrors.ErrorUnsupportedFormat, err)
	}
}

func TestPDFTextMissing(t *testing.T) {
	_, err := PDFText(filepath.Join(t.TempDir(), "missing.pdf"))
	if got := apperrors.CodeOf(err); got != apperrors.ErrorIO {
		t.Fatalf("code = %q, want %q", got, apperrors.ErrorIO)
	}
}

func TestPlainText(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "utf8 with crlf",
			data: []byte("Pay to Ravi\r\n  Rs. 500  \r\n"),
			want: "Pay to Ravi\nRs. 500",
		},
		{
			name: "utf8 bom",
			data: append([]byte{0xEF, 0xBB, 0xBF}, []byte("₹ 1,200.00")...),
			want: "₹ 1,200.00",
		},
		{
			name: "utf16 little endian",
			data: []byte{0xFF, 0xFE, 'P', 0, 'a', 0, 'y', 0},
			want: "Pay",
		},
		{
			name: "windows-1252",
			data: []byte("Caf\xe9 bill 250"),
			want: "Café bill 250",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := PlainText(writeFile(t, "scan.txt", c.data))
			if err != nil {
				t.Fatalf("PlainText returned error: %v", err)
			}
			if got != c.want {
				t.Errorf("PlainText = %q, want %q", got, c.want)
			}
		})
	}
}

func TestPlainTextRejectsBinary(t *testing.T) {
	data := bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03}, 64)
	_, err := PlainText(writeFile(t, "blob.txt", data))
	if got := apperrors.CodeOf(err); got != apperrors.ErrorUnsupportedFormat {
		t.Fatalf("code = %q, want %q", got, apperrors.ErrorUnsupportedFormat)
	}
}

func TestValidateTXTEmpty(t *testing.T) {
	if err := ValidateTXT(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
