package renderserver

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/renderserver/store"
)

// BuildPDF renders a minimal single-page PDF listing the document type,
// language and form fields. The production renderer owns real templates;
// this one only needs to emit a well-formed artifact for the client stack
// to exercise.
func BuildPDF(rec store.Record) ([]byte, error) {
	if rec.FormData == nil {
		return nil, fmt.Errorf("record %s has no form data", rec.ID)
	}

	lines := []string{
		fmt.Sprintf("%s (%s)", title(rec.DocType), rec.Language),
		"",
	}
	keys := make([]string, 0, len(rec.FormData))
	for k := range rec.FormData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, rec.FormData[k]))
	}

	return writePDF(lines), nil
}

func title(docType docmodel.DocType) string {
	if !docType.Known() {
		return "Document"
	}
	words := strings.Split(string(docType), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// writePDF emits a complete PDF 1.4 document: catalog, page tree, one page,
// Helvetica, and a text content stream. Offsets in the xref table are
// tracked as the buffer grows.
func writePDF(lines []string) []byte {
	var content bytes.Buffer
	content.WriteString("BT /F1 11 Tf 13 TL 50 792 Td\n")
	for _, line := range lines {
		fmt.Fprintf(&content, "(%s) Tj T*\n", escapeText(line))
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)
	return buf.Bytes()
}

var asciiFold = map[rune]rune{
	'ş': 's', 'Ş': 'S',
	'ı': 'i', 'İ': 'I',
	'ğ': 'g', 'Ğ': 'G',
	'ü': 'u', 'Ü': 'U',
	'ö': 'o', 'Ö': 'O',
	'ç': 'c', 'Ç': 'C',
}

// escapeText keeps the content stream in plain ASCII and escapes the PDF
// string delimiters.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if mapped, ok := asciiFold[r]; ok {
			r = mapped
		}
		switch {
		case r == '(' || r == ')' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 32 && r < 127:
			b.WriteRune(r)
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
