// Package resume extracts plain text from uploaded resume files so the
// generator can work from text regardless of the upload format.
package resume

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

func ExtractText(mime string, data []byte) (string, error) {
	switch mime {
	case "text/plain":
		return string(data), nil

	case "application/pdf":
		return extractPDFText(bytes.NewReader(data))

	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return extractDocxText(bytes.NewReader(data))

	default:
		return "", fmt.Errorf("unsupported file type: %s", mime)
	}
}

func extractPDFText(reader io.ReaderAt) (string, error) {
	pdfReader, err := pdf.NewReader(reader, lenReader(reader))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

func extractDocxText(reader io.Reader) (string, error) {
	buf := new(bytes.Buffer)
	_, err := io.Copy(buf, reader)
	if err != nil {
		return "", err
	}
	r := bytes.NewReader(buf.Bytes())

	doc, err := docx.ReadDocxFromMemory(r, int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

// Utility: get reader length for PDF
func lenReader(r io.ReaderAt) int64 {
	switch v := r.(type) {
	case *bytes.Reader:
		return int64(v.Len())
	default:
		return 0
	}
}
