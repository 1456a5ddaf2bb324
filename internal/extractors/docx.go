package extractors

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
)

// Ensure Docx implements the interface.
var _ driven.TextExtractor = (*Docx)(nil)

// Docx extracts paragraph text from DOCX payloads. A DOCX file is a ZIP
// archive; the text lives in word/document.xml as runs inside paragraphs.
type Docx struct{}

// NewDocx creates a DOCX extractor.
func NewDocx() *Docx {
	return &Docx{}
}

// Extensions returns the extensions this extractor handles.
func (e *Docx) Extensions() []string {
	return []string{"docx"}
}

// Extract converts the payload to plain text, one line per paragraph.
func (e *Docx) Extract(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a valid docx archive", domain.ErrExtraction)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: opening document.xml", domain.ErrExtraction)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: reading document.xml", domain.ErrExtraction)
		}

		return parseDocumentXML(content)
	}

	return "", fmt.Errorf("%w: archive has no word/document.xml", domain.ErrExtraction)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts text content from the document XML.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: malformed document.xml", domain.ErrExtraction)
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				result.WriteString(text.Content)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}
