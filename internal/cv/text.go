package cv

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// ExtractText converts a PDF or Word document on disk to plain text.
func ExtractText(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(filePath)
	case ".doc", ".docx":
		text, err = extractWord(filePath)
	default:
		return "", &ExtractError{Path: filePath, Op: "detect", Err: fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)}
	}
	if err != nil {
		return "", &ExtractError{Path: filePath, Op: "extract", Err: fmt.Errorf("%w: %v", ErrExtractionFailed, err)}
	}
	if strings.TrimSpace(text) == "" {
		return "", &ExtractError{Path: filePath, Op: "extract", Err: ErrExtractionFailed}
	}
	return text, nil
}

// extractPDF joins the text of every non-empty page with a newline.
func extractPDF(filePath string) (string, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n")
		}
	}
	return strings.TrimRightFunc(sb.String(), unicode.IsSpace), nil
}

// extractWord joins the document's paragraphs with a newline.
func extractWord(filePath string) (string, error) {
	res, err := docconv.ConvertPath(filePath)
	if err != nil {
		return "", fmt.Errorf("convert document: %w", err)
	}
	return joinParagraphs(res.Body), nil
}

func joinParagraphs(body string) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		paragraphs = append(paragraphs, strings.TrimRightFunc(line, unicode.IsSpace))
	}
	return strings.TrimRightFunc(strings.Join(paragraphs, "\n"), unicode.IsSpace)
}
