package ingest

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

const maxResumeChars = 20000

// ExtractResumeText reads the plain text of every page of a PDF.
func ExtractResumeText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open resume pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.Join(strings.Fields(text), " ")
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
		if b.Len() > maxResumeChars {
			break
		}
	}

	out := b.String()
	if len(out) > maxResumeChars {
		out = out[:maxResumeChars]
	}
	return out, nil
}
