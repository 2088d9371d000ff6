package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"deal-intake-be/internal/entity"
)

// TextExtractor pulls raw text and tabular data out of an uploaded file.
// Real OCR and spreadsheet parsing live behind this boundary; the default
// implementation handles text-native media and rejects anything it cannot
// decode so the ingest phase can record a degraded file and move on.
type TextExtractor interface {
	ExtractText(filename, mediaType string, content []byte) (string, []entity.TableData, error)
}

type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (e *PlainTextExtractor) ExtractText(filename, mediaType string, content []byte) (string, []entity.TableData, error) {
	if len(content) == 0 {
		return "", nil, fmt.Errorf("empty file %q", filename)
	}

	if strings.Contains(mediaType, "csv") || strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return extractCSV(filename, content)
	}

	if !utf8.Valid(content) || bytes.ContainsRune(content, 0) {
		return "", nil, fmt.Errorf("unsupported binary media %q for %q", mediaType, filename)
	}
	return string(content), nil, nil
}

func extractCSV(filename string, content []byte) (string, []entity.TableData, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", nil, fmt.Errorf("parse csv %q: %w", filename, err)
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, " | "))
		b.WriteByte('\n')
	}
	table := entity.TableData{Name: filename, Rows: rows}
	return b.String(), []entity.TableData{table}, nil
}
