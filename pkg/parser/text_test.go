package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTextPlain(t *testing.T) {
	e := NewPlainTextExtractor()

	text, tables, err := e.ExtractText("notes.txt", "text/plain", []byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Empty(t, tables)
}

func TestExtractTextEmpty(t *testing.T) {
	e := NewPlainTextExtractor()

	_, _, err := e.ExtractText("empty.txt", "text/plain", nil)
	assert.Error(t, err)
}

func TestExtractTextBinary(t *testing.T) {
	e := NewPlainTextExtractor()

	_, _, err := e.ExtractText("doc.pdf", "application/pdf", []byte{0x25, 0x50, 0x44, 0x46, 0x00})
	assert.Error(t, err)

	_, _, err = e.ExtractText("garbage.txt", "text/plain", []byte{0xff, 0xfe, 0x41})
	assert.Error(t, err)
}

func TestExtractTextCSV(t *testing.T) {
	e := NewPlainTextExtractor()
	content := []byte("unit,rate\n101,5200\n102,4900,extra\n")

	text, tables, err := e.ExtractText("rent_roll.csv", "text/csv", content)
	assert.NoError(t, err)
	assert.Contains(t, text, "101 | 5200")

	// ragged rows are tolerated
	assert.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 3)
	assert.Equal(t, "rent_roll.csv", tables[0].Name)
}

func TestExtractTextCSVByMediaType(t *testing.T) {
	e := NewPlainTextExtractor()

	_, tables, err := e.ExtractText("export.dat", "text/csv; charset=utf-8", []byte("a,b\n1,2\n"))
	assert.NoError(t, err)
	assert.Len(t, tables, 1)
}
