// Package csvrows turns an uploaded CSV file into the ordered list of QR
// payloads used by a bulk run: one string per non-empty record, taken from
// the first column, no header.
package csvrows

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses r and returns the first cell of every record. Blank lines are
// skipped; ragged or malformed records still contribute their first cell (or
// "") instead of failing the whole upload.
func Read(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var rows []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rows = append(rows, "")
				continue
			}
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, sanitize(record[0]))
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// sanitize replaces invalid UTF-8 so every payload is printable.
func sanitize(cell string) string {
	if utf8.ValidString(cell) {
		return cell
	}
	return strings.ToValidUTF8(cell, "�")
}
