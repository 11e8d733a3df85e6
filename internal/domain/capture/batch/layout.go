// Package batch runs the capture parser over exported notes: CSV/TSV files
// with a text column, or plain files with one utterance per line.
package batch

import (
	"encoding/csv"
	"errors"
	"strings"
	"unicode"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/normalizer"
)

// Header keywords for the columns batch files care about (English + Arabic)
var (
	textHeaders = []string{"text", "message", "note", "transcript", "body", "description", "النص", "الرساله", "ملاحظه", "ملاحظات", "الوصف"}
	dateHeaders = []string{"date", "time", "created", "التاريخ", "الوقت"}
)

// Delimiters tried on the header row, in order of preference on ties.
var delimiters = []rune{'\t', ';', ',', '|'}

const (
	// maxHeaderSearch bounds how far into the file the header row may sit.
	maxHeaderSearch = 20
	maxHeaderWords  = 3
)

var (
	ErrEmptyFile    = errors.New("file is empty")
	ErrNoTextColumn = errors.New("could not find a text column")
)

// Layout describes how to read a batch file.
type Layout struct {
	Delimiter rune     // 0 means one utterance per line, no columns
	SkipLines int      // lines before the header row
	Headers   []string // detected header names
	TextCol   int
	DateCol   int // -1 if not found
}

// Lines reports whether the file is read as plain lines.
func (l *Layout) Lines() bool {
	return l.Delimiter == 0
}

// DetectLayout finds the header row, its delimiter and the text and date
// columns. A file whose first lines carry no recognizable header is treated
// as plain lines.
func DetectLayout(data []byte) (*Layout, error) {
	content := strings.TrimPrefix(string(data), "\uFEFF")
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyFile
	}

	lines := strings.Split(content, "\n")
	delimiter, skip, ok := findHeaderRow(lines)
	if !ok {
		return &Layout{TextCol: 0, DateCol: -1}, nil
	}

	reader := csv.NewReader(strings.NewReader(lines[skip]))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	layout := &Layout{
		Delimiter: delimiter,
		SkipLines: skip,
		Headers:   headers,
		TextCol:   findColumn(headers, textHeaders),
		DateCol:   findColumn(headers, dateHeaders),
	}
	if layout.TextCol == -1 {
		return nil, ErrNoTextColumn
	}
	return layout, nil
}

// findHeaderRow locates the first line that reads like a header: split on
// some delimiter into short digit-free cells, one of which names a known
// column. The delimiter giving the most cells wins.
func findHeaderRow(lines []string) (rune, int, bool) {
	for i, line := range lines {
		if i >= maxHeaderSearch {
			break
		}
		if strings.IndexFunc(line, unicode.IsDigit) >= 0 {
			continue
		}

		var best rune
		bestCells := 0
		for _, d := range delimiters {
			cells := strings.Split(line, string(d))
			if len(cells) > bestCells && len(cells) > 1 && looksLikeHeader(cells) {
				best, bestCells = d, len(cells)
			}
		}
		if bestCells > 0 {
			return best, i, true
		}
	}
	return 0, 0, false
}

func looksLikeHeader(cells []string) bool {
	for _, c := range cells {
		if len(strings.Fields(c)) > maxHeaderWords {
			return false
		}
	}
	return findColumn(cells, textHeaders) != -1 || findColumn(cells, dateHeaders) != -1
}

// findColumn returns the first header containing one of keywords, or -1.
func findColumn(headers []string, keywords []string) int {
	for i, h := range headers {
		h = normalizer.Canonical(strings.Trim(h, ` "'`))
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return i
			}
		}
	}
	return -1
}
