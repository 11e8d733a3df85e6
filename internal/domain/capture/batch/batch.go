package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/parser"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

const (
	// MaxRows caps how many rows a single batch may hold.
	MaxRows = 10_000
	// MaxLineBytes caps a single line of a plain-lines file.
	MaxLineBytes = 1 << 20
)

var (
	ErrTooManyRows = fmt.Errorf("batch has more than %d rows", MaxRows)
	ErrLineTooLong = fmt.Errorf("line longer than %d bytes", MaxLineBytes)
	errEmptyText   = errors.New("empty text")
)

// Row is the outcome for one line of the file.
type Row struct {
	Line       int                `json:"line"` // 1-indexed line in the file
	OccurredAt *time.Time         `json:"occurred_at,omitempty"`
	Text       string             `json:"text"`
	Result     common.ParseResult `json:"result"`
	Error      string             `json:"error,omitempty"`
}

// Result is the outcome for a whole file. Rows are in file order.
type Result struct {
	Rows         []Row `json:"rows"`
	RowsTotal    int   `json:"rows_total"`
	RowsMatched  int   `json:"rows_matched"` // rows with at least one transaction
	RowsFailed   int   `json:"rows_failed"`
	Transactions int   `json:"transactions"`
}

// Options tunes a run.
type Options struct {
	Workers  int            // defaults to GOMAXPROCS
	Location *time.Location // for dates without a zone, defaults to UTC
}

type job struct {
	line   int
	record []string
}

// Run parses every row of data with p, resolving categories against cats.
func Run(ctx context.Context, data []byte, p *parser.Parser, cats []common.Category, opts Options) (*Result, error) {
	layout, err := DetectLayout(data)
	if err != nil {
		return nil, err
	}

	jobs, err := readJobs(data, layout)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(len(jobs), 1))

	rows := make([]Row, 0, len(jobs))
	queue := make(chan job, workers*4)
	results := make(chan Row, workers*4)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				row := parseRow(j, layout, p, cats, opts.Location)
				select {
				case results <- row:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, j := range jobs {
			select {
			case queue <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for row := range results {
		rows = append(rows, row)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Line < rows[j].Line })

	res := &Result{Rows: rows, RowsTotal: len(rows)}
	for _, row := range rows {
		switch {
		case row.Error != "":
			res.RowsFailed++
		case len(row.Result.Transactions) > 0:
			res.RowsMatched++
			res.Transactions += len(row.Result.Transactions)
		}
	}
	return res, nil
}

// readJobs splits the file into rows according to layout. Blank lines are
// skipped; line numbers stay those of the file.
func readJobs(data []byte, layout *Layout) ([]job, error) {
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))
	var jobs []job

	if layout.Lines() {
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			if len(jobs) == MaxRows {
				return nil, ErrTooManyRows
			}
			jobs = append(jobs, job{line: line, record: []string{text}})
		}
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				return nil, fmt.Errorf("%w after line %d", ErrLineTooLong, line)
			}
			return nil, fmt.Errorf("reading lines: %w", err)
		}
		return jobs, nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = layout.Delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	for i := 0; i <= layout.SkipLines; i++ {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			// metadata lines above the header may not be valid CSV
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, err
			}
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, err
			}
			jobs = append(jobs, job{line: parseErr.StartLine})
			continue
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		if len(jobs) == MaxRows {
			return nil, ErrTooManyRows
		}
		jobs = append(jobs, job{line: line, record: record})
	}
	return jobs, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(j job, layout *Layout, p *parser.Parser, cats []common.Category, loc *time.Location) Row {
	row := Row{Line: j.line, Result: common.ParseResult{Transactions: []common.ParsedTransaction{}}}
	if j.record == nil {
		row.Error = "malformed row"
		return row
	}
	if layout.TextCol >= len(j.record) {
		row.Error = "text column missing"
		return row
	}

	row.Text = strings.Join(strings.Fields(j.record[layout.TextCol]), " ")
	if row.Text == "" {
		row.Error = errEmptyText.Error()
		return row
	}

	if layout.DateCol >= 0 && layout.DateCol < len(j.record) && strings.TrimSpace(j.record[layout.DateCol]) != "" {
		t, err := parseDate(j.record[layout.DateCol], loc)
		if err != nil {
			row.Error = fmt.Sprintf("%v: %q", err, j.record[layout.DateCol])
			return row
		}
		row.OccurredAt = &t
	}

	row.Result = p.Parse(row.Text, cats)
	return row
}
