package csvjson

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

var ErrNoHeader = errors.New("csv has no header row")

var (
	headerJunk     = regexp.MustCompile(`[^a-zA-Z0-9\s\p{Zs}_-]`)
	headerBoundary = regexp.MustCompile(`[\s\p{Zs}_-]+(.)?`)
)

// NormalizeHeader turns a column title into a camelCase key:
// "First Name" -> "firstName", "start_date" -> "startDate".
func NormalizeHeader(header string) string {
	s := strings.TrimSpace(headerJunk.ReplaceAllString(header, ""))
	s = headerBoundary.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(strings.TrimLeftFunc(m, isBoundary))
	})
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func isBoundary(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r) || unicode.Is(unicode.Zs, r)
}

// RowError describes a data row that was dropped.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

type Result struct {
	Headers []string
	Records []Record
	Errors  []RowError
}

// Parse reads CSV text whose first row is the header. Empty lines are
// skipped. Rows that cannot be parsed, or whose field count differs from the
// header, are reported in Result.Errors and left out; parsing carries on
// with the next row.
func Parse(text string) (Result, error) {
	var res Result

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return res, ErrNoHeader
	}
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}

	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = NormalizeHeader(h)
		if keys[i] != "" {
			res.Headers = append(res.Headers, keys[i])
		}
	}
	if len(res.Headers) == 0 {
		return res, ErrNoHeader
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				res.Errors = append(res.Errors, RowError{Line: parseErr.StartLine, Err: parseErr.Err})
				continue
			}
			return res, fmt.Errorf("read row: %w", err)
		}

		line, _ := r.FieldPos(0)
		if len(row) != len(keys) {
			res.Errors = append(res.Errors, RowError{
				Line: line,
				Err:  fmt.Errorf("expected %d fields, got %d", len(keys), len(row)),
			})
			continue
		}

		record := make(Record, 0, len(keys))
		for i, cell := range row {
			if keys[i] == "" {
				continue
			}
			record = record.set(keys[i], Coerce(cell))
		}
		res.Records = append(res.Records, record)
	}
	return res, nil
}
