package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jengzang/bikeshare-backend-go/internal/enrich"
	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

// Columns lists the columns every source file must provide
var Columns = []string{
	"datetime", "season", "holiday", "workingday", "weather",
	"temp", "atemp", "humidity", "windspeed",
	"casual", "registered", "count",
}

// RowError reports a value that could not be coerced to its column type
type RowError struct {
	Line   int // 1-based line of the field in the source file, header is line 1
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadCSV reads raw records from a CSV stream. Columns are matched by header
// name, so their order does not matter and extra columns are ignored.
// A malformed datetime is reported as a RowError wrapping an enrich.ParseError.
func ReadCSV(r io.Reader) ([]models.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var records []models.RawRecord
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError already names the line
			return nil, err
		}

		p := fieldParser{fields: fields, index: index, pos: reader.FieldPos, row: len(records)}
		rec := models.RawRecord{
			DateTime:   p.timestamp("datetime"),
			Season:     p.integer("season"),
			Holiday:    p.integer("holiday"),
			WorkingDay: p.integer("workingday"),
			Weather:    p.integer("weather"),
			Temp:       p.number("temp"),
			ATemp:      p.number("atemp"),
			Humidity:   p.number("humidity"),
			WindSpeed:  p.number("windspeed"),
			Casual:     p.integer("casual"),
			Registered: p.integer("registered"),
			Count:      p.integer("count"),
		}
		if p.err != nil {
			return nil, p.err
		}
		records = append(records, rec)
	}

	return records, nil
}

// fieldParser keeps the first coercion error of a row
type fieldParser struct {
	fields []string
	index  map[string]int
	pos    func(field int) (line, column int)
	row    int
	err    error
}

func (p *fieldParser) text(col string) string {
	i := p.index[col]
	if i >= len(p.fields) {
		return ""
	}
	return strings.TrimSpace(p.fields[i])
}

func (p *fieldParser) integer(col string) int {
	raw := p.text(col)
	v, err := strconv.Atoi(raw)
	if err != nil {
		// integer columns are sometimes exported as 1.0
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			p.fail(col, raw, err)
			return 0
		}
		v = int(f)
	}
	return v
}

// timestamp keeps the raw text after checking that it parses
func (p *fieldParser) timestamp(col string) string {
	raw := p.text(col)
	if _, err := enrich.ParseTimestamp(raw); err != nil {
		p.fail(col, raw, &enrich.ParseError{Row: p.row, Value: raw, Err: err})
	}
	return raw
}

func (p *fieldParser) number(col string) float64 {
	raw := p.text(col)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(col, raw, err)
		return 0
	}
	return v
}

func (p *fieldParser) fail(col, value string, err error) {
	if p.err == nil {
		field := p.index[col]
		if field >= len(p.fields) {
			field = 0
		}
		line, _ := p.pos(field)
		p.err = &RowError{Line: line, Column: col, Value: value, Err: err}
	}
}
