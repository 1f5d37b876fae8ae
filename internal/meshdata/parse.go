package meshdata

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ParseGrid reads a headerless, comma-delimited grid. Every row must have
// as many cells as the first one and every cell must parse as a float.
func ParseGrid(r io.Reader) (*Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0 // first record fixes the width
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var rows [][]float64
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				if errors.Is(pe.Err, csv.ErrFieldCount) {
					return nil, fmt.Errorf("%w: line %d: has %d columns, want %d",
						ErrMalformedGrid, pe.Line, len(rec), len(rows[0]))
				}
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedGrid, pe.Line, pe.Err)
			}
			return nil, fmt.Errorf("failed to read grid: %w", err)
		}

		row := make([]float64, len(rec))
		for i, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				line, _ := cr.FieldPos(i)
				return nil, fmt.Errorf("%w: line %d column %d: invalid number %q",
					ErrMalformedGrid, line, i+1, cell)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return NewGrid(rows)
}

var timestampKeyPattern = regexp.MustCompile(`^t([0-9]+)$`)

// ParseMetadata reads key=value lines. Keys of the form t<N> are frame
// timestamps ordered by N; all other keys are scalars. Blank lines and
// lines starting with '#' are skipped.
func ParseMetadata(r io.Reader) (*Metadata, error) {
	md := &Metadata{scalars: make(map[string]float64)}
	slots := make(map[int]float64)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, raw, ok := strings.Cut(line, "=")
		key, raw = strings.TrimSpace(key), strings.TrimSpace(raw)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: line %d: expected key=value, got %q", ErrMalformedMetadata, lineNo, line)
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: key %q: invalid number %q", ErrMalformedMetadata, lineNo, key, raw)
		}

		if m := timestampKeyPattern.FindStringSubmatch(key); m != nil {
			slot, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: key %q: slot out of range", ErrMalformedMetadata, lineNo, key)
			}
			if _, dup := slots[slot]; dup {
				return nil, fmt.Errorf("%w: line %d: duplicate timestamp slot %q", ErrMalformedMetadata, lineNo, key)
			}
			slots[slot] = v
			continue
		}

		if _, dup := md.scalars[key]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate key %q", ErrMalformedMetadata, lineNo, key)
		}
		md.scalars[key] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	order := make([]int, 0, len(slots))
	for slot := range slots {
		order = append(order, slot)
	}
	sort.Ints(order)
	md.timestamps = make([]float64, len(order))
	for i, slot := range order {
		md.timestamps[i] = slots[slot]
	}

	return md, nil
}
