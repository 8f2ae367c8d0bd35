package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedRecord is returned for input lines that are not of the form
// "weight t1 ... t9 -> r g b".
var ErrMalformedRecord = errors.New("malformed record")

const recordSeparator = "->"

// String formats the record as one line of extractor output.
func (r EquationRecord) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(r.Weight))
	for _, v := range r.Tuple {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	sb.WriteString(" " + recordSeparator)
	for _, v := range r.Color {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(int(v)))
	}
	return sb.String()
}

// ParseRecord parses a line produced by EquationRecord.String.
func ParseRecord(line string) (EquationRecord, error) {
	var rec EquationRecord

	fields := strings.Fields(line)
	n := len(rec.Tuple)
	if len(fields) != 1+n+1+len(rec.Color) || fields[n+1] != recordSeparator {
		return rec, fmt.Errorf("%w: %q", ErrMalformedRecord, line)
	}

	w, err := strconv.Atoi(fields[0])
	if err != nil || w < 0 {
		return rec, fmt.Errorf("%w: bad weight %q", ErrMalformedRecord, fields[0])
	}
	rec.Weight = w

	for i := range rec.Tuple {
		v, err := strconv.ParseUint(fields[1+i], 10, 24)
		if err != nil {
			return rec, fmt.Errorf("%w: bad count %q", ErrMalformedRecord, fields[1+i])
		}
		rec.Tuple[i] = RawSample(v)
	}
	for i := range rec.Color {
		v, err := strconv.ParseUint(fields[n+2+i], 10, 8)
		if err != nil {
			return rec, fmt.Errorf("%w: bad channel value %q", ErrMalformedRecord, fields[n+2+i])
		}
		rec.Color[i] = uint8(v)
	}
	return rec, nil
}

// ReadRecords parses every non-blank line of r.
func ReadRecords(r io.Reader) ([]EquationRecord, error) {
	var out []EquationRecord
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteRecords writes one line per record.
func WriteRecords(w io.Writer, recs []EquationRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range recs {
		if _, err := bw.WriteString(rec.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
