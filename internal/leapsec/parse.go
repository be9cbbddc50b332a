package leapsec

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/roach88/gpstime/internal/calendar"
)

// BundledSource is the Source name of the table compiled into the binary.
const BundledSource = "bundled"

//go:embed GPSUTC.BSW
var bundledBSW []byte

// rowFields is the field count of a data row:
// <offset> <YYYY> <MM> <DD> <HH> <MM> <SS.ss>
const rowFields = 7

// Bundled parses the table compiled into the binary.
func Bundled() (*Table, error) {
	return Parse(bytes.NewReader(bundledBSW), BundledSource)
}

// BundledData returns a copy of the raw bundled resource.
func BundledData() []byte {
	out := make([]byte, len(bundledBSW))
	copy(out, bundledBSW)
	return out
}

// LoadFile parses the table at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open leap-second table: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads a fixed-format GPS-UTC table (the Bernese GPSUTC.BSW layout).
//
// Any text before the first data row is treated as header and skipped. A
// line counts as a data row once its first field is numeric and it has at
// least seven fields; from the first data row on, every non-blank line must
// be a valid row. Fractional seconds in the effective time are accepted and
// truncated to whole seconds.
func Parse(r io.Reader, source string) (*Table, error) {
	var (
		entries []Entry
		lineNo  int
		inData  bool
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if !inData && !looksLikeRow(fields) {
			continue
		}
		inData = true

		entry, err := parseRow(fields)
		if err != nil {
			return nil, &MalformedTableError{Source: source, Line: lineNo, Text: line, Reason: err.Error()}
		}
		if n := len(entries); n > 0 && !entries[n-1].Effective.Before(entry.Effective) {
			return nil, &MalformedTableError{
				Source: source,
				Line:   lineNo,
				Text:   line,
				Reason: fmt.Sprintf("effective date %s is not after %s", entry.Effective, entries[n-1].Effective),
			}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read leap-second table %s: %w", source, err)
	}

	return New(source, entries)
}

func looksLikeRow(fields []string) bool {
	if len(fields) < rowFields {
		return false
	}
	_, err := strconv.ParseFloat(fields[0], 64)
	return err == nil
}

func parseRow(fields []string) (Entry, error) {
	if len(fields) != rowFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", rowFields, len(fields))
	}

	offset, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("offset %q is not a number", fields[0])
	}
	if offset != math.Trunc(offset) || math.Abs(offset) > math.MaxInt32 {
		return Entry{}, fmt.Errorf("offset %q is not a whole number of seconds", fields[0])
	}

	var ints [5]int
	for i := range ints {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return Entry{}, fmt.Errorf("field %d %q is not an integer", i+2, fields[i+1])
		}
		ints[i] = v
	}

	sec, err := strconv.ParseFloat(fields[6], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("seconds %q is not a number", fields[6])
	}

	effective, err := calendar.New(ints[0], ints[1], ints[2], ints[3], ints[4], math.Trunc(sec))
	if err != nil {
		return Entry{}, err
	}
	return Entry{Effective: effective, Offset: int(offset)}, nil
}
