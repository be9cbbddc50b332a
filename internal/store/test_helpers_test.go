package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/gpstime/internal/convert"
	"github.com/roach88/gpstime/internal/testutil"
)

var testStart = time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)

// createTestStore creates a new store in a temp dir with predictable IDs and
// a clock that advances one second per record.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithIDGenerator(testutil.NewSequenceIDGenerator("conv")),
		WithClock(testutil.NewStepClock(testStart, time.Second)),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with minimal required fields.
func createTestRecord(kind, input string, week int) Record {
	return Record{
		Kind:        kind,
		Input:       input,
		TableSource: "bundled",
		Result: convert.Fields{
			UTC:    "2026-02-13 12:00:01",
			BJT:    "2026-02-13 20:00:01",
			MJD:    61084.50001157407,
			Year:   2026,
			DOY:    44,
			TOD:    43201,
			Week:   week,
			DOW:    5,
			TOW:    475219,
			Offset: 18,
		},
		Warnings: []string{"EXTRAPOLATED"},
	}
}
