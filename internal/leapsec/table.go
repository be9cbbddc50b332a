package leapsec

import (
	"fmt"
	"sort"

	"github.com/roach88/gpstime/internal/calendar"
)

// Entry is one row of the table: GPS-UTC equals Offset seconds from
// Effective (inclusive) until the next entry's Effective.
type Entry struct {
	Effective calendar.Instant
	Offset    int
}

// Table is an ordered, immutable set of leap-second entries.
type Table struct {
	source  string
	entries []Entry
}

// Lookup is the answer to a point query.
type Lookup struct {
	// Offset is GPS-UTC in seconds.
	Offset int

	// Warning is non-nil when Offset was extrapolated.
	Warning *ExtrapolationWarning
}

// New builds a Table from entries, which must be non-empty and strictly
// increasing by effective date. The slice is copied.
func New(source string, entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, &MalformedTableError{Source: source, Reason: "table has no entries"}
	}
	for i, e := range entries {
		if err := e.Effective.Validate(); err != nil {
			return nil, &MalformedTableError{
				Source: source,
				Reason: fmt.Sprintf("entry %d: %v", i+1, err),
			}
		}
		if i > 0 && !entries[i-1].Effective.Before(e.Effective) {
			return nil, &MalformedTableError{
				Source: source,
				Reason: fmt.Sprintf("entry %d (%s) is not after entry %d (%s)",
					i+1, e.Effective, i, entries[i-1].Effective),
			}
		}
	}

	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return &Table{source: source, entries: copied}, nil
}

// Source names the resource the table was built from.
func (t *Table) Source() string {
	return t.source
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in ascending order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// First returns the earliest entry.
func (t *Table) First() Entry {
	return t.entries[0]
}

// Latest returns the most recent entry.
func (t *Table) Latest() Entry {
	return t.entries[len(t.entries)-1]
}

// Lookup returns the offset of the entry with the greatest effective date
// at or before at.
//
// Before the first entry the first entry's offset is returned; after the
// last entry's effective date the last offset is returned. Both cases carry
// an *ExtrapolationWarning. Lookup never modifies the table.
func (t *Table) Lookup(at calendar.Instant) Lookup {
	// idx is the first entry strictly after at.
	idx := sort.Search(len(t.entries), func(i int) bool {
		return at.Before(t.entries[i].Effective)
	})

	if idx == 0 {
		first := t.entries[0]
		return Lookup{
			Offset: first.Offset,
			Warning: &ExtrapolationWarning{
				Query:       at,
				Boundary:    first.Effective,
				Offset:      first.Offset,
				BeforeFirst: true,
			},
		}
	}

	e := t.entries[idx-1]
	res := Lookup{Offset: e.Offset}
	if idx == len(t.entries) && e.Effective.Before(at) {
		res.Warning = &ExtrapolationWarning{
			Query:    at,
			Boundary: e.Effective,
			Offset:   e.Offset,
		}
	}
	return res
}
