// Package leapsec parses GPS-UTC leap-second tables and answers "what is
// GPS-UTC at this UTC instant".
//
// A Table is immutable once built. Picking up a newer resource means
// parsing it into a new Table; conversions still holding the old one are
// unaffected, so a Table can be shared between goroutines without locking.
//
// Lookups outside the table's known range still return an offset (the
// first or last entry's) together with an *ExtrapolationWarning that the
// caller can surface.
package leapsec
