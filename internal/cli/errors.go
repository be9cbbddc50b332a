package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/gpstime/internal/calendar"
	"github.com/roach88/gpstime/internal/convert"
	"github.com/roach88/gpstime/internal/gps"
	"github.com/roach88/gpstime/internal/leapsec"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error

	ErrCodeInvalidInput     = "E201" // Unparseable or out-of-range input
	ErrCodeConflictingInput = "E202" // Zero or several input flags
	ErrCodeMalformedTable   = "E203" // Unusable leap-second table
	ErrCodeConfig           = "E204" // Config file could not be read
	ErrCodeHistory          = "E205" // History database error
)

// classify maps an error from the conversion stack onto an output code and
// an exit code.
func classify(err error) (code string, exit int) {
	switch {
	case convert.IsConflictingInput(err):
		return ErrCodeConflictingInput, ExitCommandError
	case convert.IsInvalidInput(err), calendar.IsInvalidCalendar(err), gps.IsInvalidInstant(err):
		return ErrCodeInvalidInput, ExitFailure
	case leapsec.IsMalformedTable(err):
		return ErrCodeMalformedTable, ExitCommandError
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(formatter *OutputFormatter, err error) error {
	code, exit := classify(err)
	return failWith(formatter, code, exit, err)
}

func failWith(formatter *OutputFormatter, code string, exit int, err error) error {
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(exit, code, err)
}
