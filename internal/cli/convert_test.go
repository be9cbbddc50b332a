package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestConvert_Golden(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"convert_text_leap_boundary", []string{"convert", "--datetime", "2017-01-01 00:00:00"}},
		{"convert_json_leap_boundary", []string{"--format", "json", "convert", "--datetime", "2017-01-01 00:00:00"}},
		{"convert_yaml_gps_epoch", []string{"--format", "yaml", "convert", "--datetime", "1980-01-06 00:00:00"}},
		{"convert_text_year_doy", []string{"convert", "--year-doy", "2024,61.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, tt.args...)
			require.NoError(t, err)
			newGoldie(t).Assert(t, tt.name, []byte(stdout))
		})
	}
}

func TestConvert_Now(t *testing.T) {
	stdout, stderr, err := run(t, "convert", "--now")
	require.NoError(t, err)

	assert.Contains(t, stdout, "UTC:  2026-02-13 12:30:45\n")
	assert.Contains(t, stdout, "BJT:  2026-02-13 20:30:45\n")
	assert.Contains(t, stdout, "DOY:  44\n")
	assert.Contains(t, stdout, "WEEK: 2405\n")
	assert.Contains(t, stdout, "DOW:  5\n")
	assert.Contains(t, stdout, "TOW:  477063\n")

	// Past the last table entry the offset is extrapolated, and the warning
	// is logged even without --verbose.
	assert.Contains(t, stderr, "level=warning")
	assert.Contains(t, stderr, "code=EXTRAPOLATED")
	assert.NotContains(t, stdout, "EXTRAPOLATED")
}

func TestConvert_WarningsAreLogged(t *testing.T) {
	_, stderr, err := run(t, "convert", "--datetime", "1970-01-01 00:00:00")
	require.NoError(t, err)

	assert.Contains(t, stderr, "level=warning")
	assert.Contains(t, stderr, "code=EXTRAPOLATED")
	assert.Contains(t, stderr, "code=PRE_GPS_EPOCH")
}

func TestConvert_JSONWarnings(t *testing.T) {
	stdout, _, err := run(t, "--format", "json", "convert", "--gps-week-tow", "2405,475219")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ConvertOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "gps-week-tow", resp.Data.Kind)
	assert.Equal(t, "2026-02-13 12:00:01", resp.Data.UTC)
	assert.Equal(t, 2405, resp.Data.Week)
	assert.Equal(t, 475219.0, resp.Data.TOW)
	assert.Equal(t, 18, resp.Data.Offset)
	assert.Equal(t, []string{"EXTRAPOLATED"}, resp.Data.Warnings)
}

func TestConvert_AllInputKinds(t *testing.T) {
	tests := []struct {
		flag  string
		value string
		want  string
	}{
		{"--datetime", "2024-03-01 12:00:00", "UTC:  2024-03-01 12:00:00\n"},
		{"--mjd", "60370.5", "UTC:  2024-03-01 12:00:00\n"},
		{"--bjt", "2024-03-01 20:00:00", "UTC:  2024-03-01 12:00:00\n"},
		{"--year-doy", "2024,61.5", "UTC:  2024-03-01 12:00:00\n"},
		{"--gps-week-tow", "2303,475218", "UTC:  2024-03-01 12:00:00\n"},
		{"--gps-week-dow", "2303,5", "UTC:  2024-02-29 23:59:42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			stdout, _, err := run(t, "convert", tt.flag, tt.value)
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.want)
		})
	}
}

func TestConvert_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantExit int
		wantCode string
	}{
		{"no input", []string{"convert"}, ExitCommandError, ErrCodeConflictingInput},
		{"two inputs", []string{"convert", "--now", "--mjd", "60000"}, ExitCommandError, ErrCodeConflictingInput},
		{"not a leap year", []string{"convert", "--datetime", "2023-02-29 00:00:00"}, ExitFailure, ErrCodeInvalidInput},
		{"garbage mjd", []string{"convert", "--mjd", "sixty"}, ExitFailure, ErrCodeInvalidInput},
		{"day of week out of range", []string{"convert", "--gps-week-dow", "2000,7"}, ExitFailure, ErrCodeInvalidInput},
		{"negative week", []string{"convert", "--gps-week-tow", "-1,10"}, ExitFailure, ErrCodeInvalidInput},
		{"tow past end of week", []string{"convert", "--gps-week-tow", "2000,604800"}, ExitFailure, ErrCodeInvalidInput},
		{"week past year 9999", []string{"convert", "--gps-week-tow", "2635249153387078803,0"}, ExitFailure, ErrCodeInvalidInput},
		{"malformed bjt", []string{"convert", "--bjt", "2024/01/01"}, ExitFailure, ErrCodeInvalidInput},
		{"missing table file", []string{"--leap-second-file", "/nonexistent/GPSUTC.BSW", "convert", "--now"}, ExitCommandError, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error ["+tt.wantCode+"]")
		})
	}
}

func TestConvert_JSONErrorEnvelope(t *testing.T) {
	stdout, stderr, err := run(t, "--format", "json", "convert", "--datetime", "2024-13-01 00:00:00")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Empty(t, stderr)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidInput, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "month")
}

func TestConvert_MalformedTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "GPSUTC.BSW")
	require.NoError(t, os.WriteFile(path, []byte(" 17. 2015 07 01 00 00 00.00\n 16. 2012 07 01 00 00 00.00\n"), 0o644))

	_, stderr, err := run(t, "--leap-second-file", path, "convert", "--now")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E203]")
}

func TestConvert_CustomTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "GPSUTC.BSW")
	table := "DIFFERENCE     VALID SINCE\n" +
		"  0.          1980 01 01 00 00 00.00\n" +
		" 19.          2026 01 01 00 00 00.00\n" +
		" 20.          2027 01 01 00 00 00.00\n"
	require.NoError(t, os.WriteFile(path, []byte(table), 0o644))

	stdout, _, err := run(t, "--format", "json", "--leap-second-file", path, "convert", "--datetime", "2026-02-13 12:00:00")
	require.NoError(t, err)

	var resp struct {
		Data ConvertOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, 19, resp.Data.Offset)
	assert.Equal(t, 475219.0, resp.Data.TOW)
	assert.Equal(t, path+" (flag)", resp.Data.LeapSource)
	assert.Empty(t, resp.Data.Warnings)
}

func TestConvert_Record(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	stdout, _, err := run(t, "--format", "json", "convert", "--gps-week-tow", "2405,475219", "--record", db)
	require.NoError(t, err)

	var resp struct {
		Data ConvertOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.NotEmpty(t, resp.Data.RecordID)

	stdout, _, err = run(t, "--format", "json", "history", "--db", db)
	require.NoError(t, err)

	var hist struct {
		Data HistoryOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &hist))
	require.Len(t, hist.Data.Records, 1)
	assert.Equal(t, resp.Data.RecordID, hist.Data.Records[0].ID)
	assert.Equal(t, "gps-week-tow", hist.Data.Records[0].Kind)
	assert.Equal(t, "2405,475219", hist.Data.Records[0].Input)
	assert.Equal(t, "bundled", hist.Data.Records[0].TableSource)
	assert.Equal(t, resp.Data.Fields, hist.Data.Records[0].Result)
	assert.Equal(t, []string{"EXTRAPOLATED"}, hist.Data.Records[0].Warnings)
}

func TestConvert_RecordFailure(t *testing.T) {
	db := filepath.Join(t.TempDir(), "missing-dir", "history.db")

	_, stderr, err := run(t, "convert", "--now", "--record", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E205]")
}

func TestConvert_BJTErrorNamesBJT(t *testing.T) {
	_, stderr, err := run(t, "convert", "--bjt", "2024/01/01 08:00:00")
	require.Error(t, err)
	assert.Contains(t, stderr, `INVALID_INPUT: bjt "2024/01/01 08:00:00"`)
}
