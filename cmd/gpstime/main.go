// Command gpstime converts instants between UTC, Beijing Time, MJD,
// year/day-of-year and GPS week/time-of-week.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/gpstime/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Command errors were already reported through the output formatter.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
