package unittest

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var verbose = flag.Bool("verbose-tests", false, "emit debug logs from components under test")

// Logger returns the logger handed to components under test. Its output
// is swallowed unless the -verbose-tests flag is set, so a failing run
// shows assertions rather than component chatter.
func Logger() zerolog.Logger {
	writer := io.Discard
	if *verbose {
		writer = os.Stderr
	}
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	return zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
