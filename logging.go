package poseidoninv

import (
	"os"

	"github.com/rs/zerolog"
)

// logger carries the diagnostic emitted when a batched inversion meets a zero
// operand. The condition is statistically negligible on honest input, so it
// is worth a trace when it does fire.
var logger = zerolog.New(os.Stderr).With().Timestamp().Str("lib", "poseidoninv").Logger()

// SetLogger replaces the package diagnostic logger.
func SetLogger(l zerolog.Logger) {
	logger = l
}
