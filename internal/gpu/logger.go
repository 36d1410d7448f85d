package gpu

import (
	"log/slog"

	"github.com/gogpu/tear"
)

// slogger returns the logger installed with tear.SetLogger.
// All logging in internal/gpu goes through this function.
func slogger() *slog.Logger { return tear.Logger() }
