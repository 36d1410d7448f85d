package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/gogpu/tear/internal/config"
)

// newTestCLI returns a CLI with default configuration that logs to a
// buffer instead of stderr.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.IntroDelay = 50 * time.Millisecond
	return &CLI{Logger: newLogger(&buf, LogInfo), Config: cfg}, &buf
}

// testSession builds a two-image demo session with short runs.
func testSession(t *testing.T, c *CLI) *session {
	t.Helper()
	s, err := c.newSession(context.Background(), sessionOpts{
		demo:     2,
		duration: 100 * time.Millisecond,
		ease:     "power2.out",
		seed:     7,
	}, nil)
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}
	return s
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
