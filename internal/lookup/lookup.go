// Package lookup resolves an error tag to its help text by invoking the
// external diagnostic-lookup tool.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/regtriage/internal/diagnostic"
	"github.com/JaimeStill/regtriage/pkg/process"
)

// NoOutput is returned when the tool prints nothing on either stream.
const NoOutput = "No output."

// System looks up help text for error tags.
type System interface {
	Handler() *Handler
	Lookup(ctx context.Context, tag string) (string, error)
}

// Client runs the lookup tool through a process runner.
type Client struct {
	runner  process.Runner
	command string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a lookup client invoking command under timeout.
func New(runner process.Runner, command string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		runner:  runner,
		command: command,
		timeout: timeout,
		logger:  logger.With("system", "lookup"),
	}
}

func (c *Client) Handler() *Handler {
	return NewHandler(c, c.logger)
}

// Lookup validates tag and returns the tool's trimmed stdout, its trimmed
// stderr when stdout is empty, or NoOutput. A non-zero exit status still
// returns the output; failing to start or timing out is an error.
func (c *Client) Lookup(ctx context.Context, tag string) (string, error) {
	if err := diagnostic.Validate(tag); err != nil {
		return "", ErrInvalidTag
	}

	res, err := c.runner.Run(ctx, process.Command{
		Args:    []string{c.command, tag},
		Timeout: c.timeout,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "lookup failed", "tag", tag, "error", err)
		return "", fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	if out := strings.TrimSpace(res.Stdout); out != "" {
		return out, nil
	}
	if out := strings.TrimSpace(res.Stderr); out != "" {
		return out, nil
	}
	return NoOutput, nil
}
