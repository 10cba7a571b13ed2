// Package evidence reads the two sources that identify which build or run
// step failed for a testcase: the status log written by the run, and the
// build tool's dry-run execution plan.
package evidence

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/JaimeStill/regtriage/pkg/process"
)

const (
	// StatusLog is the per-testcase status log file name.
	StatusLog = "status.log"
	// DiffSuffix marks a diff artifact produced for a build step.
	DiffSuffix = ".diff.bak"

	planLogMarker = "testresults/logs"
)

var statusPattern = regexp.MustCompile(`EXIT STATUS for (\w+) is 5`)

// DefaultMaxLineSize bounds a single status log line when Planner.MaxLineSize
// is zero.
const DefaultMaxLineSize = 1024 * 1024

// ReadStatusFailure scans the status log of dir with the default line size
// limit.
func ReadStatusFailure(dir string) (string, bool) {
	return Planner{}.ReadStatusFailure(dir)
}

// Planner gathers the failure evidence of a testcase directory: the status
// log and, as a fallback, the dry-run execution plan.
type Planner struct {
	Runner      process.Runner
	Command     []string
	Timeout     time.Duration
	MaxLineSize int
	Logger      *slog.Logger
}

// ReadStatusFailure returns the command named by the first "EXIT STATUS for
// <command> is 5" line of the testcase's status log. A missing log, a log
// without such a line, or a line beyond MaxLineSize yields no command.
func (p Planner) ReadStatusFailure(dir string) (string, bool) {
	path := filepath.Join(dir, StatusLog)
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	limit := p.MaxLineSize
	if limit <= 0 {
		limit = DefaultMaxLineSize
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, min(64*1024, limit)), limit)

	for scanner.Scan() {
		if m := statusPattern.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1], true
		}
	}
	if err := scanner.Err(); err != nil {
		p.debug("status log unreadable", "path", path, "error", err)
	}
	return "", false
}

// ReadPlannedFailure runs the dry-run command in dir and returns the first
// planned step whose diff artifact is present in diffs. Any failure of the
// dry-run itself yields no command and is only logged.
func (p Planner) ReadPlannedFailure(ctx context.Context, dir string, diffs map[string]struct{}) (string, bool) {
	if len(p.Command) == 0 || len(diffs) == 0 {
		return "", false
	}

	res, err := p.Runner.Run(ctx, process.Command{
		Args:    p.Command,
		Dir:     dir,
		Timeout: p.Timeout,
	})
	if err != nil {
		p.debug("dry-run failed", "dir", dir, "error", err)
		return "", false
	}
	if res.ExitCode != 0 {
		p.debug("dry-run exited non-zero", "dir", dir, "exit_code", res.ExitCode)
		return "", false
	}

	for line := range strings.Lines(res.Stdout) {
		if !strings.Contains(line, planLogMarker) || !strings.Contains(line, ">") {
			continue
		}
		base := planStepName(line)
		if base == "" {
			continue
		}
		if _, ok := diffs[base+DiffSuffix]; ok {
			return base, true
		}
	}
	return "", false
}

func (p Planner) debug(msg string, args ...any) {
	if p.Logger != nil {
		p.Logger.Debug(msg, args...)
	}
}

// planStepName extracts the step name from a plan line that redirects into a
// log file, e.g. "cmd > testresults/logs/log_buildstep.log" yields "buildstep".
func planStepName(line string) string {
	target := strings.TrimSpace(line[strings.LastIndex(line, ">")+1:])
	if i := strings.LastIndex(target, "/"); i >= 0 {
		target = target[i+1:]
	}
	if len(target) >= 4 && strings.EqualFold(target[:4], "log_") {
		target = target[4:]
	}
	if n := len(target); n >= 4 && strings.EqualFold(target[n-4:], ".log") {
		target = target[:n-4]
	}
	return target
}

// Resolve applies the evidence precedence: the status log wins, the planned
// step is the fallback.
func Resolve(status, planned string) string {
	if status != "" {
		return status
	}
	return planned
}

// DiffArtifacts returns the set of diff artifact file names in dir.
func DiffArtifacts(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	diffs := make(map[string]struct{})
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), DiffSuffix) {
			diffs[e.Name()] = struct{}{}
		}
	}
	return diffs, nil
}

// FailingCommand determines the failing command of the testcase in dir.
// The dry-run is only consulted when the status log names no command.
func (p Planner) FailingCommand(ctx context.Context, dir string, diffs map[string]struct{}) (string, bool) {
	if cmd, ok := p.ReadStatusFailure(dir); ok {
		return cmd, true
	}
	planned, _ := p.ReadPlannedFailure(ctx, dir, diffs)
	cmd := Resolve("", planned)
	return cmd, cmd != ""
}
