package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// diagnosticTailBytes caps how much captured stderr a failed invocation
// carries forward. The actionable error usually appears last, so the tail
// is kept and the head discarded.
const diagnosticTailBytes = 500

// ExecResult holds the outcome of a single transcoder invocation. Success
// is defined solely by exit code 0; output integrity is not re-validated
// here.
type ExecResult struct {
	OK       bool
	TimedOut bool
	Tail     string // last diagnosticTailBytes of stderr, empty on success
}

// Execute runs one transcoder invocation synchronously. args[0] is the
// binary name. When timeout is positive the process is killed on expiry
// and the result is marked TimedOut; cleanup of partial outputs is the
// caller's responsibility, same as for any other failure.
func Execute(ctx context.Context, timeout time.Duration, args []string) ExecResult {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return ExecResult{OK: true}
	}

	res := ExecResult{Tail: Tail(stderr.String(), diagnosticTailBytes)}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		if res.Tail == "" {
			res.Tail = "transcoder killed after timeout " + timeout.String()
		}
	}
	return res
}

// Tail returns the last n bytes of s, truncating from the start.
func Tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
