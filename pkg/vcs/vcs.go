// Package vcs runs the git operations pandoradep needs: cloning resolved
// repositories and publishing an updated registry snapshot.
//
// Every command goes through a [Runner] so callers can substitute a fake.
// Commands run with an explicit working directory; the process working
// directory is never changed.
package vcs

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
)

// Runner executes a command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, streaming their output to a logger.
type ExecRunner struct {
	logger *log.Logger
}

// NewExecRunner creates an ExecRunner. A nil logger discards command output.
func NewExecRunner(logger *log.Logger) *ExecRunner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ExecRunner{logger: logger}
}

// Run runs name with args in dir and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	stdoutLog, stderrLog := &logWriter{logger: r.logger}, &logWriter{logger: r.logger}
	cmd.Stdout = stdoutLog
	cmd.Stderr = io.MultiWriter(&stderr, stderrLog)

	r.logger.Debug("+ "+name+" "+strings.Join(args, " "), "dir", dir)
	err := cmd.Run()
	stdoutLog.Flush()
	stderrLog.Flush()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return errors.Wrap(errors.ErrCodeVCS, err, "%s %s: %s", name, strings.Join(args, " "), msg)
	}
	return nil
}

// logWriter logs command output one line per entry. Output arrives in
// arbitrary chunks, so an unterminated tail is held until its newline or
// until Flush.
type logWriter struct {
	logger  *log.Logger
	partial []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.partial = append(w.partial, p...)
	for {
		i := bytes.IndexByte(w.partial, '\n')
		if i < 0 {
			break
		}
		w.emit(w.partial[:i])
		w.partial = w.partial[i+1:]
	}
	return len(p), nil
}

// Flush logs any output left without a trailing newline.
func (w *logWriter) Flush() {
	w.emit(w.partial)
	w.partial = nil
}

func (w *logWriter) emit(line []byte) {
	if s := strings.TrimSpace(string(line)); s != "" {
		w.logger.Debug(s)
	}
}

var _ Runner = (*ExecRunner)(nil)
