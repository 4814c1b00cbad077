package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aqasim81/sql-script-runner/internal/parser"
	"github.com/aqasim81/sql-script-runner/internal/script"
)

// Progress status constants reported via ProgressEvent.
const (
	StatusStarting  = "starting"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// ProgressEvent is emitted by the runner for each script processed.
type ProgressEvent struct {
	Script     string
	Path       string
	Status     string
	Duration   time.Duration
	Statements int // -1 when the statement count is unknown
	Error      error
}

// Conn is the part of *pgx.Conn the runner uses.
type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Close(ctx context.Context) error
}

// ConnectFunc opens a new connection to the target database.
type ConnectFunc func(ctx context.Context) (Conn, error)

// Runner executes SQL scripts one at a time, each on its own connection.
type Runner struct {
	scriptsDir      string
	connect         ConnectFunc
	onProgress      func(ProgressEvent)
	countStatements func(sql string) (int, error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgressCallback sets a function called as each script starts and ends.
func WithProgressCallback(fn func(ProgressEvent)) Option {
	return func(r *Runner) { r.onProgress = fn }
}

// WithStatementCounter replaces the parser used to count statements for
// completed events.
func WithStatementCounter(fn func(sql string) (int, error)) Option {
	return func(r *Runner) { r.countStatements = fn }
}

// New creates a Runner that resolves script names against scriptsDir and
// opens connections with connect.
func New(scriptsDir string, connect ConnectFunc, opts ...Option) *Runner {
	r := &Runner{
		scriptsDir: scriptsDir,
		connect:    connect,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.countStatements == nil {
		r.countStatements = parser.CountStatements
	}

	return r
}

// Run executes the named scripts in order. Missing scripts are skipped.
// The first failure stops the run; later scripts are never attempted.
func (r *Runner) Run(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := r.RunOne(ctx, name); err != nil {
			return err
		}
	}

	return nil
}

// RunOne executes a single script. A script that does not exist is
// reported as skipped and is not an error. Any other failure is returned
// as a *ScriptError. The connection is closed before RunOne returns.
func (r *Runner) RunOne(ctx context.Context, name string) error {
	path, err := script.Resolve(r.scriptsDir, name)
	if err != nil {
		if errors.Is(err, script.ErrNotFound) {
			r.fireProgress(ProgressEvent{Script: name, Path: path, Status: StatusSkipped, Error: err})
			return nil
		}

		return &ScriptError{Script: name, Err: err}
	}

	r.fireProgress(ProgressEvent{Script: name, Path: path, Status: StatusStarting})

	start := time.Now()
	s, execErr := r.execute(ctx, name, path)
	duration := time.Since(start)

	if execErr != nil {
		r.fireProgress(ProgressEvent{
			Script:   name,
			Path:     path,
			Status:   StatusFailed,
			Duration: duration,
			Error:    execErr,
		})

		return &ScriptError{Script: name, Err: execErr}
	}

	r.fireProgress(ProgressEvent{
		Script:     name,
		Path:       path,
		Status:     StatusCompleted,
		Duration:   duration,
		Statements: r.statementCount(s.SQL),
	})

	return nil
}

// execute opens a connection, reads the script and sends it as one batch.
// With no arguments pgx uses the simple query protocol, so a script may
// hold several statements and each commits as it runs.
func (r *Runner) execute(ctx context.Context, name, path string) (*script.Script, error) {
	conn, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx) //nolint:errcheck // nothing to recover once the script has run

	s, err := script.Read(name, path)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(s.SQL) == "" {
		return nil, ErrEmptyScript
	}

	if _, err := conn.Exec(ctx, s.SQL); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}

	return s, nil
}

func (r *Runner) statementCount(sql string) int {
	n, err := r.countStatements(sql)
	if err != nil {
		return -1
	}

	return n
}

func (r *Runner) fireProgress(event ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(event)
	}
}
