package executor

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrExecutionFailed indicates the server rejected a script's SQL.
var ErrExecutionFailed = errors.New("script execution failed")

// ErrEmptyScript indicates a script file holds nothing but whitespace.
var ErrEmptyScript = errors.New("can't execute an empty query")

// ScriptError reports the script that aborted the run and why.
type ScriptError struct {
	Script string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("executing script %s: %v", e.Script, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// PgError returns the server-side error behind e, if there is one.
func (e *ScriptError) PgError() *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr
	}

	return nil
}
