package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aqasim81/sql-script-runner/internal/config"
	"github.com/aqasim81/sql-script-runner/internal/database"
	"github.com/aqasim81/sql-script-runner/internal/executor"
)

// connector returns the function the runner uses to open one connection
// per script. Tests swap it for a fake.
var connector = func(databaseURL string) executor.ConnectFunc { //nolint:gochecknoglobals // test seam
	return func(ctx context.Context) (executor.Conn, error) {
		conn, err := database.Connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}

		return conn, nil
	}
}

func runScripts(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	printLayout(out, cfg.Layout)

	if err := cfg.Connection.Validate(); err != nil {
		return err
	}

	databaseURL := cfg.Connection.URL()
	if _, err := database.ParseConfig(databaseURL); err != nil {
		return err
	}

	scripts, err := loadScriptList(cfg.Layout.ConfigFile, out, errOut)
	if err != nil || scripts == nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Fprintf(out, "Target database: %s\n", cfg.Connection.Redacted())
	fmt.Fprintf(out, "Starting execution of %d script(s) defined in %s\n", len(scripts), cfg.Layout.ConfigFile)

	runner := executor.New(cfg.Layout.ScriptsDir, connector(databaseURL),
		executor.WithProgressCallback(progressPrinter(out, errOut, cfg.Layout.ScriptsDir, cfg.Verbose)),
	)

	if err := runner.Run(ctx, scripts); err != nil {
		printServerDetail(errOut, err)
		return err
	}

	fmt.Fprintln(out, "\nAll scripts processed successfully.")

	return nil
}

func printLayout(out io.Writer, l config.Layout) {
	fmt.Fprintf(out, "Program dir:  %s\n", l.ProgramDir)
	fmt.Fprintf(out, "Project root: %s\n", l.ProjectRoot)
	fmt.Fprintf(out, "Scripts dir:  %s\n", l.ScriptsDir)
	fmt.Fprintf(out, "Config file:  %s\n", l.ConfigFile)
}

// loadScriptList returns nil, nil when the file lists no scripts.
func loadScriptList(path string, out, errOut io.Writer) ([]string, error) {
	fmt.Fprintf(out, "Reading scripts configuration from %s\n", path)

	list, err := config.LoadScripts(path)
	if err != nil {
		return nil, fmt.Errorf("loading scripts: %w", err)
	}

	if list.Ignored > 0 {
		fmt.Fprintf(errOut, "WARNING: ignored %d non-string entries under scripts.\n", list.Ignored)
	}

	if len(list.Scripts) == 0 {
		fmt.Fprintf(errOut, "WARNING: no scripts listed in %s. Nothing was executed.\n", path)
		return nil, nil //nolint:nilnil // nil,nil signals "no scripts, no error"
	}

	return list.Scripts, nil
}

func progressPrinter(out, errOut io.Writer, scriptsDir string, verbose bool) func(executor.ProgressEvent) {
	return func(event executor.ProgressEvent) {
		switch event.Status {
		case executor.StatusStarting:
			fmt.Fprintf(out, "-> Executing script: %s\n", event.Path)
		case executor.StatusSkipped:
			fmt.Fprintf(errOut, "WARNING: SQL file '%s' not found in %s. Skipping.\n", event.Script, scriptsDir)
		case executor.StatusCompleted:
			if !verbose {
				fmt.Fprintf(out, "   Script %s executed successfully.\n", event.Script)
				return
			}

			fmt.Fprintf(out, "   Script %s executed successfully (%s, %s).\n",
				event.Script, describeCount(event.Statements), event.Duration.Truncate(time.Millisecond))
		case executor.StatusFailed:
			fmt.Fprintf(out, "   Script %s FAILED after %s\n", event.Script, event.Duration.Truncate(time.Millisecond))
		}
	}
}

func describeCount(n int) string {
	switch {
	case n < 0:
		return "statement count unknown"
	case n == 1:
		return "1 statement"
	default:
		return fmt.Sprintf("%d statements", n)
	}
}

// printServerDetail adds the server's DETAIL, HINT and error position
// when the failure came from PostgreSQL.
func printServerDetail(errOut io.Writer, err error) {
	var scriptErr *executor.ScriptError
	if !errors.As(err, &scriptErr) {
		return
	}

	pgErr := scriptErr.PgError()
	if pgErr == nil {
		return
	}

	if pgErr.Detail != "" {
		fmt.Fprintf(errOut, "  DETAIL: %s\n", pgErr.Detail)
	}

	if pgErr.Hint != "" {
		fmt.Fprintf(errOut, "  HINT: %s\n", pgErr.Hint)
	}

	if pgErr.Position > 0 {
		fmt.Fprintf(errOut, "  at character %d of %s\n", pgErr.Position, scriptErr.Script)
	}
}
