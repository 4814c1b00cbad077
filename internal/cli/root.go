package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aqasim81/sql-script-runner/internal/config"
)

const version = "0.1.0"

// AppConfig holds the loaded configuration, set during PersistentPreRunE.
var AppConfig *config.Config //nolint:gochecknoglobals // standard Cobra pattern for shared config

// rootCmd is the base command for the runscripts CLI.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:     "runscripts",
	Version: version,
	Short:   "Execute an ordered list of SQL scripts against PostgreSQL",
	Long: `runscripts reads the list of SQL files under the "scripts" key of a YAML
file and executes each one, in order, on its own autocommit connection.
Missing files are skipped with a warning. The first database error stops
the run and exits with status 1.

Connection settings come from DB_HOST, DB_PORT, DB_USER, DB_PASS, DB_NAME
(also read from a .env file), overridden by flags.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runScripts,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	f := rootCmd.PersistentFlags()
	f.String("env-file", ".env", "dotenv file loaded before reading the environment")
	f.String("project-root", "", "project root holding scripts/ and config.yaml (default: two levels above the executable)")
	f.String("scripts-dir", "", "directory containing the SQL scripts")
	f.String("config", "", "YAML file listing the scripts to run")
	f.String("host", "", "database host (DB_HOST)")
	f.Int("port", 0, "database port (DB_PORT)")
	f.String("user", "", "database user (DB_USER)")
	f.String("password", "", "database password (DB_PASS)")
	f.String("dbname", "", "database name (DB_NAME)")
	f.String("sslmode", "", "libpq sslmode (DB_SSLMODE)")
	f.Duration("connect-timeout", 0, "connection timeout, e.g. 5s (DB_CONNECT_TIMEOUT)")
	f.Bool("verbose", false, "report statement counts and timings per script")
}

// Execute runs the root command. Called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// loadConfig builds configuration with precedence: flag > env > .env > defaults.
func loadConfig(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	allowMissing := !cmd.Flags().Changed("env-file")

	if err := loadEnvFile(envFile, allowMissing); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	cfg := config.New()
	config.MergeEnv(cfg)
	mergeFlags(cmd, cfg)

	AppConfig = cfg

	return nil
}

// loadEnvFile exports the variables in path without overriding ones
// already set in the environment.
func loadEnvFile(path string, allowMissing bool) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("reading env file %s: %w", path, err)
	}

	return nil
}

// mergeFlags overrides config with explicitly-set CLI flags.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	conn := &cfg.Connection

	if flags.Changed("project-root") {
		root, _ := flags.GetString("project-root")
		cfg.Layout.SetProjectRoot(root)
	}

	if flags.Changed("scripts-dir") {
		cfg.Layout.ScriptsDir, _ = flags.GetString("scripts-dir")
	}

	if flags.Changed("config") {
		cfg.Layout.ConfigFile, _ = flags.GetString("config")
	}

	if flags.Changed("host") {
		conn.Host, _ = flags.GetString("host")
	}

	if flags.Changed("port") {
		conn.Port, _ = flags.GetInt("port")
	}

	if flags.Changed("user") {
		conn.User, _ = flags.GetString("user")
	}

	if flags.Changed("password") {
		conn.Password, _ = flags.GetString("password")
	}

	if flags.Changed("dbname") {
		conn.Database, _ = flags.GetString("dbname")
	}

	if flags.Changed("sslmode") {
		conn.SSLMode, _ = flags.GetString("sslmode")
	}

	if flags.Changed("connect-timeout") {
		conn.ConnectTimeout, _ = flags.GetDuration("connect-timeout")
	}

	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
}
