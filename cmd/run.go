package cmd

import (
	"errors"
	"os"

	"github.com/itsmostafa/gobf/internal/bf"
	"github.com/itsmostafa/gobf/internal/config"
	"github.com/itsmostafa/gobf/internal/logs"
	"github.com/itsmostafa/gobf/internal/session"
	"github.com/spf13/cobra"
)

// ErrMissingArgument is returned when no program file is given
var ErrMissingArgument = errors.New("missing program file argument")

var (
	configPath  string
	permissive  bool
	wrapCursor  bool
	eofPolicy   string
	rawOutput   bool
	maxSteps    int
	showStats   bool
	dumpTape    bool
	checkOnly   bool
	logLevel    string
	logFile     string
	journalLogs bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a program file",
	Long:  `Translate the program file and run it against stdin and stdout.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return ErrMissingArgument
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		interp, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logOpts := interp.LogOptions()
		logOpts.Terminal = cmd.ErrOrStderr()
		logger, closeLog, err := logs.New(logOpts)
		if err != nil {
			return err
		}
		defer closeLog()

		return session.Run(cmd.Context(), session.Config{
			SourcePath: args[0],
			Interp:     interp,
			Stdin:      cmd.InOrStdin(),
			Stdout:     cmd.OutOrStdout(),
			Stderr:     cmd.ErrOrStderr(),
			ShowStats:  showStats,
			DumpTape:   dumpTape,
			CheckOnly:  checkOnly,
			Logger:     logger,
		})
	},
}

// loadConfig layers the config file, the environment and explicitly set flags
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := configPath
	if !cmd.Flags().Changed("config") {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("permissive") {
		cfg.Mode = bf.Strict
		if permissive {
			cfg.Mode = bf.Permissive
		}
	}
	if flags.Changed("wrap") {
		cfg.Cursor = bf.CursorFail
		if wrapCursor {
			cfg.Cursor = bf.CursorWrap
		}
	}
	if flags.Changed("eof") {
		cfg.EOF = bf.EOFPolicy(eofPolicy)
	}
	if flags.Changed("raw-output") {
		cfg.Encoding = bf.EncodingCodepoint
		if rawOutput {
			cfg.Encoding = bf.EncodingRaw
		}
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("journal") {
		cfg.Journal = journalLogs
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (env "+config.EnvConfig+")")
	runCmd.Flags().BoolVar(&permissive, "permissive", false, "Skip unrecognized characters instead of rejecting them")
	runCmd.Flags().BoolVar(&wrapCursor, "wrap", false, "Wrap the cursor around the tape ends instead of failing")
	runCmd.Flags().StringVar(&eofPolicy, "eof", "fail", "Input exhaustion policy (fail, zero, keep) (env "+config.EnvEOF+")")
	runCmd.Flags().BoolVar(&rawOutput, "raw-output", false, "Write cells as raw bytes instead of code points")
	runCmd.Flags().IntVarP(&maxSteps, "max-steps", "n", 0, "Maximum number of executed instructions (0 = unlimited)")
	runCmd.Flags().BoolVar(&showStats, "stats", false, "Print a run summary to stderr")
	runCmd.Flags().BoolVar(&dumpTape, "dump", false, "Print the tape around the cursor to stderr after the run")
	runCmd.Flags().BoolVar(&checkOnly, "check", false, "Translate and validate loop nesting without running")

	// Logging flags with env var fallback
	runCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error) (env "+config.EnvLogLevel+")")
	runCmd.Flags().StringVar(&logFile, "log-file", "", "Append JSON log records to this file")
	runCmd.Flags().BoolVar(&journalLogs, "journal", false, "Also send log records to the systemd journal")

	rootCmd.AddCommand(runCmd)
}
