package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/stagehand/internal/commands"
	"github.com/colonyops/stagehand/internal/core/config"
	"github.com/colonyops/stagehand/internal/core/logging"
	"github.com/colonyops/stagehand/internal/core/planmode"
	"github.com/colonyops/stagehand/internal/core/todo"
	"github.com/colonyops/stagehand/internal/host"
	"github.com/colonyops/stagehand/internal/stagehand"
	"github.com/colonyops/stagehand/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		shApp     = &stagehand.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "stagehand",
		Usage:     "Plan-mode workflow control and flat-file todos for agent sessions",
		UsageText: "stagehand [global options] command [command options]",
		Description: `Stagehand gates an agent session through a two-phase workflow: a
read-only planning phase that writes a single plan artifact, then a
tracked execution phase that follows the plan's numbered steps. It also
keeps a store of flat-file todo records with advisory locking.

Run 'stagehand plan enter' to start planning.
Run 'stagehand todo list' to see open records.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("STAGEHAND_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/stagehand.log)",
				Sources:     cli.EnvVars("STAGEHAND_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("STAGEHAND_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("STAGEHAND_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "session",
				Usage:       "session id for locks and plan state",
				Sources:     cli.EnvVars("STAGEHAND_SESSION"),
				Value:       "default",
				Destination: &flags.Session,
			},
			&cli.StringFlag{
				Name:        "todo-dir",
				Usage:       "override the todo record directory",
				Sources:     cli.EnvVars("STAGEHAND_TODO_DIR"),
				Destination: &flags.TodoDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/stagehand.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "stagehand.log")
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.TodoDir != "" {
				cfg.Todo.Dir = flags.TodoDir
			}

			logLevel := flags.LogLevel
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}

			logger, closer, err := logutils.New(logLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			flags.Config = cfg

			todoDir := cfg.TodoDir()
			sessionDir := filepath.Join(cfg.DataDir, "sessions")
			for _, dir := range []string{todoDir, sessionDir} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return ctx, fmt.Errorf("create %s: %w", dir, err)
				}
			}

			h := host.NewFileHost(sessionDir, flags.Session, logging.Session("host", flags.Session))

			// Stale-lock reclaim prompts only make sense on a terminal.
			var confirm todo.ConfirmFunc
			if term.IsTerminal(int(os.Stdin.Fd())) {
				confirm = h.UI().Confirm
			}

			todoLog := logging.Session("todo", flags.Session)
			locks := todo.NewLockManager(todoDir, flags.Session, cfg.Todo.LockTTL, confirm, todoLog)
			store := todo.NewStore(todoDir, locks, todoLog)

			planSvc := stagehand.NewPlanService(h, planmode.Config{
				PlanDir:         cfg.PlanDir(),
				WriteAllowGlobs: cfg.Plan.WriteAllowGlobs,
			}, logging.Session("plan", flags.Session))

			if err := planSvc.Restore(false); err != nil {
				log.Warn().Err(err).Msg("restore plan state")
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*shApp = *stagehand.NewApp(
				planSvc,
				stagehand.NewTodoService(store, logger),
				cfg,
				h,
			)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewPlanCmd(flags, shApp).Register(app)
	app = commands.NewTodoCmd(flags, shApp).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
