package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/optimisable/internal/cli"
	"github.com/julianstephens/optimisable/internal/config"
	"github.com/julianstephens/optimisable/internal/constants"
	apperrors "github.com/julianstephens/optimisable/internal/errors"
	"github.com/julianstephens/optimisable/internal/instruction"
	"github.com/julianstephens/optimisable/internal/llm"
	"github.com/julianstephens/optimisable/internal/logger"
	"github.com/julianstephens/optimisable/internal/scenario"
	"github.com/julianstephens/optimisable/internal/scheduler"
	"github.com/julianstephens/optimisable/internal/session"
	"github.com/julianstephens/optimisable/internal/solver"
)

var CLI struct {
	Version      kong.VersionFlag
	ConfigDir    string        `help:"Directory holding the scenario file and logs." default:"~/.config/optimisable" env:"OPTIMISABLE_CONFIG_DIR"`
	Scenario     string        `help:"Scenario file. Relative names are looked up in the config directory." default:"scenario.yaml" env:"OPTIMISABLE_SCENARIO"`
	Solver       string        `help:"Solver backend (${solvers})." default:"flow" env:"OPTIMISABLE_SOLVER"`
	SolveTimeout time.Duration `help:"Deadline for a single optimisation run." default:"30s" env:"OPTIMISABLE_SOLVE_TIMEOUT"`
	Debug        bool          `help:"Log at debug level and mirror logs to stderr." env:"OPTIMISABLE_DEBUG"`
	LogLevel     string        `help:"Override the log level (debug, info, warn, error)." env:"OPTIMISABLE_LOG_LEVEL"`

	LLMBaseURL string        `name:"llm-base-url" help:"Base URL(s) of the chat completions API, comma separated and tried in order." default:"${llm_base_url}" env:"OPTIMISABLE_LLM_BASE_URL"`
	LLMModel   string        `name:"llm-model" help:"Model name sent to the generation service." default:"${llm_model}" env:"OPTIMISABLE_LLM_MODEL"`
	LLMAPIKey  string        `name:"llm-api-key" help:"API key of the generation service. Falls back to OPENAI_API_KEY, then the OS keyring." env:"OPTIMISABLE_LLM_API_KEY"`
	LLMTimeout time.Duration `name:"llm-timeout" help:"Deadline for one generation request." default:"30s" env:"OPTIMISABLE_LLM_TIMEOUT"`
	NoLLM      bool          `name:"no-llm" help:"Interpret instructions with the command parser only." env:"OPTIMISABLE_NO_LLM"`

	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Solve    cli.SolveCmd    `cmd:"" help:"Compute the minimum cost schedule."`
	Show     cli.ShowCmd     `cmd:"" help:"Show the loaded staff and demand."`
	Apply    cli.ApplyCmd    `cmd:"" help:"Apply one instruction and re-solve."`
	Chat     cli.ChatCmd     `cmd:"" help:"Send instructions interactively from the terminal."`
	Validate cli.ValidateCmd `cmd:"" help:"Check staff and demand for conflicts."`
	Init     cli.InitCmd     `cmd:"" help:"Write the built-in week to the scenario file."`
	Serve    cli.ServeCmd    `cmd:"" help:"Serve the JSON HTTP API."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage scenario file backups."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the generation API key in the OS keyring."`
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly workforce scheduler with a natural-language assistant"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"solvers":      strings.Join(solver.Names(), ", "),
			"llm_base_url": constants.DefaultLLMBaseURL,
			"llm_model":    constants.DefaultLLMModel,
		},
	)

	appCtx, err := setup(ctx.Command())
	if err != nil {
		os.Exit(apperrors.Report(os.Stderr, err))
	}

	if err := ctx.Run(appCtx); err != nil {
		os.Exit(apperrors.Report(os.Stderr, err))
	}
}

func setup(command string) (*cli.Context, error) {
	configDir, err := config.ConfigDir(CLI.ConfigDir)
	if err != nil {
		return nil, err
	}

	// The TUI owns the terminal, so logs only go to the file there.
	level := CLI.LogLevel
	debug := CLI.Debug
	if debug && command == "tui" {
		debug = false
		if level == "" {
			level = "debug"
		}
	}
	if err := logger.Init(logger.Config{
		Debug:     debug,
		ConfigDir: configDir,
		Level:     level,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	backend, err := solver.New(CLI.Solver)
	if err != nil {
		return nil, apperrors.Usage(err)
	}
	engine := scheduler.New(backend)

	scenarioPath := config.ScenarioPath(configDir, CLI.Scenario)
	ws, fromFile, err := scenario.LoadOrDefault(scenarioPath)
	if err != nil {
		// doctor reports the broken file and init replaces it
		if command != "doctor" && command != "init" {
			return nil, err
		}
		logger.Warn("falling back to the built-in week", "scenario", scenarioPath, "error", err)
		ws = scenario.Default()
	}

	key, source := config.ResolveAPIKey(CLI.LLMAPIKey)
	llmCfg := llm.Config{
		BaseURL: CLI.LLMBaseURL,
		Model:   CLI.LLMModel,
		APIKey:  key,
		Timeout: CLI.LLMTimeout,
	}

	var gen instruction.Generator
	assistant := !CLI.NoLLM && key != ""
	if assistant {
		gen = llm.NewAssistant(llm.NewHTTPClient(llmCfg), llmCfg.Model)
	}
	logger.Debug("startup",
		"command", command,
		"solver", engine.SolverName(),
		"scenario", scenarioPath,
		"from_file", fromFile,
		"assistant", assistant,
		"key_source", source,
	)

	sess := session.New(engine, instruction.NewPipeline(gen), ws)
	sess.SetSolveTimeout(CLI.SolveTimeout)

	return &cli.Context{
		Session:      sess,
		Engine:       engine,
		ConfigDir:    configDir,
		ScenarioPath: scenarioPath,
		FromFile:     fromFile,
		SolveTimeout: CLI.SolveTimeout,
		LLM:          llmCfg,
		KeySource:    source,
		Assistant:    assistant,
	}, nil
}
