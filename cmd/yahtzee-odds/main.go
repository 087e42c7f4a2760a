package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/yahtzeeodds/internal/config"
	"github.com/lox/yahtzeeodds/internal/estimator"
	"github.com/lox/yahtzeeodds/internal/statistics"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"V" help:"Show version"`
	Trials   *int             `short:"n" help:"Number of turns to simulate (default 1,000,000)"`
	Seed     *int64           `help:"Random seed for reproducible results"`
	Workers  *int             `short:"w" help:"Worker goroutines (default one per CPU, capped at 8)"`
	Config   string           `short:"c" type:"path" help:"HCL run configuration file"`
	Progress *bool            `short:"p" help:"Print dot progress while simulating"`
	TUI      bool             `help:"Show a live progress UI"`
	Verbose  bool             `short:"v" help:"Verbose logging"`
}

var (
	// Style definitions
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("yahtzee-odds"),
		kong.Description("Monte Carlo estimator for the odds of rolling a Yahtzee in one turn of three rolls"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
	)

	cfg := config.DefaultRunConfig()
	if cli.Config != "" {
		loaded, err := config.LoadRunConfig(cli.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			ctx.Exit(1)
		}
		cfg = loaded
	}
	applyFlags(&cli, cfg)

	logger := setupLogger(cfg.Simulation.LogLevel, cli.Verbose)

	// Seed 0 means a fresh seed per invocation
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug("resolved settings",
		"trials", cfg.Simulation.Trials,
		"seed", seed,
		"workers", cfg.Simulation.Workers)

	runCtx, cancel := signalContext(logger)
	defer cancel()

	estConfig := estimator.Config{
		Trials:  cfg.Simulation.Trials,
		Seed:    seed,
		Workers: cfg.Simulation.Workers,
		Logger:  logger,
	}

	var stats *statistics.Statistics
	var err error
	startTime := time.Now()

	if cli.TUI {
		stats, err = runWithTUI(runCtx, cancel, estConfig)
	} else {
		var reporter *DotProgressReporter
		if cfg.Simulation.Progress {
			reporter = NewDotProgressReporter(estConfig.Trials, quartz.NewReal())
			estConfig.OnProgress = reporter.OnProgress
		}
		stats, err = estimator.New(estConfig).Run(runCtx)
		if reporter != nil && stats != nil {
			reporter.Finish(int64(stats.Trials))
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
	duration := time.Since(startTime)

	displayResults(stats, cfg.Simulation.Trials, seed, duration)
}

// applyFlags overlays explicitly set CLI flags onto the config file values.
func applyFlags(cli *CLI, cfg *config.RunConfig) {
	if cli.Trials != nil {
		cfg.Simulation.Trials = *cli.Trials
	}
	if cli.Seed != nil {
		cfg.Simulation.Seed = *cli.Seed
	}
	if cli.Workers != nil {
		cfg.Simulation.Workers = *cli.Workers
	}
	if cli.Progress != nil {
		cfg.Simulation.Progress = *cli.Progress
	}
}

func setupLogger(level string, verbose bool) *log.Logger {
	logLevel := log.InfoLevel
	switch level {
	case "debug":
		logLevel = log.DebugLevel
	case "warn":
		logLevel = log.WarnLevel
	case "error":
		logLevel = log.ErrorLevel
	}
	if verbose {
		logLevel = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Level: logLevel})
}

// signalContext returns a context cancelled on interrupt, so a long batch
// stops early and reports the partial estimate.
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		logger.Info("stopping early, reporting partial estimate", "signal", sig.String())
		cancel()
	}()

	return ctx, cancel
}

func displayResults(stats *statistics.Statistics, requested int, seed int64, duration time.Duration) {
	fmt.Printf("%s\n\n", headerStyle.Render("yahtzee in one turn"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\n",
		labelStyle.Render("p(yahtzee)"),
		valueStyle.Render(fmt.Sprintf("%.6f", stats.PHat())))

	if turns, err := stats.ExpectedTurns(); err == nil {
		fmt.Fprintf(w, "%s\t%s\n",
			labelStyle.Render("expected turns"),
			valueStyle.Render(fmt.Sprintf("%.2f", turns)))
	} else if errors.Is(err, statistics.ErrNoSuccesses) {
		fmt.Fprintf(w, "%s\t%s\n",
			labelStyle.Render("expected turns"),
			warnStyle.Render("undefined (no successful turns observed)"))
	}

	fmt.Fprintf(w, "%s\t%s\n",
		labelStyle.Render("std error"),
		valueStyle.Render(fmt.Sprintf("%.6f", stats.StdError())))

	low, high := stats.ConfidenceInterval95()
	fmt.Fprintf(w, "%s\t%s\n",
		labelStyle.Render("95% CI"),
		valueStyle.Render(fmt.Sprintf("[%.6f, %.6f]", low, high)))

	fmt.Fprintf(w, "%s\t%s\n",
		labelStyle.Render("seed"),
		valueStyle.Render(fmt.Sprintf("%d", seed)))

	w.Flush()

	if stats.Trials < requested {
		fmt.Printf("\n%s\n", warnStyle.Render(
			fmt.Sprintf("stopped early: %d of %d turns simulated", stats.Trials, requested)))
	}

	fmt.Printf("\n")
	rate := float64(stats.Trials) / duration.Seconds()
	fmt.Printf("%d turns in %v (%.0f turns/sec)\n",
		stats.Trials, duration.Truncate(time.Millisecond), rate)
}
