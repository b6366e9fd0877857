package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cj3636/gitt/internal/config"
	"github.com/cj3636/gitt/internal/export"
	"github.com/cj3636/gitt/internal/git"
	"github.com/cj3636/gitt/internal/graph"
	"github.com/cj3636/gitt/internal/logging"
	"github.com/cj3636/gitt/internal/tui"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"
)

const version = "0.1.0"

var (
	showVersion bool
	help        bool
	verbose     bool
	workDir     string
	configFile  string
	logFile     string
	printMode   bool
	printFormat string
	maxCount    int
	tabSize     int
	themeName   string
)

func init() {
	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.BoolVarP(&help, "help", "h", false, "Show help information")
	flag.BoolVar(&verbose, "verbose", false, "Write debug logs (to the temp dir unless --log-file is set)")
	flag.StringVarP(&workDir, "working-directory", "C", ".", "Repository to browse")
	flag.StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/gitt/config.yaml)")
	flag.StringVar(&logFile, "log-file", "", "Write logs to this file")
	flag.BoolVarP(&printMode, "print", "p", false, "Print the graph to stdout instead of starting the browser")
	flag.StringVar(&printFormat, "print-format", "", "Output format for --print: text, ansi or markdown")
	flag.IntVarP(&maxCount, "max-count", "n", 0, "Limit the number of commits")
	flag.IntVarP(&tabSize, "tab-size", "t", 0, "Set tab size (overrides the config file)")
	flag.StringVar(&themeName, "theme", "", "Theme preset: default, solarized or dracula")
	flag.Usage = usage
}

func usage() {
	fmt.Println("gitt - A read-only terminal browser for git history")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  gitt [options] [COMMITTISH] [-- <path>...]")
	fmt.Println("")
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  gitt                      # Browse HEAD")
	fmt.Println("  gitt v1.2.0 -- docs/      # History of docs/ up to v1.2.0")
	fmt.Println("  gitt --print -n 20        # Print the last 20 commits with their graph")
	fmt.Println("")
	fmt.Println("Keyboard shortcuts:")
	fmt.Println("  j/↓    Move down")
	fmt.Println("  k/↑    Move up")
	fmt.Println("  ctrl+d Half page down")
	fmt.Println("  ctrl+u Half page up")
	fmt.Println("  pgdown Page down")
	fmt.Println("  pgup   Page up")
	fmt.Println("  g      Go to top")
	fmt.Println("  G      Go to bottom")
	fmt.Println("  tab    Switch between commit list and diff")
	fmt.Println("  y      Copy the selected commit hash")
	fmt.Println("  ?      Toggle help panel")
	fmt.Println("  q      Quit")
}

// splitArgs separates the optional committish from the paths after "--".
func splitArgs(args []string, dash int) (string, []string, error) {
	positional, paths := args, []string(nil)
	if dash >= 0 {
		positional, paths = args[:dash], args[dash:]
	}
	switch len(positional) {
	case 0:
		return "", paths, nil
	case 1:
		return positional[0], paths, nil
	default:
		return "", nil, fmt.Errorf("expected at most one committish, got %d (separate paths with --)", len(positional))
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if tabSize > 0 {
		cfg.TabSize = tabSize
	}
	if themeName != "" {
		cfg.ThemePreset = config.ThemePreset(themeName)
		cfg.Theme = config.ThemeForPreset(cfg.ThemePreset, cfg.HighContrast)
	}
	return cfg, cfg.Validate()
}

// printHistory streams the laid-out history to w without a terminal UI.
func printHistory(ctx context.Context, repo *git.Repository, opts git.LogOptions, cfg *config.Config, format export.Format, title string, w io.Writer) error {
	printer, err := export.NewPrinter(w, export.Options{
		Format:     format,
		Title:      title,
		DateFormat: cfg.DateFormat,
		Theme:      cfg.Theme,
	})
	if err != nil {
		return err
	}

	stream, err := repo.Log(ctx, opts)
	if err != nil {
		return err
	}
	defer stream.Close()

	builder := graph.New()
	for {
		commits, err := stream.Next(cfg.BatchSize)
		if len(commits) > 0 {
			if werr := printer.WriteRows(builder.Append(commits)); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}
	return printer.Close()
}

func main() {
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Println("gitt version " + version)
		fmt.Println("A read-only terminal browser for git history")
		os.Exit(0)
	}

	os.Exit(run())
}

// run starts the browser (or the printer) and returns the exit code. It is
// split from main so deferred cleanup runs before exiting.
func run() int {
	committish, paths, err := splitArgs(flag.Args(), flag.CommandLine.ArgsLenAtDash())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := logging.New(logging.Options{Verbose: verbose, File: logFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	repo, err := git.Open(workDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	rev, err := repo.Resolve(committish)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger.Info("starting", "root", repo.Root(), "rev", rev, "paths", paths)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gitOpts := git.LogOptions{Rev: rev, Paths: paths, MaxCount: maxCount}
	repoCtx := tui.RepoContext{
		Root:   repo.Root(),
		Branch: repo.CurrentBranch(),
		Rev:    committish,
		Paths:  paths,
	}

	// Without a terminal there is nothing to browse; print instead.
	if !printMode && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		logger.Debug("stdout is not a terminal, printing")
		printMode = true
	}

	if printMode {
		format, err := export.ParseFormat(printFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		title := ""
		if format == export.FormatMarkdown {
			title = repoCtx.Title()
		}
		if err := printHistory(ctx, repo, gitOpts, cfg, format, title, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing history: %v\n", err)
			return 1
		}
		return 0
	}

	model := tui.NewModel(ctx, repo, tui.Options{
		Config: cfg,
		Logger: logger,
		Repo:   repoCtx,
		Log:    gitOpts,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		if cerr := m.Close(); cerr != nil {
			logger.Debug("closing streams", "err", cerr)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return 1
	}
	return 0
}
