package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/interp"

	"github.com/nish-sh/nish/internal/config"
	"github.com/nish-sh/nish/internal/core"
	"github.com/nish-sh/nish/internal/history"
	"github.com/nish-sh/nish/internal/styles"
	"github.com/nish-sh/nish/pkg/menu"
)

var BUILD_VERSION = "dev"

var command = flag.String("c", "", "run a command")
var completeLine = flag.String("complete", "", "print completions for a line and exit")
var completeCursor = flag.Int("cursor", -1, "cursor position for -complete (default: end of line)")
var noHistory = flag.Bool("no-history", false, "do not record commands in history")

var helpFlag bool
var versionFlag bool

func init() {
	flag.BoolVar(&helpFlag, "h", false, "display help information")
	flag.BoolVar(&helpFlag, "help", false, "display help information")

	flag.BoolVar(&versionFlag, "v", false, "display build version")
	flag.BoolVar(&versionFlag, "version", false, "display build version")

	if err := zap.RegisterSink("zstd", newCompressedSink); err != nil {
		panic(fmt.Sprintf("failed to register zstd sink: %v", err))
	}
}

func main() {
	flag.Parse()

	if versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if helpFlag {
		printUsage()
		return
	}

	settings, err := config.LoadFile(core.SettingsFile())
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
	}

	logger, err := initializeLogger(settings)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var store *history.Store
	if !*noHistory {
		store, err = history.NewStore(core.HistoryFile())
		if err != nil {
			logger.Warn("history store unavailable", zap.Error(err))
			store = nil
		}
	}

	runner, err := core.NewRunner()
	if err != nil {
		panic(err)
	}

	shell, err := core.NewShell(runner, store, settings, logger)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := shell.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close shell: %v\n", err)
		}
	}()

	logger.Info("-------- new nish session --------", zap.Any("args", os.Args))

	err = run(shell)

	if code, ok := interp.IsExitStatus(err); ok {
		os.Exit(int(code))
	}
	if err != nil {
		logger.Error("unhandled error", zap.Error(err))
		os.Exit(1)
	}
}

func run(shell *core.Shell) error {
	ctx := context.Background()

	// nish -complete "git che"
	if *completeLine != "" {
		return printCompletions(ctx, shell, *completeLine, *completeCursor)
	}

	// nish -c "echo hello"
	if *command != "" {
		return shell.Run(ctx, *command)
	}

	// nish
	if flag.NArg() == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return runInteractive(ctx, shell)
		}
		return runScript(ctx, shell, os.Stdin)
	}

	// nish script.sh
	for _, filePath := range flag.Args() {
		file, err := os.Open(filePath)
		if err != nil {
			return err
		}
		err = runScript(ctx, shell, file)
		_ = file.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

// printCompletions runs one completion pass and writes the rendered menu to
// stdout, one candidate per line with its category and description. This is
// the scripting surface other frontends drive.
func printCompletions(ctx context.Context, shell *core.Shell, line string, cursor int) error {
	if cursor < 0 {
		cursor = len(line)
	}

	session, err := shell.StartCompletion(ctx, line, cursor)
	if err != nil {
		return err
	}
	defer session.Cancel()

	result := session.Results()
	if result.Len() == 0 {
		return nil
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}

	m, err := shell.Menu(session)
	if err != nil {
		return err
	}
	text, stats := menu.Render(m, shell.MenuOptions(width))
	// Horizontal movement strides by rendered columns, so the model follows
	// the layout the renderer chose.
	m.SetColumns(stats.ColumnsUsed)
	fmt.Println(text)
	fmt.Println(styles.HINT(fmt.Sprintf("%d candidates, %d categories",
		result.Len(), stats.CategoriesShown)))
	return nil
}

func runInteractive(ctx context.Context, shell *core.Shell) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(styles.HEADING("nish> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			return nil
		}
		if err := shell.Run(ctx, line); err != nil {
			if _, ok := interp.IsExitStatus(err); !ok {
				fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
			}
		}
	}
}

func runScript(ctx context.Context, shell *core.Shell, r *os.File) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := shell.Run(ctx, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func printUsage() {
	fmt.Println(styles.HEADING("Usage:") + " nish [flags] [script]")
	fmt.Println("\nAn interactive shell with context-aware tab completion.")
	fmt.Println()

	fmt.Println(styles.HEADING("Options:"))
	flag.VisitAll(func(f *flag.Flag) {
		argName, usage := flag.UnquoteUsage(f)
		flagStr := "-" + f.Name
		if argName != "" {
			flagStr += " <" + argName + ">"
		}
		fmt.Printf("  %-24s %s\n", flagStr, usage)
	})

	fmt.Println()
	fmt.Println(styles.HEADING("Configuration:"))
	fmt.Printf("  %-24s %s\n", core.SettingsFile(), "menu and history settings")
	fmt.Printf("  %-24s %s\n", core.CompletionsFile(), "command-backed completion sources")
}

func initializeLogger(settings config.Settings) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(settings.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	if BUILD_VERSION == "dev" {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	_ = core.RotateLogFiles()

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = level
	loggerConfig.OutputPaths = []string{
		"zstd://" + core.LogFile(),
	}
	return loggerConfig.Build()
}
