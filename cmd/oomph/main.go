package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"oomph/pkg/ast"
	"oomph/pkg/config"
	"oomph/pkg/eval"
	"oomph/pkg/fixtures"
	"oomph/pkg/server"
	"oomph/pkg/version"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"
)

const (
	PROMPT      = "> "
	CONT_PROMPT = "... "
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	command := os.Args[1]

	// Handle flags
	switch command {
	case "--version", "-v", "version":
		printVersion()
		return
	case "--help", "-h", "help":
		printHelp()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// If the first argument ends with .oomph, treat it as a file to run
	if strings.HasSuffix(command, ".oomph") {
		os.Exit(runFile(cfg, logger, command))
	}

	// Handle subcommands
	switch command {
	case "repl":
		os.Exit(startREPL(cfg, logger))
	case "run":
		if len(os.Args) < 3 {
			fmt.Println("Usage: oomph run <file>")
			os.Exit(1)
		}
		os.Exit(runFile(cfg, logger, os.Args[2]))
	case "eval":
		if len(os.Args) < 3 {
			fmt.Println("Usage: oomph eval '<code>'")
			os.Exit(1)
		}
		os.Exit(evalCode(cfg, logger, os.Args[2]))
	case "test":
		dir := "tests"
		if len(os.Args) >= 3 {
			dir = os.Args[2]
		}
		os.Exit(runFixtures(cfg, logger, dir))
	case "inspect":
		if len(os.Args) < 3 {
			fmt.Println("Usage: oomph inspect <file>")
			os.Exit(1)
		}
		inspectFile(os.Args[2])
	case "ast":
		if len(os.Args) < 3 {
			fmt.Println("Usage: oomph ast <file>")
			os.Exit(1)
		}
		printProgramAST(os.Args[2])
	case "serve":
		os.Exit(serve(cfg, logger))
	case "hash-password":
		os.Exit(hashPassword(os.Args[2:]))
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printHelp()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("oomph v" + version.Version)
	fmt.Println("\nUsage:")
	fmt.Println("  oomph <file.oomph>       Run a script")
	fmt.Println("  oomph repl               Start interactive REPL")
	fmt.Println("  oomph run <file>         Run a script (explicit)")
	fmt.Println("  oomph eval '<code>'      Evaluate an expression")
	fmt.Println("  oomph test [dir]         Run YAML conformance cases")
	fmt.Println("  oomph version            Show version information")
	fmt.Println("  oomph help               Show this help message")
	fmt.Println("\nFlags:")
	fmt.Println("  -v, --version            Show version information")
	fmt.Println("  -h, --help               Show this help message")
}

func newInterpreter(cfg *config.Config, logger *slog.Logger, opts ...eval.Option) *eval.Interpreter {
	opts = append([]eval.Option{
		eval.WithLogger(logger),
		eval.WithMaxCallDepth(cfg.MaxCallDepth),
	}, opts...)
	return eval.New(opts...)
}

func startREPL(cfg *config.Config, logger *slog.Logger) int {
	fmt.Printf("oomph %s\n", version.Version)
	fmt.Println("Type :help for commands, :quit to exit")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(cfg.HistoryFile); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	// `input` prompts on the same line editor as the program text.
	readInput := eval.InputFunc(func() (int64, error) {
		line, err := ln.Prompt("input> ")
		if err != nil {
			return 0, err
		}
		return strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	})
	it := newInterpreter(cfg, logger, eval.WithInput(readInput))
	env := eval.NewEnvironment()

	for {
		code, ok := readByParseProbe(ln, PROMPT, CONT_PROMPT)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			switch trimmed {
			case ":quit", ":q":
				return 0
			case ":env":
				printEnvironment(env)
			case ":help":
				printReplHelp()
			default:
				fmt.Println("Unknown command. Type :help for commands.")
			}
			continue
		}

		result, newEnv, err := it.EvalSource(code, env)
		env = newEnv
		if err != nil {
			printError(os.Stdout, err)
			continue
		}
		fmt.Printf(">> %s\n", result.Inspect())
	}
}

// readByParseProbe reads lines until they parse or fail for a reason other
// than running out of input.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		_, perr := eval.Parse(src)
		var parseErr *eval.ParseError
		if errors.As(perr, &parseErr) && parseErr.Incomplete {
			continue
		}
		return src, true
	}
}

func printEnvironment(env *eval.Environment) {
	for _, name := range env.Names() {
		val, _ := env.Get(name)
		fmt.Printf("  %s = %s\n", name, val.Inspect())
	}
}

func printReplHelp() {
	fmt.Println("  :env    List bound names")
	fmt.Println("  :help   Show this message")
	fmt.Println("  :quit   Leave the REPL")
	fmt.Println("Incomplete input continues on the next line.")
}

func runFile(cfg *config.Config, logger *slog.Logger, filename string) int {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return 1
	}

	it := newInterpreter(cfg, logger)
	if _, _, err := it.EvalSource(string(data), nil); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

func evalCode(cfg *config.Config, logger *slog.Logger, code string) int {
	it := newInterpreter(cfg, logger)
	result, _, err := it.EvalSource(code, nil)
	if err != nil {
		printError(os.Stderr, err)
		return 1
	}
	if result != eval.NONE {
		fmt.Println(result.Inspect())
	}
	return 0
}

func runFixtures(cfg *config.Config, logger *slog.Logger, dir string) int {
	cases, err := fixtures.LoadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cases: %v\n", err)
		return 1
	}

	failed := 0
	results := fixtures.RunAll(cases, eval.WithLogger(logger), eval.WithMaxCallDepth(cfg.MaxCallDepth))
	for _, res := range results {
		if res.Passed {
			fmt.Printf("%s: %s\n", res.Case.Name, green("OK"))
			continue
		}
		failed++
		fmt.Printf("%s: %s (%s)\n", res.Case.Name, red("NOT OK"), res.Reason)
	}

	fmt.Printf("\n%d passed, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func inspectFile(filename string) {
	program := parseFileOrExit(filename)
	insights := analyzeProgram(program)
	printClassInsights(insights.Classes)
	printFunctionInsights(insights.Functions)
}

func printProgramAST(filename string) {
	program := parseFileOrExit(filename)
	for _, stmt := range ast.Flatten(program.Body) {
		fmt.Println(stmt.String())
	}
}

func parseFileOrExit(filename string) *ast.Program {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}
	program, err := eval.Parse(string(data))
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
	return program
}

func printClassInsights(classes []ClassInfo) {
	fmt.Printf("Classes (%d)\n", len(classes))
	if len(classes) == 0 {
		fmt.Println("  · No class declarations found.")
		return
	}

	for _, c := range classes {
		if c.Superclass != "" {
			fmt.Printf("  · class %s(%s)\n", c.Name, c.Superclass)
		} else {
			fmt.Printf("  · class %s\n", c.Name)
		}
		for _, m := range c.Members {
			fmt.Printf("      %s\n", describeMember(m))
		}
	}
}

func printFunctionInsights(functions []FunctionInfo) {
	fmt.Printf("Functions (%d)\n", len(functions))
	if len(functions) == 0 {
		fmt.Println("  · No function definitions found.")
		return
	}

	for _, fn := range functions {
		fmt.Printf("  · def %s(%s)\n", fn.Name, strings.Join(fn.Parameters, ", "))
	}
}

func serve(cfg *config.Config, logger *slog.Logger) int {
	if err := cfg.CheckServer(); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot serve: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		PasswordHash: cfg.PasswordHash,
		Secret:       []byte(cfg.JWTSecret),
		TokenTTL:     cfg.TokenTTL,
		MaxCallDepth: cfg.MaxCallDepth,
		Logger:       logger,
	})
	fmt.Printf("📡 Serving on %s (POST /token, GET /repl)\n", cfg.ServeAddr)
	if err := srv.ListenAndServe(ctx, cfg.ServeAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}

func hashPassword(args []string) int {
	var password string
	if len(args) > 0 {
		password = args[0]
	} else {
		ln := liner.NewLiner()
		pw, err := ln.PasswordPrompt("Password: ")
		ln.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			return 1
		}
		password = pw
	}

	hash, err := server.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		return 1
	}
	fmt.Printf("%s=%s\n", config.EnvPasswordHash, hash)
	return 0
}

func printVersion() {
	fmt.Printf("oomph %s\n", version.Version)
	fmt.Printf("Build Date: %s\n", version.BuildDate)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
}

func printHelp() {
	fmt.Println("oomph: a small class-based expression language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  oomph <file.oomph>          Run a script (shortcut for 'oomph run')")
	fmt.Println("  oomph run <file>            Execute a script")
	fmt.Println("  oomph eval '<code>'         Evaluate code and print the result")
	fmt.Println("  oomph repl                  Start the interactive REPL")
	fmt.Println("  oomph test [dir]            Run YAML conformance cases (default ./tests)")
	fmt.Println("  oomph inspect <file>        Summarize classes and functions")
	fmt.Println("  oomph ast <file>            Print the program AST")
	fmt.Println("  oomph serve                 Host REPL sessions over websockets")
	fmt.Println("  oomph hash-password [pw]    Print a bcrypt hash for OOMPH_PASSWORD_HASH")
	fmt.Println("  oomph version               Display build metadata")
	fmt.Println("  oomph help                  Show this help message")
	fmt.Println()
	fmt.Println("Global flags:")
	fmt.Println("  --help, -h                  Show help")
	fmt.Println("  --version, -v               Show version")
	fmt.Println()
	fmt.Println("Settings are read from ./.env and OOMPH_* environment variables.")
}

func printError(out io.Writer, err error) {
	var parseErr *eval.ParseError
	if errors.As(err, &parseErr) {
		io.WriteString(out, "Parser errors:\n")
		for _, msg := range parseErr.Messages {
			io.WriteString(out, "\t"+msg+"\n")
		}
		return
	}
	fmt.Fprintf(out, "%s\n", err)
}

func red(s string) string   { return "\033[91m" + s + "\033[00m" }
func green(s string) string { return "\033[92m" + s + "\033[00m" }
