package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/lookbusy1344/tinybasic/api"
	"github.com/lookbusy1344/tinybasic/config"
	"github.com/lookbusy1344/tinybasic/gui"
	"github.com/lookbusy1344/tinybasic/host"
	"github.com/lookbusy1344/tinybasic/interp"
	"github.com/lookbusy1344/tinybasic/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	// Command-line flags
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		tuiMode     = flag.Bool("tui", false, "Use the full-screen terminal interface")
		guiMode     = flag.Bool("gui", false, "Use the desktop window interface")
		apiServer   = flag.Bool("api", false, "Start the HTTP API server instead of a local host")
		apiPort     = flag.Int("port", 0, "API server port (default from config, used with -api)")
		configPath  = flag.String("config", "", "Alternate config file path")
		runAfter    = flag.Bool("run", false, "RUN the program after loading it")
		startTrace  = flag.Bool("trace", false, "Start with statement tracing (TRON) active")
		filesRoot   = flag.String("fsroot", "", "Restrict SAVE/LOAD to this directory (default from config)")
	)

	flag.Parse()

	// Show version
	if *showVersion {
		fmt.Printf("tinybasic %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	// Show help
	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Flags override config
	if *startTrace {
		cfg.Interpreter.TraceOnStart = true
	}
	if *filesRoot != "" {
		cfg.Interpreter.FilesRoot = *filesRoot
	}
	if cfg.Interpreter.FilesRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting current directory: %v\n", err)
			os.Exit(1)
		}
		cfg.Interpreter.FilesRoot = cwd
	}
	absRoot, err := filepath.Abs(cfg.Interpreter.FilesRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving files root: %v\n", err)
		os.Exit(1)
	}
	cfg.Interpreter.FilesRoot = absRoot

	// API server mode
	if *apiServer {
		port := cfg.API.Port
		if *apiPort != 0 {
			port = *apiPort
		}
		runAPIServer(port, cfg)
		return
	}

	// TUI and GUI hosts run their own event loops; a program file on the
	// command line is not preloaded for them.
	if *tuiMode {
		if err := tui.Run(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if *guiMode {
		if err := gui.Run(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "GUI error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Console host
	console := host.NewConsole(cfg)
	engine := interp.New(console)
	engine.SetArraySize(cfg.Interpreter.ArraySize)
	engine.SetTrace(cfg.Interpreter.TraceOnStart)
	engine.FilesRoot = cfg.Interpreter.FilesRoot

	// Preload a program file through the normal line processor, so an
	// immediate RUN inside the file behaves as if typed.
	if flag.NArg() > 0 {
		basFile := flag.Arg(0)
		data, err := os.ReadFile(basFile) // #nosec G304 -- user-specified program file
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", basFile, err)
			os.Exit(1)
		}
		for _, line := range strings.Split(string(data), "\n") {
			engine.ProcessLine(strings.TrimSuffix(line, "\r"))
		}
		if *runAfter {
			engine.ProcessLine("RUN")
		}
	}

	console.Run(engine)
}

// runAPIServer starts the websocket host and blocks until interrupted.
func runAPIServer(port int, cfg *config.Config) {
	server := api.NewServer(port, cfg)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Printf(`tinybasic %s

Usage: tinybasic [options] [program.bas]
       tinybasic -api [-port N]

A Tiny BASIC interpreter. With no options it reads statements from stdin
and writes output to stdout; a program file given on the command line is
fed through the line processor before the prompt appears.

Options:
  -help          Show this help message
  -version       Show version information
  -tui           Full-screen terminal interface (Esc breaks a running program)
  -gui           Desktop window interface
  -api           Serve interpreter sessions over websockets
  -port N        API server port (used with -api)
  -run           RUN the loaded program file immediately
  -trace         Start with TRON active
  -config PATH   Alternate config file
  -fsroot DIR    Restrict SAVE/LOAD/FILES to a directory

Examples:
  # Interactive session
  tinybasic

  # Load a program, run it, stay at the prompt
  tinybasic -run examples/guess.bas

  # Batch: run a program over a pipe
  echo RUN | tinybasic examples/hello.bas

  # Full-screen terminal
  tinybasic -tui

  # Browser sessions
  tinybasic -api -port 3000

Type HELP at the prompt for the statement summary.
`, Version)
}
