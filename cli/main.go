package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nichescope"
	"nichescope/config"
	"nichescope/gemini"
	"nichescope/platform"
	"nichescope/server"
	"nichescope/session"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "serve":
		cmdServe(args)
	case "analyze":
		cmdAnalyze(args)
	case "forensics":
		cmdForensics(args)
	case "drilldown":
		cmdDrillDown(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `nichescope - YouTube niche research and analytics engine

Usage:
  nichescope serve                       Run the HTTP API server
  nichescope analyze <query>             Analyze a niche, keyword, or channel
  nichescope forensics <video-url>       Run originality forensics on a video
  nichescope drilldown <channel-name>    Deep-dive a competitor channel
  nichescope help                        Show this help message

Credentials are read from the environment:
  NICHESCOPE_MODEL_KEY       Gemini API key (required for analysis commands)
  NICHESCOPE_PLATFORM_KEY    YouTube Data API key (optional, enables verified stats)

Examples:
  nichescope analyze "Stoicism"
  nichescope analyze "@SomeCreator"
  nichescope forensics "https://youtu.be/dQw4w9WgXcQ"
  nichescope drilldown "Some Creator"
  nichescope serve
`)
}

// credentialsFromEnv reads the per-run API keys. The model key is mandatory
// for every analysis command.
func credentialsFromEnv() nichescope.Credentials {
	creds := nichescope.Credentials{
		ModelKey:    os.Getenv("NICHESCOPE_MODEL_KEY"),
		PlatformKey: os.Getenv("NICHESCOPE_PLATFORM_KEY"),
	}
	if creds.ModelKey == "" {
		fmt.Fprintln(os.Stderr, "Error: NICHESCOPE_MODEL_KEY is not set")
		os.Exit(1)
	}
	return creds
}

func newEngine(cfg *config.Config) *nichescope.Engine {
	return nichescope.NewEngine(
		nichescope.WithPromptOptions(gemini.PromptOptions{
			ExcerptSize: cfg.ExcerptSize,
			TopOutliers: cfg.TopOutliers,
		}),
		nichescope.WithStatsFactory(func(ctx context.Context, apiKey string) (nichescope.StatsProvider, error) {
			return platform.NewClient(ctx, apiKey, platform.Options{
				SnapshotCap:       cfg.SnapshotCap,
				QuotaReserve:      cfg.QuotaReserve,
				RequestsPerSecond: cfg.PlatformRPS,
			})
		}),
	)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// printJSON writes a report to stdout, pretty-printed for terminals.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
		os.Exit(1)
	}
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "Listen address (overrides config)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nichescope serve [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig()
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	engine := newEngine(cfg)
	sessions := session.NewStore(cfg.SessionTTL)
	handler := server.New(engine, sessions, server.Options{
		AllowedOrigins:    cfg.AllowedOrigins,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // model invocations are slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("cli: listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("cli: server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("cli: shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("cli: shutdown error: %v", err)
	}
}

func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nichescope analyze <query>\n")
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing query")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	creds := credentialsFromEnv()

	out, err := newEngine(cfg).Run(context.Background(), argv[0], creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printJSON(out)
}

func cmdForensics(args []string) {
	fs := flag.NewFlagSet("forensics", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nichescope forensics <video-url>\n")
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing video-url")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	creds := credentialsFromEnv()

	report, err := newEngine(cfg).VideoForensics(context.Background(), argv[0], creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printJSON(report)
}

func cmdDrillDown(args []string) {
	fs := flag.NewFlagSet("drilldown", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nichescope drilldown <channel-name>\n")
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "Error: missing channel-name")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	creds := credentialsFromEnv()

	dd, err := newEngine(cfg).ChannelDrillDown(context.Background(), argv[0], creds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printJSON(dd)
}
