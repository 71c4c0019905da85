package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lodestar/internal/app"
	"lodestar/internal/config"
	"lodestar/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./lodestar.toml", "Path to config file")
	once       = flag.Bool("once", false, "Analyze the workspace once and exit")
	atQuery    = flag.String("at", "", "Classify the token at CRATE:OFFSET and print its definitions")
	symQuery   = flag.String("symbols", "", "Look up a symbol by exact name in the workspace index")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "0.3.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("lodestar v%s\n", VERSION)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./lodestar.toml" {
			cfg = config.Default()
		} else {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if flag.NArg() > 0 {
		cfg.WatchPaths = []string{flag.Arg(0)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracing(ctx, cfg.Tracing.OTLPEndpoint)
		if err != nil {
			logger.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(shutdownCtx)
			}()
		}
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Rebuild(ctx); err != nil {
		logger.Error("workspace analysis failed", "error", err)
		os.Exit(1)
	}

	switch {
	case *atQuery != "":
		os.Exit(runAtQuery(ctx, a, *atQuery))
	case *symQuery != "":
		os.Exit(runSymbolQuery(ctx, a, *symQuery))
	case *once:
		return
	}

	go serveMetrics(cfg.Serve.MetricsAddr, logger)

	if err := a.Watch(ctx); err != nil && ctx.Err() == nil {
		logger.Error("watch failed", "error", err)
		os.Exit(1)
	}
}

func runAtQuery(ctx context.Context, a *app.App, query string) int {
	crate, offsetText, ok := strings.Cut(query, ":")
	if !ok {
		fmt.Fprintln(os.Stderr, "--at expects CRATE:OFFSET")
		return 2
	}
	offset, err := strconv.ParseUint(offsetText, 10, 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad offset %q: %v\n", offsetText, err)
		return 2
	}

	res, err := a.DefinitionsAt(ctx, crate, uint(offset))
	if err != nil {
		fmt.Fprintf(os.Stderr, "query failed: %v\n", err)
		return 1
	}

	fmt.Printf("token %q (%s) at %d..%d\n", res.Token.Text, res.Token.Kind, res.Token.StartByte, res.Token.EndByte)
	if len(res.Definitions) == 0 {
		fmt.Println("no definitions")
		return 0
	}
	for _, def := range res.Definitions {
		line := def.Kind
		if def.Name != "" {
			line += " " + def.Name
		}
		if def.ModulePath != "" {
			line += "  in " + def.ModulePath
		}
		if def.Visibility != "" {
			line += "  (" + def.Visibility + ")"
		}
		fmt.Println(line)
	}
	return 0
}

func runSymbolQuery(ctx context.Context, a *app.App, name string) int {
	records, err := a.Symbols(ctx, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
		return 1
	}
	if len(records) == 0 {
		fmt.Println("no symbols")
		return 0
	}
	for _, r := range records {
		fmt.Printf("%s %s  in %s  %s:%d:%d  (%s)\n",
			r.Kind, r.Name, r.ModulePath, r.FilePath, r.Line+1, r.Column+1, r.Visibility)
	}
	return 0
}

func serveMetrics(addr string, logger *slog.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	logger.Info("metrics server listening", "addr", addr)
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", "error", err)
	}
}
