package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestrel-dns/kestrel/internal/dns/common/log"
	"github.com/kestrel-dns/kestrel/internal/dns/config"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver/interceptresolver"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver/proxyresolver"
	"github.com/kestrel-dns/kestrel/internal/dns/resolver/zoneresolver"
	"github.com/kestrel-dns/kestrel/internal/dns/transport"
	"github.com/kestrel-dns/kestrel/internal/dns/wire/record"
)

const (
	version = "0.1.0-dev"

	defaultUpstreamTimeout = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultZoneTTL         = 300
)

// Application holds all the components of the DNS server.
type Application struct {
	config     *config.AppConfig
	transports []transport.Server
	intercept  *interceptresolver.Resolver
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":     version,
		"env":         cfg.Env,
		"listen_addr": cfg.ListenAddr,
		"zone_dir":    cfg.ZoneDir,
		"servers":     cfg.Servers,
	}, "starting kestrel DNS server")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "server failed")
	}

	log.Info(nil, "kestrel DNS server stopped gracefully")
}

// buildApplication wires the resolver chain and both transports together.
//
// Resolution order mirrors the layering described for the resolver
// framework: interceptresolver sits in front so operator overrides always
// win, falling through to zoneresolver for locally authoritative data, and
// finally to proxyresolver for anything else.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	zoneHandler, err := zoneresolver.LoadDir(cfg.ZoneDir, defaultZoneTTL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load zone directory: %w", err)
	}

	proxyHandler := proxyresolver.New(cfg.Servers, defaultUpstreamTimeout, logger)

	chain := chainResolver{handlers: []resolver.Handler{zoneHandler, proxyHandler}}

	var top resolver.Handler = chain
	var intercept *interceptresolver.Resolver
	if cfg.InterceptDBPath != "" {
		intercept, err = interceptresolver.Open(cfg.InterceptDBPath, chain, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open intercept store: %w", err)
		}
		top = intercept
		log.Info(map[string]any{"path": cfg.InterceptDBPath}, "intercept overrides enabled")
	}

	transports := []transport.Server{
		transport.NewUDPTransport(cfg.ListenAddr, top, logger),
		transport.NewTCPTransport(cfg.ListenAddr, top, logger),
	}

	return &Application{
		config:     cfg,
		transports: transports,
		intercept:  intercept,
	}, nil
}

// chainResolver tries each handler in order, taking the first reply that
// carries at least one answer, and otherwise returning the last reply
// produced (typically an empty NOERROR/NXDOMAIN-shaped response from the
// final handler in the chain).
type chainResolver struct {
	handlers []resolver.Handler
}

func (c chainResolver) Resolve(ctx context.Context, req record.Message, info resolver.RequestInfo) record.Message {
	var last record.Message
	for _, h := range c.handlers {
		last = h.Resolve(ctx, req, info)
		if len(last.Answer) > 0 {
			return last
		}
	}
	return last
}

var _ resolver.Handler = chainResolver{}

// Run starts all transports and blocks until context cancellation, then
// shuts everything down within defaultShutdownTimeout.
func (app *Application) Run(ctx context.Context) error {
	for _, t := range app.transports {
		if err := t.Start(ctx); err != nil {
			return fmt.Errorf("failed to start transport on %s: %w", t.Address(), err)
		}
		log.Info(map[string]any{"address": t.Address()}, "DNS transport started")
	}

	<-ctx.Done()
	log.Info(nil, "shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for _, t := range app.transports {
			if err := t.Stop(); err != nil {
				log.Warn(map[string]any{"error": err.Error(), "address": t.Address()}, "error during transport shutdown")
			}
		}
		if app.intercept != nil {
			if err := app.intercept.Close(); err != nil {
				log.Warn(map[string]any{"error": err.Error()}, "error closing intercept store")
			}
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info(nil, "graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		return fmt.Errorf("shutdown timeout exceeded after %s", defaultShutdownTimeout)
	}
}
