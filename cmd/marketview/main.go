package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tjenkins47/ai-news-agent/internal/api"
	"github.com/tjenkins47/ai-news-agent/internal/browser"
	"github.com/tjenkins47/ai-news-agent/internal/cdpsurface"
	"github.com/tjenkins47/ai-news-agent/internal/chart"
	"github.com/tjenkins47/ai-news-agent/internal/config"
	"github.com/tjenkins47/ai-news-agent/internal/events"
	"github.com/tjenkins47/ai-news-agent/internal/feed"
	"github.com/tjenkins47/ai-news-agent/internal/market"
	"github.com/tjenkins47/ai-news-agent/internal/netutil"
	"github.com/tjenkins47/ai-news-agent/internal/news"
	"github.com/tjenkins47/ai-news-agent/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		_, _ = io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n")
		os.Exit(1)
	}

	slog.Info("marketview config loaded",
		"proxy_url", cfg.ProxyBaseURL,
		"bind_addr", cfg.BindAddr,
		"tab_url_filter", cfg.TabURLFilter,
		"canvas_selector", cfg.CanvasSelector,
		"default_selection", cfg.DefaultSymbol+"/"+cfg.DefaultRange+"/"+cfg.DefaultInterval,
		"log_level", cfg.LogLevel,
	)

	bindAddr, err := netutil.PickBindAddr(cfg.BindAddr, cfg.BindCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to select bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}

	var launcher *browser.Launcher
	if cfg.LaunchBrowser {
		launcher = browser.NewLauncher(browser.Config{
			CDPAddress: cfg.CDPAddress,
			CDPPort:    cfg.CDPPort,
			StartURL:   cfg.StartURL,
			ProfileDir: cfg.ProfileDir,
		})
		if err := launcher.Launch(context.Background()); err != nil {
			slog.Error("failed to launch browser", "error", err)
			os.Exit(1)
		}
		defer launcher.Stop()
	}

	surface := cdpsurface.New(cfg.CDPURL(), cfg.TabURLFilter, cfg.CanvasSelector,
		time.Duration(cfg.EvalTimeoutMS)*time.Millisecond)
	if err := surface.Connect(context.Background()); err != nil {
		slog.Error("failed to connect chart surface", "cdp_url", cfg.CDPURL(), "error", err)
		os.Exit(1)
	}
	defer func() { _ = surface.Close() }()

	broker := feed.NewBroker()
	view := chart.NewView(surface)
	initial := market.Selection{
		Symbol:   cfg.DefaultSymbol,
		Range:    cfg.DefaultRange,
		Interval: cfg.DefaultInterval,
	}
	ctrl := market.NewController(initial,
		market.NewSeriesClient(cfg.ProxyBaseURL, nil),
		view, surface, feed.NewNotifier(broker))

	bus := events.NewBus()
	detach := events.Attach(bus, ctrl)
	defer detach()

	tabWatcher := watcher.New(cfg.CDPURL(), cfg.TabURLFilter, bus)
	if err := tabWatcher.Connect(context.Background()); err != nil {
		// The API can still drive the view; page reload triggers are lost.
		slog.Warn("tab watcher unavailable", "error", err)
	} else {
		defer func() { _ = tabWatcher.Close() }()
	}

	newsSvc := news.NewService(news.NewClient(cfg.ProxyBaseURL, nil), cfg.PreviewLimit)
	h := api.NewServer(ctrl, newsSvc, bus, broker)

	srv := &http.Server{Addr: bindAddr, Handler: h}

	go func() {
		slog.Info("marketview listening", "addr", bindAddr, "docs", "http://"+bindAddr+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("marketview server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("marketview shutdown failed", "error", err)
	}
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
