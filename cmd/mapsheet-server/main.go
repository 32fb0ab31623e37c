// Command mapsheet-server exposes the lookup pipeline over HTTP for
// repeated queries out of one process.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/catalog"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/config"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/httpclient"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/observability"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/server"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/logger"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/pipeline"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/resolvecache"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/sheets"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	var logOut io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := logger.OpenLogFile(cfg.LogFile)
		if err != nil {
			// stdout logger is not built yet; plain stderr is all we have
			os.Stderr.WriteString(err.Error() + "\n")
			return 1
		}
		defer func() { _ = f.Close() }()
		logOut = f
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole && cfg.LogFile == "",
		Component: "mapsheet-server",
	}, logOut)
	log := logger.NewSlog(&zl)

	observability.ExposeBuildInfo(Version)
	log.Info("starting mapsheet server",
		"addr", cfg.Addr,
		"version", Version,
		"imagery_layer", cfg.ImageryLayerURL,
		"sheet_layer", cfg.SheetLayerURL)

	client := httpclient.NewOutbound(httpclient.Options{
		Timeout:     cfg.RequestTimeout,
		InsecureTLS: cfg.InsecureTLS,
	})

	cat := catalog.NewClient(log, client, cfg.ImageryLayerURL, cfg.Token, catalog.Options{
		NameField: cfg.ImageNameField,
		IDField:   cfg.ImageIDField,
	})
	cached := resolvecache.Wrap(cat, cfg.ImageryLayerURL, cfg.ResolveCacheSize)
	querier := sheets.NewQuerier(log, client, cfg.SheetLayerURL, cfg.Token, sheets.Options{
		Field:    cfg.SheetField,
		PageSize: cfg.PageSize,
	})
	p := pipeline.New(log, cached, querier)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg, log, p); err != nil {
		log.Error("server exited with error", "err", err)
		return 1
	}
	log.Info("server stopped")
	return 0
}
