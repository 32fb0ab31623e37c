// Command mapsheet-fetch is the one-shot lookup tool: it resolves a named
// satellite image to the map sheets whose extent lies fully within its
// footprint and prints the sorted unique sheet list plus the count.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/catalog"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/config"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/httpclient"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/logger"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/pipeline"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/sheets"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	image := flag.String("image", "", "satellite image name to look up (required)")
	imageryLayer := flag.String("imagery-layer", cfg.ImageryLayerURL, "imagery layer URL")
	sheetLayer := flag.String("sheet-layer", cfg.SheetLayerURL, "map-sheet feature layer URL")
	portal := flag.String("portal", cfg.PortalURL, "portal URL the token was issued by")
	token := flag.String("token", cfg.Token, "pre-obtained portal token")
	logFile := flag.String("log-file", cfg.LogFile, "append-only log file (default stderr)")
	pageSize := flag.Int("page-size", cfg.PageSize, "spatial query page size")
	flag.Parse()

	var logOut io.Writer
	console := cfg.LogConsole
	if *logFile != "" {
		f, err := logger.OpenLogFile(*logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer func() { _ = f.Close() }()
		logOut = f
		console = false
	} else {
		logOut = os.Stderr
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   console,
		Component: "mapsheet-fetch",
	}, logOut)
	log := logger.NewSlog(&zl)

	if strings.TrimSpace(*image) == "" ||
		strings.TrimSpace(*imageryLayer) == "" ||
		strings.TrimSpace(*sheetLayer) == "" ||
		strings.TrimSpace(*portal) == "" {
		log.Error("all input parameters are required",
			"image", *image, "imagery_layer", *imageryLayer,
			"sheet_layer", *sheetLayer, "portal", *portal)
		fmt.Fprintln(os.Stderr, "usage: mapsheet-fetch -image <name> -imagery-layer <url> -sheet-layer <url> -portal <url> -token <token>")
		return 2
	}

	log.Info("connecting to portal", "portal", *portal)

	client := httpclient.NewOutbound(httpclient.Options{
		Timeout:     cfg.RequestTimeout,
		InsecureTLS: cfg.InsecureTLS,
	})

	cat := catalog.NewClient(log, client, *imageryLayer, *token, catalog.Options{
		NameField: cfg.ImageNameField,
		IDField:   cfg.ImageIDField,
	})
	querier := sheets.NewQuerier(log, client, *sheetLayer, *token, sheets.Options{
		Field:    cfg.SheetField,
		PageSize: *pageSize,
	})

	p := pipeline.New(log, cat, querier)
	ctx := logger.WithRequestID(context.Background(), logger.NewID())

	res, found, err := p.Run(ctx, *image)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !found {
		fmt.Println("No valid identifier found. Exiting without further processing.")
		return 0
	}

	fmt.Println(res.FormattedSheets())
	fmt.Println(res.Count)
	return 0
}
