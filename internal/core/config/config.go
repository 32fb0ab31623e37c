// Package config loads tool configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr       string
	LogLevel   string
	LogFile    string
	LogConsole bool

	PortalURL string
	Token     string

	ImageryLayerURL string
	SheetLayerURL   string

	ImageNameField string
	ImageIDField   string
	SheetField     string

	PageSize         int
	RequestTimeout   time.Duration
	InsecureTLS      bool
	ResolveCacheSize int
}

func FromEnv() Config {
	pageSize := getint("PAGE_SIZE", 2000)
	if pageSize <= 0 {
		pageSize = 2000
	}

	return Config{
		Addr:       getenv("ADDR", ":8085"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
		LogFile:    getenv("LOG_FILE", ""),
		LogConsole: getbool("LOG_CONSOLE", false),

		PortalURL: getenv("PORTAL_URL", ""),
		Token:     getenv("PORTAL_TOKEN", ""),

		ImageryLayerURL: getenv("IMAGERY_LAYER_URL", ""),
		SheetLayerURL:   getenv("SHEET_LAYER_URL", ""),

		ImageNameField: getenv("IMAGE_NAME_FIELD", "Name"),
		ImageIDField:   getenv("IMAGE_ID_FIELD", "OBJECTID"),
		SheetField:     getenv("SHEET_FIELD", "sheet_no"),

		PageSize:         pageSize,
		RequestTimeout:   getduration("REQUEST_TIMEOUT", 30*time.Second),
		InsecureTLS:      getbool("INSECURE_TLS", false),
		ResolveCacheSize: getint("RESOLVE_CACHE_SIZE", 512),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
