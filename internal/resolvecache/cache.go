// Package resolvecache memoizes image-name resolutions for the server
// binary, where the same image is looked up repeatedly within one process.
// Nothing is persisted past the process; the CLI does not use it.
package resolvecache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/core/observability"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/esri"
	"github.com/nafizpervez/MapSheetExtractor-gpTool/internal/pipeline"
)

type Catalog struct {
	inner    pipeline.Catalog
	layerURL string

	mu  sync.Mutex
	lru *lru.Cache[string, int64]
}

// Wrap puts an LRU in front of a catalog's ResolveImage. Only successful
// resolutions are cached; not-found answers always go back upstream, so a
// freshly ingested image becomes visible without a restart.
func Wrap(inner pipeline.Catalog, layerURL string, size int) *Catalog {
	if size <= 0 {
		size = 512
	}
	c, _ := lru.New[string, int64](size)
	return &Catalog{inner: inner, layerURL: layerURL, lru: c}
}

func (c *Catalog) ResolveImage(ctx context.Context, name string) (int64, bool, error) {
	key := Key(c.layerURL, name)

	c.mu.Lock()
	id, ok := c.lru.Get(key)
	c.mu.Unlock()
	if ok {
		observability.IncResolveCacheHit()
		return id, true, nil
	}
	observability.IncResolveCacheMiss()

	id, found, err := c.inner.ResolveImage(ctx, name)
	if err != nil || !found {
		return id, found, err
	}

	c.mu.Lock()
	c.lru.Add(key, id)
	c.mu.Unlock()
	return id, true, nil
}

func (c *Catalog) FetchFootprint(ctx context.Context, objectID int64) (esri.Polygon, error) {
	return c.inner.FetchFootprint(ctx, objectID)
}
