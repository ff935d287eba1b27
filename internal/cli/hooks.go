package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/turnout/pkg/observability"
)

// logHooks reports pipeline and cache events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnLoadStart(_ context.Context, dir string) {
	h.logger.Debug("loading data", "dir", dir)
}

func (h *logHooks) OnLoadComplete(_ context.Context, rows, unrecognized int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("load complete", "rows", rows, "unrecognized", unrecognized, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, output string) {
	h.logger.Debug("rendering", "chart", output)
}

func (h *logHooks) OnRenderComplete(_ context.Context, output string, size int, cached bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "chart", output, "error", err, "duration", d)
		return
	}
	h.logger.Debug("render complete", "chart", output, "bytes", size, "cached", cached, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
