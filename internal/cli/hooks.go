package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks writes pipeline and cache events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnOperationStart(name string, rows, cols int) {
	h.logger.Debug("operation started", "name", name, "rows", rows, "cols", cols)
}

func (h *logHooks) OnOperationComplete(name string, rows, cols int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("operation failed", "name", name, "duration", d, "err", err)
		return
	}
	h.logger.Debug("operation completed", "name", name, "rows", rows, "cols", cols, "duration", d)
}

func (h *logHooks) OnStepBack(name string, remaining int) {
	h.logger.Debug("stepped back", "undone", name, "remaining", remaining)
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
