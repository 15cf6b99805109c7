package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/databroom/databroom/pkg/observability"
)

func TestLogHooksWriteAtDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.InfoLevel)}

	h.OnOperationStart("clean_all", 10, 3)
	h.OnCacheHit(context.Background(), "table")
	if buf.Len() != 0 {
		t.Errorf("hooks logged at info level: %q", buf.String())
	}

	h.logger.SetLevel(log.DebugLevel)
	h.OnOperationStart("clean_all", 10, 3)
	h.OnOperationComplete("clean_all", 9, 2, time.Millisecond, nil)
	h.OnOperationComplete("rename_column", 0, 0, time.Millisecond, errors.New("boom"))
	h.OnStepBack("clean_all", 0)
	h.OnCacheMiss(context.Background(), "table")
	h.OnCacheSet(context.Background(), "table", 512)

	out := buf.String()
	for _, want := range []string{
		"operation started", "operation completed", "operation failed",
		"stepped back", "cache miss", "cache set",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestRegisterHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	c := New(&bytes.Buffer{}, LogInfo)
	c.registerHooks()

	if _, ok := observability.Pipeline().(*logHooks); !ok {
		t.Errorf("pipeline hooks = %T, want *logHooks", observability.Pipeline())
	}
	if _, ok := observability.Cache().(*logHooks); !ok {
		t.Errorf("cache hooks = %T, want *logHooks", observability.Cache())
	}
}
