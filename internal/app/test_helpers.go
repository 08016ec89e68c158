package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/slotkit/internal/component"
	"github.com/specialistvlad/slotkit/internal/hcl_adapter"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. It returns the
// app, the rendered output buffer and the log buffer.
func SetupAppTest(t *testing.T, appConfig *Config, defs ...*component.Definition) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	out := &SafeBuffer{}
	logBuffer := &SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp := NewApp(out, logBuffer, appConfig, hcl_adapter.NewLoader(), defs...)

	t.Cleanup(func() {
		if os.Getenv("SLOTKIT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, out, logBuffer
}
