package render

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod/lib/launcher"
)

// Capabilities is the immutable result of probing the host for render
// backends. It is produced once at startup and consulted when building a
// chain — never re-checked mid-job.
type Capabilities struct {
	SofficePath  string
	SofficeFound bool

	ChromePath  string
	ChromeFound bool

	HostedConfigured bool

	TempWritable bool
}

// Probe inspects the host once and returns the capability record.
func Probe(hosted HostedConfig) Capabilities {
	caps := Capabilities{HostedConfigured: hosted.Configured()}

	if p, err := LookupSoffice(); err == nil {
		caps.SofficePath = p
		caps.SofficeFound = true
	}

	chromePath := os.Getenv("ROD_BROWSER_BIN")
	if chromePath == "" {
		if p, found := launcher.LookPath(); found {
			chromePath = p
		}
	}
	if chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			caps.ChromePath = chromePath
			caps.ChromeFound = true
		}
	}

	caps.TempWritable = tempWritable()
	return caps
}

// tempWritable verifies the temp directory accepts writes.
func tempWritable() bool {
	probe := filepath.Join(os.TempDir(), "docx2pdf-probe")
	if err := os.WriteFile(probe, []byte("probe"), 0600); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}

// BuildChain assembles the backend chain in fixed priority order from the
// probed capabilities: hosted API (when a credential is configured), local
// office process, headless Chrome, pure-Go fallback. The fallback is always
// present so a chain is never empty.
func BuildChain(caps Capabilities, hosted HostedConfig, timeout time.Duration, logger *slog.Logger) *Chain {
	var backends []Backend

	if caps.HostedConfigured {
		cfg := hosted
		cfg.Timeout = timeout
		backends = append(backends, NewHostedBackend(cfg))
	}
	if caps.SofficeFound {
		backends = append(backends, &SofficeBackend{Executable: caps.SofficePath, Timeout: timeout})
	}
	if caps.ChromeFound {
		backends = append(backends, NewChromeBackend(timeout))
	}
	backends = append(backends, FallbackBackend{})

	return NewChain(logger, backends...)
}
