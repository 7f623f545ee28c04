package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// sofficeNames are the on-PATH command names tried after the known install
// locations.
var sofficeNames = []string{"soffice", "libreoffice"}

// sofficeInstallPaths lists known install locations per platform, searched
// in order before falling back to PATH lookup.
func sofficeInstallPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/LibreOffice.app/Contents/MacOS/soffice",
		}
	case "windows":
		return []string{
			`C:\Program Files\LibreOffice\program\soffice.exe`,
			`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
		}
	default:
		return []string{
			"/usr/bin/soffice",
			"/usr/bin/libreoffice",
			"/usr/local/bin/soffice",
			"/opt/libreoffice/program/soffice",
			"/snap/bin/libreoffice",
		}
	}
}

// LookupSoffice resolves the headless office executable. It checks the
// platform's known install paths first, then PATH.
func LookupSoffice() (string, error) {
	for _, p := range sofficeInstallPaths() {
		if ok, _ := nonEmptyFile(p); ok {
			return p, nil
		}
	}
	for _, name := range sofficeNames {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", ErrExecutableNotFound
}

// SofficeBackend converts documents with a local headless LibreOffice
// process.
type SofficeBackend struct {
	// Executable is the resolved soffice binary. Required.
	Executable string
	// Timeout bounds one subprocess invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewSofficeBackend resolves the executable and returns a ready backend.
func NewSofficeBackend(timeout time.Duration) (*SofficeBackend, error) {
	exe, err := LookupSoffice()
	if err != nil {
		return nil, err
	}
	return &SofficeBackend{Executable: exe, Timeout: timeout}, nil
}

func (b *SofficeBackend) Name() string { return "soffice" }

// Render invokes soffice --headless --convert-to pdf. The subprocess is
// bounded by a hard wall-clock timeout; on expiry the whole process group is
// killed so no orphaned office children linger.
func (b *SofficeBackend) Render(ctx context.Context, job Job) (string, error) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204 -- executable resolved from a fixed list, arguments are paths
	cmd := exec.CommandContext(ctx, b.Executable,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", job.OutDir,
		job.InputPath,
	)
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		killProcessGroup(cmd.Process.Pid)
		return nil
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("soffice: %w: %s", err, stderr.String())
	}

	// Exit code zero is not trusted on its own; the chain re-verifies the
	// artifact, this just reports the deterministic location.
	return job.ExpectedArtifact(), nil
}
