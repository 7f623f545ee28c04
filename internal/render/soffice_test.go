package render

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSofficeRenderMissingExecutable(t *testing.T) {
	b := &SofficeBackend{Executable: "/nonexistent/soffice", Timeout: time.Second}
	_, err := b.Render(context.Background(), Job{InputPath: "doc.docx", OutDir: t.TempDir()})
	if err == nil {
		t.Fatal("Render() error = nil, want exec failure")
	}
}

func TestLookupSoffice(t *testing.T) {
	// Host-dependent: either a real path or the sentinel, never both.
	p, err := LookupSoffice()
	if err != nil {
		if !errors.Is(err, ErrExecutableNotFound) {
			t.Errorf("LookupSoffice() error = %v, want ErrExecutableNotFound", err)
		}
		if p != "" {
			t.Errorf("LookupSoffice() = %q with error", p)
		}
		return
	}
	if p == "" {
		t.Error("LookupSoffice() returned empty path without error")
	}
}

func TestSofficeInstallPathsNonEmpty(t *testing.T) {
	if len(sofficeInstallPaths()) == 0 {
		t.Error("sofficeInstallPaths() is empty")
	}
}
