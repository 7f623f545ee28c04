package main

import (
	"fmt"
	"io"

	"github.com/avelar/go-docx2pdf/internal/render"
)

// runDoctor probes the host once and reports backend availability.
// Exit codes: 0 = at least the fallback chain is usable, 1 = temp dir broken.
func runDoctor(hosted render.HostedConfig, w io.Writer) int {
	caps := render.Probe(hosted)

	fmt.Fprintln(w, "docx2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Render backends (priority order)")
	if caps.HostedConfigured {
		fmt.Fprintln(w, "  [OK] hosted: configured")
	} else {
		fmt.Fprintln(w, "  [--] hosted: no API credential configured")
	}
	if caps.SofficeFound {
		fmt.Fprintf(w, "  [OK] soffice: %s\n", caps.SofficePath)
	} else {
		fmt.Fprintln(w, "  [--] soffice: not found (install LibreOffice for native .doc/.docx fidelity)")
	}
	if caps.ChromeFound {
		fmt.Fprintf(w, "  [OK] chrome: %s\n", caps.ChromePath)
	} else {
		fmt.Fprintln(w, "  [--] chrome: not found (set ROD_BROWSER_BIN or install Chrome)")
	}
	fmt.Fprintln(w, "  [OK] fallback: built in")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if caps.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if !caps.TempWritable {
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
		return exitError
	}
	fmt.Fprintln(w, "Status: Ready to convert")
	return exitSuccess
}
