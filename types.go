package docx2pdf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avelar/go-docx2pdf/internal/render"
)

// Header rewrite modes. The mode is a deployment choice, fixed per
// converter — the PDF overlay stage re-asserts the header text either way.
const (
	// HeaderModeStamp writes "{base}_Part{n}" into each section header.
	HeaderModeStamp = "stamp"
	// HeaderModeSuppress clears every section header entirely.
	HeaderModeSuppress = "suppress"
)

// Font defaults forced onto every run during the rewrite.
const (
	DefaultFontFamily = "Times New Roman"
	DefaultFontSize   = 10 // points

	MinFontSize = 6
	MaxFontSize = 72
)

// defaultTimeout bounds a single render backend invocation.
const defaultTimeout = 2 * time.Minute

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout    time.Duration
	headerMode string
	fontFamily string
	fontSize   int
	hosted     render.HostedConfig
	caps       *render.Capabilities
	logger     *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithTimeout sets the per-backend render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("docx2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithHeaderMode selects between header stamping and suppression.
// Panics on an unknown mode (programmer error; use ValidateHeaderMode for
// user-supplied values).
func WithHeaderMode(mode string) Option {
	if err := ValidateHeaderMode(mode); err != nil {
		panic("docx2pdf: " + err.Error())
	}
	return func(c *Converter) {
		c.cfg.headerMode = strings.ToLower(mode)
	}
}

// WithFont sets the family and size (points) forced onto every run.
func WithFont(family string, sizePt int) Option {
	return func(c *Converter) {
		c.cfg.fontFamily = family
		c.cfg.fontSize = sizePt
	}
}

// WithHostedAPI configures the hosted conversion backend. The backend is
// only placed in the chain when both endpoint and key are non-empty.
func WithHostedAPI(endpoint, apiKey string) Option {
	return func(c *Converter) {
		c.cfg.hosted.Endpoint = endpoint
		c.cfg.hosted.APIKey = apiKey
	}
}

// WithCapabilities injects a pre-probed capability record, avoiding a
// second host probe when the caller already ran one at startup.
func WithCapabilities(caps render.Capabilities) Option {
	return func(c *Converter) {
		c.cfg.caps = &caps
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = logger
	}
}

// ValidateHeaderMode checks a user-supplied header mode string.
func ValidateHeaderMode(mode string) error {
	switch strings.ToLower(mode) {
	case HeaderModeStamp, HeaderModeSuppress:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidHeaderMode, mode, HeaderModeStamp, HeaderModeSuppress)
	}
}

// ValidateFontSize checks a user-supplied font size in points.
func ValidateFontSize(sizePt int) error {
	if sizePt < MinFontSize || sizePt > MaxFontSize {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidFontSize, sizePt, MinFontSize, MaxFontSize)
	}
	return nil
}
