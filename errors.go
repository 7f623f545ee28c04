package docx2pdf

import "errors"

// Sentinel errors for conversion operations.
var (
	ErrUnsupportedExtension = errors.New("input must be a Word document (.doc or .docx)")
	ErrEmptyInputPath       = errors.New("input path cannot be empty")
	ErrEmptyOutputPath      = errors.New("output path cannot be empty")
	ErrRenderFailed         = errors.New("document rendering failed")
	ErrOverlayFailed        = errors.New("header overlay failed")

	// Option validation errors.
	ErrInvalidHeaderMode = errors.New("invalid header mode")
	ErrInvalidFontSize   = errors.New("invalid font size")
)
