package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	docx2pdf "github.com/avelar/go-docx2pdf"
	"github.com/avelar/go-docx2pdf/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidArgs      = errors.New("usage: docx2pdf [flags] <input.docx> <output.pdf>")
	ErrInputNotFound    = errors.New("input file not found")
	ErrInvalidExtension = errors.New("file must have a .doc or .docx extension")
)

// Converter is the interface for the conversion service.
type Converter interface {
	ConvertFile(ctx context.Context, inputPath, outputPath string) error
}

// run validates arguments and delegates to the conversion service.
func run(ctx context.Context, args []string, conv Converter, stdout io.Writer) error {
	if len(args) != 2 {
		return ErrInvalidArgs
	}
	inputPath, outputPath := args[0], args[1]

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".doc" && ext != ".docx" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	if !fileutil.FileExists(inputPath) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}

	if err := conv.ConvertFile(ctx, inputPath, outputPath); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Created %s\n", outputPath)
	return nil
}

// buildOptions translates CLI flags into converter options.
func buildOptions(f *cliFlags) ([]docx2pdf.Option, error) {
	if err := docx2pdf.ValidateHeaderMode(f.headerMode); err != nil {
		return nil, err
	}
	if err := docx2pdf.ValidateFontSize(f.fontSize); err != nil {
		return nil, err
	}

	opts := []docx2pdf.Option{
		docx2pdf.WithHeaderMode(strings.ToLower(f.headerMode)),
		docx2pdf.WithFont(f.fontFamily, f.fontSize),
		docx2pdf.WithTimeout(f.timeout),
	}
	if f.apiEndpoint != "" && f.apiKey != "" {
		opts = append(opts, docx2pdf.WithHostedAPI(f.apiEndpoint, f.apiKey))
	}
	return opts, nil
}
