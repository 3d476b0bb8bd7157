package service

import (
	"context"
	"fmt"
	"os"

	"github.com/AnTengye/carrierdiscounts/config"
	"github.com/xuri/excelize/v2"
)

// WorkbookSource opens the contract workbook. Every call returns a freshly
// parsed file which the caller must Close.
type WorkbookSource interface {
	Open(ctx context.Context) (*excelize.File, error)
	// Check verifies the workbook is reachable without parsing it.
	Check(ctx context.Context) error
	// Describe names the workbook location for logs.
	Describe() string
}

// NewWorkbookSource builds the source selected by cfg.Source.
func NewWorkbookSource(cfg *config.WorkbookConfig) (WorkbookSource, error) {
	switch cfg.Source {
	case config.SourceFile, "":
		return &FileSource{Path: cfg.Path}, nil
	case config.SourceMinio:
		return NewMinioSource(&cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown workbook source %q", cfg.Source)
	}
}

// FileSource reads the workbook from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) Open(ctx context.Context) (*excelize.File, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkbookUnavailable, err)
	}
	return f, nil
}

func (s *FileSource) Check(ctx context.Context) error {
	if _, err := os.Stat(s.Path); err != nil {
		return fmt.Errorf("%w: %w", ErrWorkbookUnavailable, err)
	}
	return nil
}

func (s *FileSource) Describe() string {
	return "file://" + s.Path
}
