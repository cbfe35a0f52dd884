package model

import (
	"errors"
	"fmt"
)

var (
	// ErrLogoTooLarge is returned when a logo exceeds MaxLogoBytes
	ErrLogoTooLarge = errors.New("logo exceeds 2 MiB")

	// ErrDraftNotFound is returned when no draft is stored under a key
	ErrDraftNotFound = errors.New("draft not found")

	// ErrItemNotFound is returned for edits addressing an unknown line item
	ErrItemNotFound = errors.New("line item not found")
)

// AssetError represents a rejected upload
type AssetError struct {
	Asset string
	Size  int
	Limit int
	Cause error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("%s rejected: %d bytes (limit %d): %v", e.Asset, e.Size, e.Limit, e.Cause)
}

func (e *AssetError) Unwrap() error {
	return e.Cause
}

// NewAssetError creates a new asset error
func NewAssetError(asset string, size, limit int, cause error) *AssetError {
	return &AssetError{
		Asset: asset,
		Size:  size,
		Limit: limit,
		Cause: cause,
	}
}

// DraftError represents an unreadable or corrupt persisted draft
type DraftError struct {
	Key     string
	Message string
	Cause   error
}

func (e *DraftError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("draft %q: %s (%v)", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("draft %q: %s", e.Key, e.Message)
}

func (e *DraftError) Unwrap() error {
	return e.Cause
}

// NewDraftError creates a new draft error
func NewDraftError(key, message string, cause error) *DraftError {
	return &DraftError{
		Key:     key,
		Message: message,
		Cause:   cause,
	}
}

// ExportError represents rasterization or document writer failures
type ExportError struct {
	Format  string
	Stage   string
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed [%s/%s]: %s (%v)", e.Format, e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("export failed [%s/%s]: %s", e.Format, e.Stage, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new export error
func NewExportError(format, stage, message string, cause error) *ExportError {
	return &ExportError{
		Format:  format,
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}
