package utils

import (
	"fmt"
)

// Input size limits (in bytes)
const (
	MaxCompositionSize = 1 * 1024 * 1024 // 1MB - composition document limit
	MaxCatalogFileSize = 512 * 1024      // 512KB - single capsule catalog file
)

// SizeValidator validates payload size limits
type SizeValidator struct {
	maxSize int
}

// NewSizeValidator creates a new validator with the specified max size.
// A non-positive size falls back to MaxCompositionSize.
func NewSizeValidator(maxSize int) *SizeValidator {
	if maxSize <= 0 {
		maxSize = MaxCompositionSize
	}
	return &SizeValidator{maxSize: maxSize}
}

// ValidateSize checks if the data size is within limits
func (v *SizeValidator) ValidateSize(data []byte) error {
	size := len(data)
	if size > v.maxSize {
		return fmt.Errorf("input size %d bytes exceeds maximum %d bytes", size, v.maxSize)
	}
	return nil
}
