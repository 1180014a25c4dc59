// Package services implements the storage engine: content validation,
// quota accounting, the encrypt-compress-persist pipeline, and the
// ownership/sharing authorization model.
package services

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mkarulin/filevault/internal/common"
)

// Validator rejects uploads before any side effect: empty content, blank
// filenames, oversized payloads and content whose sniffed type is outside
// the allow-list.
type Validator struct {
	maxFileSize  int64
	allowedTypes map[string]struct{}
}

func NewValidator(maxFileSize int64, allowedTypes []string) *Validator {
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}
	return &Validator{maxFileSize: maxFileSize, allowedTypes: allowed}
}

// Validate checks content and filename and returns the detected content
// type. Detection sniffs the actual bytes, so a client-declared type or a
// misleading extension cannot smuggle a disallowed format through.
func (v *Validator) Validate(content []byte, filename string) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty content", common.ErrInvalidFile)
	}
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("%w: empty filename", common.ErrInvalidFile)
	}
	if int64(len(content)) > v.maxFileSize {
		return "", fmt.Errorf("%w: size %d exceeds maximum %d",
			common.ErrInvalidFile, len(content), v.maxFileSize)
	}

	detected := mimetype.Detect(content)
	mime := baseMIME(detected.String())
	if _, ok := v.allowedTypes[mime]; !ok {
		return "", fmt.Errorf("%w: content type %q not allowed", common.ErrInvalidFile, mime)
	}
	return mime, nil
}

// baseMIME strips parameters like "; charset=utf-8" from a detected type.
func baseMIME(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ';' {
			return s[:i]
		}
	}
	return s
}
