// Package codec exports login history in machine-readable formats
package codec

import (
	"fmt"
	"io"
	"strings"

	"portalkombat/internal/domain"
)

// Exporter writes attempts in one format
type Exporter interface {
	Export(attempts []domain.Attempt, w io.Writer) error
	Format() string
}

// Formats lists the supported export formats
func Formats() []string {
	return []string{"json", "yaml"}
}

// ForFormat returns the exporter for name
func ForFormat(name string) (Exporter, error) {
	switch strings.ToLower(name) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Formats(), ", "))
	}
}
