package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"portalkombat/internal/domain"
)

// JSONCodec handles JSON export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export writes attempts as an indented JSON array
func (c *JSONCodec) Export(attempts []domain.Attempt, w io.Writer) error {
	if attempts == nil {
		attempts = []domain.Attempt{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(attempts); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
