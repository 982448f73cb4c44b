package codec

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"portalkombat/internal/domain"
)

// YAMLCodec handles YAML export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlHistory represents the YAML structure for login history
type yamlHistory struct {
	Attempts []yamlAttempt `yaml:"attempts"`
}

type yamlAttempt struct {
	ID         string `yaml:"id"`
	At         string `yaml:"at"`
	PortalURL  string `yaml:"portal_url"`
	PortalHost string `yaml:"portal_host"`
	Outcome    string `yaml:"outcome"`
	Detail     string `yaml:"detail,omitempty"`
}

// Export writes attempts under a top-level attempts key
func (c *YAMLCodec) Export(attempts []domain.Attempt, w io.Writer) error {
	doc := yamlHistory{Attempts: make([]yamlAttempt, 0, len(attempts))}
	for _, a := range attempts {
		doc.Attempts = append(doc.Attempts, yamlAttempt{
			ID:         a.ID,
			At:         a.At.UTC().Format(time.RFC3339),
			PortalURL:  a.PortalURL,
			PortalHost: a.PortalHost,
			Outcome:    a.Outcome.String(),
			Detail:     a.Detail,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
