package portal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"portalkombat/internal/domain"
)

// Token field names FortiGate portals require on every submission
const (
	FieldMagic   = "magic"
	Field4Tredir = "4Tredir"
)

// DefaultTokenFields are other anti-forgery or session field names worth
// echoing back when a portal page carries them
var DefaultTokenFields = []string{"csrf_token", "_token", "authenticity_token", "redirurl"}

// FormExtractor scrapes the submission target and token fields of a login page
type FormExtractor struct {
	tokens map[string]struct{}
}

// NewFormExtractor recognises magic and 4Tredir plus any extra names
func NewFormExtractor(extra ...string) *FormExtractor {
	tokens := map[string]struct{}{
		FieldMagic:   {},
		Field4Tredir: {},
	}
	for _, name := range extra {
		if name = strings.TrimSpace(name); name != "" {
			tokens[name] = struct{}{}
		}
	}
	return &FormExtractor{tokens: tokens}
}

// Extract returns the first form's action under domain.FieldSubmit followed
// by the recognised token fields in document order. It performs no I/O.
func (e *FormExtractor) Extract(html string) (domain.Fields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	form := doc.Find("form").First()
	if form.Length() == 0 {
		return nil, &ParseError{Reason: "no form element"}
	}

	fields := domain.Fields{}
	action, _ := form.Attr("action")
	fields.Set(domain.FieldSubmit, strings.TrimSpace(action))

	form.Find("input[name]").Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		if _, ok := e.tokens[name]; !ok {
			return
		}
		value, _ := input.Attr("value")
		fields.Set(name, value)
	})

	return fields, nil
}

// ExtractForm runs the default extractor over html
func ExtractForm(html string) (domain.Fields, error) {
	return NewFormExtractor().Extract(html)
}
