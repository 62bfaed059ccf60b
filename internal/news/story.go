// Package news models the proxy's multilingual stories and flattens them to
// one display language for the API.
package news

import (
	"encoding/json"
	"strings"
)

// Text is a language-keyed string that also accepts the legacy plain-string
// encoding some feeds still deliver.
type Text map[string]string

func (t *Text) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text{"en": s}
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*t = Text(m)
	return nil
}

// Pick selects the display string for a language using the EN → requested
// language → FR fallback chain, then any remaining non-empty entry.
func (t Text) Pick(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if s := t["en"]; s != "" {
		return s
	}
	if s := t[lang]; s != "" {
		return s
	}
	if s := t["fr"]; s != "" {
		return s
	}
	for _, s := range t {
		if s != "" {
			return s
		}
	}
	return ""
}

// Story is one multilingual news item as delivered by the proxy.
type Story struct {
	Timestamp  string   `json:"timestamp"`
	Title      Text     `json:"title"`
	Summary    Text     `json:"summary"`
	URL        string   `json:"url"`
	ImageURL   string   `json:"image_url,omitempty"`
	Source     string   `json:"source,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// LocalizedStory is a story flattened to one display language, with the
// summary reduced to a preview.
type LocalizedStory struct {
	Timestamp  string   `json:"timestamp"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	URL        string   `json:"url"`
	ImageURL   string   `json:"image_url,omitempty"`
	Source     string   `json:"source,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}
