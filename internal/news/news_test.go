package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTextPickFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		text Text
		lang string
		want string
	}{
		{"english first", Text{"en": "Hello", "fr": "Bonjour"}, "fr", "Hello"},
		{"requested language when no english", Text{"de": "Hallo", "fr": "Bonjour"}, "de", "Hallo"},
		{"french fallback", Text{"fr": "Bonjour"}, "de", "Bonjour"},
		{"empty english skipped", Text{"en": "", "fr": "Bonjour"}, "en", "Bonjour"},
		{"any remaining entry", Text{"es": "Hola"}, "de", "Hola"},
		{"nothing", Text{}, "en", ""},
	}
	for _, tt := range tests {
		if got := tt.text.Pick(tt.lang); got != tt.want {
			t.Fatalf("%s: Pick(%q) = %q; want %q", tt.name, tt.lang, got, tt.want)
		}
	}
}

func TestTextUnmarshalLegacyString(t *testing.T) {
	var st Story
	payload := `{"timestamp":"2025-08-30T12:00:00Z","title":"Plain headline","summary":{"en":"Body"},"url":"https://example.com/a"}`
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		t.Fatalf("unmarshal legacy story: %v", err)
	}
	if got := st.Title.Pick("en"); got != "Plain headline" {
		t.Fatalf("legacy title = %q; want %q", got, "Plain headline")
	}
}

func TestPreviewPassThrough(t *testing.T) {
	if got := Preview("short text", 380); got != "short text" {
		t.Fatalf("Preview() = %q; want unchanged", got)
	}
}

func TestPreviewStripsMarkup(t *testing.T) {
	got := Preview("<p>Chips &amp; <b>fabs</b>\n\nsurge</p>", 380)
	if got != "Chips & fabs surge" {
		t.Fatalf("Preview() = %q; want %q", got, "Chips & fabs surge")
	}
}

func TestPreviewCutsOnWordBoundary(t *testing.T) {
	text := strings.Repeat("word ", 100) // 500 chars
	got := Preview(text, 380)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("Preview() = %q; want ellipsis suffix", got)
	}
	if strings.HasSuffix(got, "wor…") {
		t.Fatalf("Preview() cut mid-word: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > 381 {
		t.Fatalf("Preview() length = %d runes; want <= 381", n)
	}
}

func TestPreviewNoLimit(t *testing.T) {
	text := strings.Repeat("x", 1000)
	if got := Preview(text, 0); len(got) != 1000 {
		t.Fatalf("Preview(limit=0) length = %d; want 1000", len(got))
	}
}

func TestServiceLocalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/news" {
			t.Errorf("request path = %q; want /api/news", r.URL.Path)
		}
		w.Write([]byte(`[
			{"timestamp":"2025-08-30T12:00:00Z","title":{"en":"TSMC beats","fr":"TSMC dépasse"},"summary":{"en":"` + strings.Repeat("long ", 100) + `"},"url":"https://example.com/a","source":"wire","categories":["semis"]},
			{"timestamp":"2025-08-30T11:00:00Z","title":{"fr":"Marchés en hausse"},"summary":{"fr":"Texte court"},"url":"https://example.com/b"}
		]`))
	}))
	defer srv.Close()

	svc := NewService(NewClient(srv.URL, srv.Client()), 380)
	stories, err := svc.Localized(context.Background(), "fr", 0)
	if err != nil {
		t.Fatalf("Localized() error = %v", err)
	}
	if len(stories) != 2 {
		t.Fatalf("Localized() returned %d stories; want 2", len(stories))
	}
	if stories[0].Title != "TSMC beats" {
		t.Fatalf("story 0 title = %q; want english-first pick", stories[0].Title)
	}
	if !strings.HasSuffix(stories[0].Summary, "…") {
		t.Fatalf("story 0 summary not truncated: %q", stories[0].Summary)
	}
	if stories[1].Title != "Marchés en hausse" {
		t.Fatalf("story 1 title = %q; want french fallback", stories[1].Title)
	}
}

func TestServiceLocalizedLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"timestamp":"1","title":{"en":"a"},"summary":{"en":"a"},"url":"u"},
			{"timestamp":"2","title":{"en":"b"},"summary":{"en":"b"},"url":"u"},
			{"timestamp":"3","title":{"en":"c"},"summary":{"en":"c"},"url":"u"}
		]`))
	}))
	defer srv.Close()

	svc := NewService(NewClient(srv.URL, srv.Client()), 380)
	stories, err := svc.Localized(context.Background(), "en", 2)
	if err != nil {
		t.Fatalf("Localized() error = %v", err)
	}
	if len(stories) != 2 {
		t.Fatalf("Localized(limit=2) returned %d stories; want 2", len(stories))
	}
}
