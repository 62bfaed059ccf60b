package news

import (
	"context"
	"log/slog"
)

// Fetcher is the slice of the proxy client the service needs.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Story, error)
}

// Service localizes and trims stories for display.
type Service struct {
	fetcher      Fetcher
	previewLimit int
}

func NewService(fetcher Fetcher, previewLimit int) *Service {
	if previewLimit <= 0 {
		previewLimit = DefaultPreviewLimit
	}
	return &Service{fetcher: fetcher, previewLimit: previewLimit}
}

// Localized fetches stories and flattens each to the requested language.
// limit <= 0 returns everything.
func (s *Service) Localized(ctx context.Context, lang string, limit int) ([]LocalizedStory, error) {
	stories, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(stories) > limit {
		stories = stories[:limit]
	}
	out := make([]LocalizedStory, 0, len(stories))
	for _, st := range stories {
		out = append(out, LocalizedStory{
			Timestamp:  st.Timestamp,
			Title:      st.Title.Pick(lang),
			Summary:    Preview(st.Summary.Pick(lang), s.previewLimit),
			URL:        st.URL,
			ImageURL:   st.ImageURL,
			Source:     st.Source,
			Categories: st.Categories,
			Tags:       st.Tags,
		})
	}
	slog.Debug("news localized", "lang", lang, "stories", len(out))
	return out, nil
}
