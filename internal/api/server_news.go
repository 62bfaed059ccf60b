package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tjenkins47/ai-news-agent/internal/news"
)

func registerNewsHandlers(api huma.API, svc NewsService) {
	type newsInput struct {
		Lang  string `query:"lang" default:"en" doc:"Display language for titles and summaries"`
		Limit int    `query:"limit" default:"0" doc:"Maximum stories to return; 0 for all"`
	}
	type newsOutput struct {
		Body struct {
			Stories []news.LocalizedStory `json:"stories"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-news", Method: http.MethodGet, Path: "/api/v1/news", Summary: "Get localized news stories", Tags: []string{"News"}},
		func(ctx context.Context, input *newsInput) (*newsOutput, error) {
			stories, err := svc.Localized(ctx, input.Lang, input.Limit)
			if err != nil {
				return nil, mapErr(err)
			}
			if stories == nil {
				stories = []news.LocalizedStory{}
			}
			out := &newsOutput{}
			out.Body.Stories = stories
			return out, nil
		})
}
