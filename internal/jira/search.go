package jira

import (
	"context"
	"net/http"

	"github.com/brizzai/auto-jira/internal/requester"
)

type SearchService struct {
	dispatcher *requester.Dispatcher
}

// SearchOptions tunes a JQL search. Fields and Expand are sent comma joined.
type SearchOptions struct {
	StartAt       int
	MaxResults    int
	Fields        []string
	Expand        []string
	ValidateQuery string
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	JQL           string   `json:"jql"`
	StartAt       int      `json:"startAt,omitempty"`
	MaxResults    int      `json:"maxResults,omitempty"`
	Fields        []string `json:"fields,omitempty"`
	Expand        []string `json:"expand,omitempty"`
	ValidateQuery string   `json:"validateQuery,omitempty"`
}

type SearchResults struct {
	Expand     string  `json:"expand,omitempty"`
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

type Issue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Self   string         `json:"self,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// JQL searches issues with a GET request. opts may be nil.
func (s *SearchService) JQL(ctx context.Context, jql string, opts *SearchOptions) (*requester.Result[SearchResults], error) {
	params := map[string]any{"jql": jql}
	if opts != nil {
		if opts.StartAt > 0 {
			params["startAt"] = opts.StartAt
		}
		if opts.MaxResults > 0 {
			params["maxResults"] = opts.MaxResults
		}
		if len(opts.Fields) > 0 {
			params["fields"] = opts.Fields
		}
		if len(opts.Expand) > 0 {
			params["expand"] = opts.Expand
		}
		if opts.ValidateQuery != "" {
			params["validateQuery"] = opts.ValidateQuery
		}
	}

	return requester.Dispatch[SearchResults](ctx, s.dispatcher, &requester.Descriptor{
		Path:        platformPath + "/search",
		Method:      http.MethodGet,
		QueryParams: params,
		QueryStyles: map[string]requester.QueryStyle{
			"fields": requester.QueryStyleComma,
			"expand": requester.QueryStyleComma,
		},
		IsResponseAvailable: true,
	})
}

// Post searches with the query in the request body, for JQL too long for a URL.
func (s *SearchService) Post(ctx context.Context, req *SearchRequest) (*requester.Result[SearchResults], error) {
	body, err := requester.JSONBody(req)
	if err != nil {
		return nil, requester.Malformed("search: %v", err)
	}
	return requester.Dispatch[SearchResults](ctx, s.dispatcher, &requester.Descriptor{
		Path:                platformPath + "/search",
		Method:              http.MethodPost,
		Body:                body,
		IsResponseAvailable: true,
	})
}
