package jira

import (
	"context"
	"net/http"

	"github.com/brizzai/auto-jira/internal/requester"
)

// BoardService covers the agile board endpoints.
type BoardService struct {
	dispatcher *requester.Dispatcher
}

type Board struct {
	ID       int            `json:"id"`
	Self     string         `json:"self,omitempty"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Location *BoardLocation `json:"location,omitempty"`
}

type BoardLocation struct {
	ProjectID      int    `json:"projectId,omitempty"`
	ProjectKey     string `json:"projectKey,omitempty"`
	ProjectName    string `json:"projectName,omitempty"`
	ProjectTypeKey string `json:"projectTypeKey,omitempty"`
	DisplayName    string `json:"displayName,omitempty"`
}

type BoardPage struct {
	Page
	Values []Board `json:"values"`
}

// BoardListOptions filters GET /board. Type accepts scrum, kanban and simple.
type BoardListOptions struct {
	StartAt        int      `url:"startAt,omitempty"`
	MaxResults     int      `url:"maxResults,omitempty"`
	Type           []string `url:"type,comma,omitempty"`
	Name           string   `url:"name,omitempty"`
	ProjectKeyOrID string   `url:"projectKeyOrId,omitempty"`
	OrderBy        string   `url:"orderBy,omitempty"`
	Expand         string   `url:"expand,omitempty"`
	IncludePrivate bool     `url:"includePrivate,omitempty"`
}

type CreateBoardRequest struct {
	Name     string               `json:"name"`
	Type     string               `json:"type"`
	FilterID int                  `json:"filterId"`
	Location *CreateBoardLocation `json:"location,omitempty"`
}

type CreateBoardLocation struct {
	Type           string `json:"type"`
	ProjectKeyOrID string `json:"projectKeyOrId,omitempty"`
}

// Get returns one board.
func (s *BoardService) Get(ctx context.Context, boardID int) (*requester.Result[Board], error) {
	return requester.Dispatch[Board](ctx, s.dispatcher, &requester.Descriptor{
		Path:                agilePath + "/board/{boardId}",
		Method:              http.MethodGet,
		PathParams:          map[string]any{"boardId": boardID},
		IsResponseAvailable: true,
	})
}

// List returns a page of boards visible to the caller. opts may be nil.
func (s *BoardService) List(ctx context.Context, opts *BoardListOptions) (*requester.Result[BoardPage], error) {
	desc := &requester.Descriptor{
		Path:                agilePath + "/board",
		Method:              http.MethodGet,
		IsResponseAvailable: true,
	}
	if opts != nil {
		desc.QueryOptions = opts
	}
	return requester.Dispatch[BoardPage](ctx, s.dispatcher, desc)
}

// Create creates a board from a saved filter.
func (s *BoardService) Create(ctx context.Context, req *CreateBoardRequest) (*requester.Result[Board], error) {
	body, err := requester.JSONBody(req)
	if err != nil {
		return nil, requester.Malformed("create board: %v", err)
	}
	return requester.Dispatch[Board](ctx, s.dispatcher, &requester.Descriptor{
		Path:                agilePath + "/board",
		Method:              http.MethodPost,
		Body:                body,
		IsResponseAvailable: true,
	})
}

// Delete removes a board. Jira answers 204 with no content.
func (s *BoardService) Delete(ctx context.Context, boardID int) (*requester.Result[requester.Void], error) {
	return requester.Dispatch[requester.Void](ctx, s.dispatcher, &requester.Descriptor{
		Path:       agilePath + "/board/{boardId}",
		Method:     http.MethodDelete,
		PathParams: map[string]any{"boardId": boardID},
	})
}
