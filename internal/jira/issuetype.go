package jira

import (
	"context"
	"net/http"

	"github.com/brizzai/auto-jira/internal/requester"
)

type IssueTypeService struct {
	dispatcher *requester.Dispatcher
}

type IssueType struct {
	ID             string `json:"id"`
	Self           string `json:"self,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	IconURL        string `json:"iconUrl,omitempty"`
	Subtask        bool   `json:"subtask"`
	HierarchyLevel int    `json:"hierarchyLevel"`
	EntityID       string `json:"entityId,omitempty"`
}

// List returns every issue type the caller can see.
func (s *IssueTypeService) List(ctx context.Context) (*requester.Result[[]IssueType], error) {
	return requester.Dispatch[[]IssueType](ctx, s.dispatcher, &requester.Descriptor{
		Path:                platformPath + "/issuetype",
		Method:              http.MethodGet,
		IsResponseAvailable: true,
	})
}

func (s *IssueTypeService) Get(ctx context.Context, id string) (*requester.Result[IssueType], error) {
	return requester.Dispatch[IssueType](ctx, s.dispatcher, &requester.Descriptor{
		Path:                platformPath + "/issuetype/{id}",
		Method:              http.MethodGet,
		PathParams:          map[string]any{"id": id},
		IsResponseAvailable: true,
	})
}

// Delete removes an issue type. Issues of that type move to alternativeID,
// which may be empty when no issues use it.
func (s *IssueTypeService) Delete(ctx context.Context, id, alternativeID string) (*requester.Result[requester.Void], error) {
	desc := &requester.Descriptor{
		Path:       platformPath + "/issuetype/{id}",
		Method:     http.MethodDelete,
		PathParams: map[string]any{"id": id},
	}
	if alternativeID != "" {
		desc.QueryParams = map[string]any{"alternativeIssueTypeId": alternativeID}
	}
	return requester.Dispatch[requester.Void](ctx, s.dispatcher, desc)
}
