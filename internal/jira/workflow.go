package jira

import (
	"context"
	"net/http"

	"github.com/brizzai/auto-jira/internal/requester"
)

type WorkflowService struct {
	dispatcher *requester.Dispatcher
}

// WorkflowSearchOptions filters GET /workflow/search. Each WorkflowName is
// sent as its own workflowName parameter.
type WorkflowSearchOptions struct {
	StartAt      int      `url:"startAt,omitempty"`
	MaxResults   int      `url:"maxResults,omitempty"`
	WorkflowName []string `url:"workflowName,omitempty"`
	Expand       string   `url:"expand,omitempty"`
	QueryString  string   `url:"queryString,omitempty"`
	OrderBy      string   `url:"orderBy,omitempty"`
	IsActive     *bool    `url:"isActive,omitempty"`
}

type WorkflowID struct {
	Name     string `json:"name"`
	EntityID string `json:"entityId,omitempty"`
}

type Workflow struct {
	ID          WorkflowID `json:"id"`
	Description string     `json:"description,omitempty"`
	Created     string     `json:"created,omitempty"`
	Updated     string     `json:"updated,omitempty"`
	IsDefault   bool       `json:"isDefault,omitempty"`
}

type WorkflowPage struct {
	Page
	Values []Workflow `json:"values"`
}

// Search returns a page of workflows. opts may be nil.
func (s *WorkflowService) Search(ctx context.Context, opts *WorkflowSearchOptions) (*requester.Result[WorkflowPage], error) {
	desc := &requester.Descriptor{
		Path:                platformPath + "/workflow/search",
		Method:              http.MethodGet,
		IsResponseAvailable: true,
	}
	if opts != nil {
		desc.QueryOptions = opts
	}
	return requester.Dispatch[WorkflowPage](ctx, s.dispatcher, desc)
}
