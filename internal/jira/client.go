// Package jira holds typed per-resource services on top of the request
// dispatcher. Each method builds one descriptor and dispatches it.
package jira

import (
	"github.com/brizzai/auto-jira/internal/requester"
	"go.uber.org/fx"
)

const (
	agilePath    = "/rest/agile/1.0"
	platformPath = "/rest/api/3"
)

// Client groups the resource services that share one dispatcher.
type Client struct {
	Boards     *BoardService
	IssueTypes *IssueTypeService
	Search     *SearchService
	Workflows  *WorkflowService
}

// NewClient wires every service to d.
func NewClient(d *requester.Dispatcher) *Client {
	return &Client{
		Boards:     &BoardService{dispatcher: d},
		IssueTypes: &IssueTypeService{dispatcher: d},
		Search:     &SearchService{dispatcher: d},
		Workflows:  &WorkflowService{dispatcher: d},
	}
}

// Module provides the typed Jira client
var Module = fx.Module("jira",
	fx.Provide(NewClient),
)

// Page carries the pagination fields shared by Jira list responses.
type Page struct {
	StartAt    int  `json:"startAt"`
	MaxResults int  `json:"maxResults"`
	Total      int  `json:"total"`
	IsLast     bool `json:"isLast"`
}
