package jira

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brizzai/auto-jira/internal/config"
	"github.com/brizzai/auto-jira/internal/requester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport answers every request with one canned response and
// keeps the last request.
type recordingTransport struct {
	last     *requester.Request
	response *requester.Response
}

func (r *recordingTransport) Execute(_ context.Context, req *requester.Request) (*requester.Response, error) {
	r.last = req
	return r.response, nil
}

func newTestClient(status int, body string) (*Client, *recordingTransport) {
	headers := make(http.Header)
	if body != "" {
		headers.Set("Content-Type", "application/json;charset=UTF-8")
	}
	transport := &recordingTransport{response: &requester.Response{
		StatusCode: status,
		Body:       []byte(body),
		Headers:    headers,
	}}
	return NewClient(requester.NewDispatcher(transport)), transport
}

func TestBoardService(t *testing.T) {
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		client, transport := newTestClient(http.StatusOK, `{"id":84,"name":"scrum board","type":"scrum"}`)

		res, err := client.Boards.Get(ctx, 84)
		require.NoError(t, err)
		require.True(t, res.OK)
		assert.Equal(t, Board{ID: 84, Name: "scrum board", Type: "scrum"}, res.Value)
		assert.Equal(t, http.MethodGet, transport.last.Method)
		assert.Equal(t, "/rest/agile/1.0/board/84", transport.last.URL)
	})

	t.Run("list with options", func(t *testing.T) {
		client, transport := newTestClient(http.StatusOK,
			`{"startAt":0,"maxResults":2,"total":3,"isLast":false,"values":[{"id":1,"name":"A"},{"id":2,"name":"B"}]}`)

		res, err := client.Boards.List(ctx, &BoardListOptions{
			MaxResults:     2,
			Type:           []string{"scrum", "kanban"},
			ProjectKeyOrID: "PROJ",
		})
		require.NoError(t, err)
		require.True(t, res.OK)
		assert.Equal(t, "/rest/agile/1.0/board?maxResults=2&projectKeyOrId=PROJ&type=scrum%2Ckanban", transport.last.URL)
		assert.Equal(t, 3, res.Value.Total)
		assert.Len(t, res.Value.Values, 2)
	})

	t.Run("list without options", func(t *testing.T) {
		client, transport := newTestClient(http.StatusOK, `{"values":[]}`)

		_, err := client.Boards.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "/rest/agile/1.0/board", transport.last.URL)
	})

	t.Run("create", func(t *testing.T) {
		client, transport := newTestClient(http.StatusCreated, `{"id":12,"name":"Team","type":"kanban"}`)

		res, err := client.Boards.Create(ctx, &CreateBoardRequest{
			Name:     "Team",
			Type:     "kanban",
			FilterID: 10040,
			Location: &CreateBoardLocation{Type: "project", ProjectKeyOrID: "PROJ"},
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, res.Status)
		assert.Equal(t, 12, res.Value.ID)
		assert.Equal(t, http.MethodPost, transport.last.Method)
		assert.Equal(t, "application/json", transport.last.Headers.Get("Content-Type"))
		assert.JSONEq(t,
			`{"name":"Team","type":"kanban","filterId":10040,"location":{"type":"project","projectKeyOrId":"PROJ"}}`,
			string(transport.last.Body))
	})

	t.Run("delete", func(t *testing.T) {
		client, transport := newTestClient(http.StatusNoContent, "")

		res, err := client.Boards.Delete(ctx, 84)
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Equal(t, http.StatusNoContent, res.Status)
		assert.Equal(t, requester.Void{}, res.Value)
		assert.Equal(t, http.MethodDelete, transport.last.Method)
		assert.Equal(t, "/rest/agile/1.0/board/84", transport.last.URL)
	})

	t.Run("not found", func(t *testing.T) {
		client, _ := newTestClient(http.StatusNotFound, `{"errorMessages":["Board does not exist"],"errors":{}}`)

		res, err := client.Boards.Get(ctx, 99)
		require.NoError(t, err)
		assert.False(t, res.OK)
		require.NotNil(t, res.Err)
		assert.ErrorIs(t, res.Err, requester.ErrRemoteRejected)
		assert.Equal(t, http.StatusNotFound, res.Err.Status)
		require.NotNil(t, res.Err.Remote)
		assert.Equal(t, []string{"Board does not exist"}, res.Err.Remote.ErrorMessages)
	})
}

func TestIssueTypeService(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		client, transport := newTestClient(http.StatusOK, `[{"id":"10001","name":"Story"},{"id":"10002","name":"Sub-task","subtask":true}]`)

		res, err := client.IssueTypes.List(ctx)
		require.NoError(t, err)
		require.True(t, res.OK)
		assert.Equal(t, "/rest/api/3/issuetype", transport.last.URL)
		require.Len(t, res.Value, 2)
		assert.True(t, res.Value[1].Subtask)
	})

	t.Run("get", func(t *testing.T) {
		client, transport := newTestClient(http.StatusOK, `{"id":"10001","name":"Story","hierarchyLevel":0}`)

		res, err := client.IssueTypes.Get(ctx, "10001")
		require.NoError(t, err)
		assert.Equal(t, "Story", res.Value.Name)
		assert.Equal(t, "/rest/api/3/issuetype/10001", transport.last.URL)
	})

	t.Run("delete with alternative", func(t *testing.T) {
		client, transport := newTestClient(http.StatusNoContent, "")

		res, err := client.IssueTypes.Delete(ctx, "10001", "10002")
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Equal(t, "/rest/api/3/issuetype/10001?alternativeIssueTypeId=10002", transport.last.URL)
	})

	t.Run("delete without alternative", func(t *testing.T) {
		client, transport := newTestClient(http.StatusNoContent, "")

		_, err := client.IssueTypes.Delete(ctx, "10001", "")
		require.NoError(t, err)
		assert.Equal(t, "/rest/api/3/issuetype/10001", transport.last.URL)
	})

	t.Run("empty id is malformed", func(t *testing.T) {
		client, transport := newTestClient(http.StatusOK, `{}`)

		_, err := client.IssueTypes.Get(ctx, "")
		assert.ErrorIs(t, err, requester.ErrMalformedRequest)
		assert.Nil(t, transport.last)
	})
}

func TestSearchService(t *testing.T) {
	ctx := context.Background()
	results := `{"startAt":0,"maxResults":50,"total":1,"issues":[{"id":"10000","key":"PROJ-1","fields":{"summary":"First"}}]}`

	t.Run("jql get", func(t *testing.T) {
		client, transport := newTestClient(http.StatusOK, results)

		res, err := client.Search.JQL(ctx, `project = PROJ ORDER BY created`, &SearchOptions{
			MaxResults: 50,
			Fields:     []string{"summary", "status"},
			Expand:     []string{"names", "schema"},
		})
		require.NoError(t, err)
		require.True(t, res.OK)
		assert.Equal(t,
			"/rest/api/3/search?expand=names%2Cschema&fields=summary%2Cstatus&jql=project+%3D+PROJ+ORDER+BY+created&maxResults=50",
			transport.last.URL)
		require.Len(t, res.Value.Issues, 1)
		assert.Equal(t, "PROJ-1", res.Value.Issues[0].Key)
		assert.Equal(t, "First", res.Value.Issues[0].Fields["summary"])
	})

	t.Run("jql post", func(t *testing.T) {
		client, transport := newTestClient(http.StatusOK, results)

		res, err := client.Search.Post(ctx, &SearchRequest{JQL: "assignee = currentUser()", Fields: []string{"summary"}})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Value.Total)
		assert.Equal(t, http.MethodPost, transport.last.Method)
		assert.Equal(t, "/rest/api/3/search", transport.last.URL)
		assert.JSONEq(t, `{"jql":"assignee = currentUser()","fields":["summary"]}`, string(transport.last.Body))
	})

	t.Run("invalid jql", func(t *testing.T) {
		client, _ := newTestClient(http.StatusBadRequest,
			`{"errorMessages":["Error in the JQL Query: Expecting operator but got 'x'."],"errors":{}}`)

		res, err := client.Search.JQL(ctx, "project x", nil)
		require.NoError(t, err)
		assert.False(t, res.OK)
		_, unwrapErr := res.Unwrap()
		assert.ErrorIs(t, unwrapErr, requester.ErrRemoteRejected)
		assert.Contains(t, unwrapErr.Error(), "Expecting operator")
	})
}

func TestWorkflowService(t *testing.T) {
	client, transport := newTestClient(http.StatusOK,
		`{"isLast":true,"maxResults":50,"startAt":0,"total":2,"values":[{"id":{"name":"classic","entityId":"a1"}},{"id":{"name":"Software Simplified Workflow"}}]}`)

	active := true
	res, err := client.Workflows.Search(context.Background(), &WorkflowSearchOptions{
		WorkflowName: []string{"classic", "Software Simplified Workflow"},
		IsActive:     &active,
	})
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t,
		"/rest/api/3/workflow/search?isActive=true&workflowName=classic&workflowName=Software+Simplified+Workflow",
		transport.last.URL)
	assert.True(t, res.Value.IsLast)
	require.Len(t, res.Value.Values, 2)
	assert.Equal(t, "classic", res.Value.Values[0].ID.Name)
}

// TestClientOverHTTP runs one call end to end through the direct transport.
func TestClientOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jira/rest/agile/1.0/board/84", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		assert.Equal(t, "api-token", pass)
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, strings.NewReader(`{"id":84,"name":"scrum board"}`))
	}))
	defer srv.Close()

	endpoint := &config.EndpointConfig{
		BaseURL:    srv.URL + "/jira",
		AuthType:   config.AuthTypeBasic,
		AuthConfig: map[string]string{"username": "me@example.com", "password": "api-token"},
	}
	transport, err := requester.NewHTTPTransport(endpoint, requester.NewHTTPAuthManager(endpoint))
	require.NoError(t, err)

	client := NewClient(requester.NewDispatcher(transport))
	board, err := client.Boards.Get(context.Background(), 84)
	require.NoError(t, err)

	value, err := board.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "scrum board", value.Name)
}
