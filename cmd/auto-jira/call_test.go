package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/brizzai/auto-jira/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	args, err := parseParams([]string{
		"boardId=84",
		"type=[\"scrum\",\"kanban\"]",
		"jql=project = PROJ",
		"includePrivate=true",
		"name=",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"boardId":        float64(84),
		"type":           []any{"scrum", "kanban"},
		"jql":            "project = PROJ",
		"includePrivate": true,
		"name":           "",
	}, args)

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=x"})
	assert.Error(t, err)
}

func TestReadBody(t *testing.T) {
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "board.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"name":"Team","filterId":10040}`), 0o600))
	textFile := filepath.Join(dir, "value.txt")
	require.NoError(t, os.WriteFile(textFile, []byte("/var/jira"), 0o600))

	body, err := readBody(jsonFile, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Team", "filterId": float64(10040)}, body)

	body, err = readBody(textFile, nil)
	require.NoError(t, err)
	assert.Equal(t, "/var/jira", body)

	body, err = readBody("-", strings.NewReader(`[1,2]`))
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, body)

	_, err = readBody(filepath.Join(dir, "missing.json"), nil)
	assert.Error(t, err)
}

func TestPrintValue(t *testing.T) {
	value := map[string]any{
		"total": float64(2),
		"values": []any{
			map[string]any{"id": float64(1), "name": "Alpha"},
			map[string]any{"id": float64(2), "name": "Beta"},
		},
	}

	tests := []struct {
		name     string
		value    any
		expr     string
		expected string
		wantErr  bool
	}{
		{name: "plain json", value: map[string]any{"id": float64(84)}, expected: "{\n  \"id\": 84\n}\n"},
		{name: "plain text", value: "hello", expected: "hello\n"},
		{name: "jq strings", value: value, expr: ".values[].name", expected: "Alpha\nBeta\n"},
		{name: "jq numbers", value: value, expr: "[.values[].id]", expected: "[\n  1,\n  2\n]\n"},
		{name: "jq parse error", value: value, expr: ".values[", wantErr: true},
		{name: "jq runtime error", value: value, expr: ".total | keys", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := printValue(context.Background(), &out, tt.value, tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.String())
		})
	}
}

func TestRouteTable(t *testing.T) {
	data := routeTable([]*catalog.Route{
		{
			OperationID: "createBoard", Method: "POST", Path: "/rest/agile/1.0/board", Summary: "Create board",
			HasBody: true,
		},
		{
			OperationID: "getBoard", Method: "GET", Path: "/rest/agile/1.0/board/{boardId}",
			Params: []catalog.Param{{Name: "boardId", In: catalog.InPath, Required: true}, {Name: "expand", In: catalog.InQuery}},
		},
	})

	require.Len(t, data, 3)
	assert.Equal(t, []string{"createBoard", "POST", "/rest/agile/1.0/board", "body", "Create board"}, data[1])
	assert.Equal(t, "boardId*,expand", data[2][3])
}

func TestPopulate(t *testing.T) {
	cfg := &config.Config{
		Mode:        config.ModeHosted,
		Host:        config.HostConfig{ProxyURL: "http://127.0.0.1:9000"},
		OpenAPIFile: filepath.Join("..", "..", "internal", "catalog", "testdata", "jira.yaml"),
		Server:      config.ServerConfig{Name: "Auto Jira", Version: "test"},
	}

	var cat catalog.Catalog
	require.NoError(t, populate(cfg, &cat))
	_, ok := cat.Route("getBoard")
	assert.True(t, ok)

	cfg.OpenAPIFile = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, populate(cfg, &cat))
}

func TestFilterRoutes(t *testing.T) {
	routes := []*catalog.Route{
		{OperationID: "getAllBoards", Method: "GET", Path: "/rest/agile/1.0/board"},
		{OperationID: "createBoard", Method: "POST", Path: "/rest/agile/1.0/board"},
		{OperationID: "getBoard", Method: "GET", Path: "/rest/agile/1.0/board/{boardId}"},
		{OperationID: "getWorkflowsPaginated", Method: "GET", Path: "/rest/api/3/workflow/search"},
	}

	got := filterRoutes(routes, "GetBoard")
	require.NotEmpty(t, got)
	assert.Equal(t, "getBoard", got[0].OperationID)
	assert.Contains(t, got, routes[0])
	assert.NotContains(t, got, routes[3])

	assert.Empty(t, filterRoutes(routes, "zzz"))
	assert.Equal(t, routes, filterRoutes(routes, "  "))
}
