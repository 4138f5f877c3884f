package mcp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/analogd/internal/analogy"
	"github.com/fyrsmithlabs/analogd/internal/conceptgraph"
	"github.com/fyrsmithlabs/analogd/internal/patterns"
)

func newTestDeps(t *testing.T) (*analogy.Engine, *conceptgraph.Graph, *patterns.Library) {
	t.Helper()

	lib, err := patterns.NewLibrary(filepath.Join(t.TempDir(), "patterns.json"), zap.NewNop())
	require.NoError(t, err)

	eng, err := analogy.NewEngine(lib, zap.NewNop())
	require.NoError(t, err)

	return eng, conceptgraph.NewGraph(nil), lib
}

func TestNewServer(t *testing.T) {
	eng, graph, lib := newTestDeps(t)

	srv, err := NewServer(nil, eng, graph, lib)
	require.NoError(t, err)
	assert.NotNil(t, srv)
	assert.NotNil(t, srv.mcp)
	assert.NotNil(t, srv.metrics)
}

func TestNewServerRequiresDependencies(t *testing.T) {
	eng, graph, lib := newTestDeps(t)

	tests := []struct {
		name    string
		engine  *analogy.Engine
		graph   *conceptgraph.Graph
		library *patterns.Library
	}{
		{name: "nil engine", engine: nil, graph: graph, library: lib},
		{name: "nil graph", engine: eng, graph: nil, library: lib},
		{name: "nil library", engine: eng, graph: graph, library: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServer(nil, tt.engine, tt.graph, tt.library)
			assert.Error(t, err)
		})
	}
}

func TestListToolsExposesEveryTool(t *testing.T) {
	eng, graph, lib := newTestDeps(t)

	srv, err := NewServer(nil, eng, graph, lib)
	require.NoError(t, err)

	expected := []string{
		"analogy_find",
		"concept_register",
		"concept_query",
		"concept_strengthen",
		"concept_stats",
		"pattern_add",
		"pattern_search",
		"pattern_stats",
	}

	tools := srv.ListTools()
	assert.Len(t, tools, len(expected))
	for _, name := range expected {
		assert.Contains(t, tools, name)
	}
}

func TestNewServerCustomConfig(t *testing.T) {
	eng, graph, lib := newTestDeps(t)

	cfg := &Config{Name: "analogd-test", Version: "0.0.1", Logger: zap.NewNop()}
	srv, err := NewServer(cfg, eng, graph, lib)
	require.NoError(t, err)
	assert.NotNil(t, srv)
}
