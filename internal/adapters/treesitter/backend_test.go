//go:build cgo && !lean

package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/pysym/internal/ports"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	b := New(nil)
	require.NotNil(t, b, "builtin grammar must be present in default builds")
	return b
}

func TestBackend_Name(t *testing.T) {
	assert.Equal(t, "treesitter", newBackend(t).Name())
}

func TestBackend_TopLevelDeclarations(t *testing.T) {
	src := []byte("import os\n\ndef f(x):\n    return x\n\nclass C:\n    def m(self):\n        pass\n")
	nodes, fail := newBackend(t).Parse(src)
	require.Nil(t, fail)

	var funcs, classes, other int
	for _, n := range nodes {
		switch n.Kind {
		case ports.KindFunction:
			funcs++
			assert.Equal(t, "f", n.Name)
			require.NotNil(t, n.Span)
			assert.Equal(t, ports.Pos{Line: 3, Col: 0}, n.Span.Start)
			assert.Equal(t, ports.Pos{Line: 4, Col: 12}, n.Span.End)
		case ports.KindClass:
			classes++
			assert.Equal(t, "C", n.Name, "method m stays inside the class body")
		default:
			other++
		}
	}
	assert.Equal(t, 1, funcs)
	assert.Equal(t, 1, classes)
	assert.GreaterOrEqual(t, other, 1, "the import statement passes through")
}

func TestBackend_AsyncDef(t *testing.T) {
	nodes, fail := newBackend(t).Parse([]byte("async def fetch(url):\n    return url\n"))
	require.Nil(t, fail)
	require.Len(t, nodes, 1)
	assert.Equal(t, ports.KindFunction, nodes[0].Kind)
	assert.Equal(t, "fetch", nodes[0].Name)
}

func TestBackend_DecoratedDefinition(t *testing.T) {
	src := []byte("@deco\n@app.route(\"/x\")\ndef handler():\n    pass\n")
	nodes, fail := newBackend(t).Parse(src)
	require.Nil(t, fail)
	require.Len(t, nodes, 1)

	n := nodes[0]
	assert.Equal(t, ports.KindFunction, n.Kind)
	assert.Equal(t, "handler", n.Name)
	require.NotNil(t, n.Span)
	assert.Equal(t, ports.Pos{Line: 3, Col: 0}, n.Span.Start, "span anchors at the def, not the decorator")

	require.Len(t, n.Decorators, 2)
	assert.Equal(t, ports.Pos{Line: 1, Col: 1}, n.Decorators[0], "column one past the @ marker")
	assert.Equal(t, ports.Pos{Line: 2, Col: 1}, n.Decorators[1])
}

func TestBackend_SyntaxError(t *testing.T) {
	nodes, fail := newBackend(t).Parse([]byte("def broken(:\n"))
	require.Nil(t, nodes)
	require.NotNil(t, fail)
	assert.Equal(t, ports.FailureSyntax, fail.Kind)
	assert.Contains(t, fail.Detail, "syntax error")
}

func TestBackend_EmptySource(t *testing.T) {
	nodes, fail := newBackend(t).Parse(nil)
	require.Nil(t, fail)
	assert.Empty(t, nodes)
}

func TestBackend_LoaderPathResolution(t *testing.T) {
	dl := NewDynamicLoader([]string{t.TempDir()})
	assert.Equal(t, "", dl.GrammarPath("python"))
	_, err := dl.LoadGrammar("python")
	assert.Error(t, err)
}
