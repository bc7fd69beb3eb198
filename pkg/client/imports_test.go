package client

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The client is used by other programs and must not depend on the
// server's service or persistence packages.
func TestClient_DoesNotImportServerLayers(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	forbidden := []string{
		"github.com/ikkim/member-directory/internal/app/service",
		"github.com/ikkim/member-directory/internal/app/repository",
		"github.com/ikkim/member-directory/internal/app/controller",
		"github.com/ikkim/member-directory/internal/db",
	}
	fset := token.NewFileSet()
	for _, name := range files {
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err, name)
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			assert.NotContains(t, forbidden, path, name)
		}
	}
}
