package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwe-org/iwe-sub001/internal/key"
	"github.com/iwe-org/iwe-sub001/internal/project"
)

func Test_BuildFileChanges_updateAndCreateAndRemove(t *testing.T) {
	db := openTestDB(t, map[string]string{
		"a":      "# A\n\n[Target](target.md)\n",
		"target": "# Target\n\nbody\n",
	})

	p, err := ExecuteRename(db, key.New("target"), key.New("renamed"))
	require.NoError(t, err)

	changes := BuildFileChanges("/workspace", db.Graph(), p, project.Options{RefsExtension: ".md"})

	var kinds = map[string]string{}
	for _, c := range changes {
		kinds[c.URI] = c.Kind
	}
	assert.Equal(t, "update", kinds["file:///workspace/a.md"])
	assert.Equal(t, "create", kinds["file:///workspace/renamed.md"])
	assert.Equal(t, "remove", kinds["file:///workspace/target.md"])
}
