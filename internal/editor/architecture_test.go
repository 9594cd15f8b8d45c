package editor

import (
	"testing"

	"slidecore/testutil"
)

func TestEditorDependsOnLibraryNotStorage(t *testing.T) {
	forbidden := testutil.AnyOf(
		testutil.InfraImportForbidden,
		testutil.PackageForbidden("slidecore/internal/kv"),
	)
	testutil.AssertNoDirectImports(t, ".", forbidden, "the editor persists through internal/library only")
}
