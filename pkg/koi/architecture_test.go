package koi

import (
	"testing"

	"koi/testutil"
)

// TestPublicPackagesAvoidAmbientWiring keeps environment parsing and template
// file loading out of everything under pkg/.
func TestPublicPackagesAvoidAmbientWiring(t *testing.T) {
	config := testutil.UnderPrefix(testutil.ModulePath + "/internal/config")
	files := testutil.UnderPrefix(testutil.ModulePath + "/internal/templatefile")
	plugins := testutil.UnderPrefix(testutil.ModulePath + "/plugins")
	testutil.AssertNoTransitiveDependency(t, testutil.ModulePath+"/pkg/...", func(path string) bool {
		return config(path) || files(path) || plugins(path)
	}, "pkg/ must not depend on config, template files or plugins")
}

// TestLeafPackagesStayLeaves keeps the standalone helpers free of module imports.
func TestLeafPackagesStayLeaves(t *testing.T) {
	for _, dir := range []string{"../clone", "../namespace", "../state"} {
		testutil.AssertNoDirectImports(t, dir, testutil.ModuleImportForbidden, dir+" is a leaf package")
	}
}
