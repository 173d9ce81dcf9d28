package resolve

import "path/filepath"

// ImportPath resolves the canonical path an `import "path"` item refers to,
// given the canonical path of the file containing it. Import paths are
// relative to the importing file and name a target .aaa file without the
// suffix.
func ImportPath(fromFile, importPath string) string {
	dir := filepath.Dir(fromFile)

	return filepath.Clean(filepath.Join(dir, importPath+".aaa"))
}
