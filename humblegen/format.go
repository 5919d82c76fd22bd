package humblegen

import "golang.org/x/tools/imports"

// formatSource runs goimports-style formatting over generated Go source,
// fixing the import block and applying gofmt layout.
func formatSource(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}
