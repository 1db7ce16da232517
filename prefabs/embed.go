package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Dir is the on-disk override directory. Records and tier scripts found there
// shadow the embedded copies so edits hot reload.
var Dir = "prefabs"

var (
	//go:embed *.yaml
	records embed.FS

	//go:embed scripts/*.tengo
	scripts embed.FS
)

// Load returns an arena, weapon catalog or entity record by file name.
func Load(name string) ([]byte, error) {
	return read(records, recordPath(name))
}

// LoadScript returns a portal tier script. Bare names resolve under scripts/.
func LoadScript(name string) ([]byte, error) {
	return read(scripts, scriptPath(name))
}

func read(fsys embed.FS, rel string) ([]byte, error) {
	if rel == "" {
		return nil, fmt.Errorf("prefabs: empty name")
	}
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return fsys.ReadFile(rel)
}

func recordPath(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(name)), "prefabs/")
}

func scriptPath(name string) string {
	rel := recordPath(name)
	if rel == "" {
		return ""
	}
	return "scripts/" + strings.TrimPrefix(rel, "scripts/")
}
