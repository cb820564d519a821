package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load reads a yaml prefab. A copy under ./prefabs wins over the embedded one
// so edits are picked up without a rebuild.
func Load(name string) ([]byte, error) {
	return read(PrefabsFS, cleanPrefabPath(name))
}

// LoadScript reads a tengo script the same way as Load.
func LoadScript(name string) ([]byte, error) {
	return read(ScriptsFS, cleanScriptPath(name))
}

// Dirs lists the on-disk folders that override the embedded files.
func Dirs() []string {
	return []string{"prefabs", filepath.Join("prefabs", "scripts")}
}

func read(fsys embed.FS, clean string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join("prefabs", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	return fsys.ReadFile(clean)
}

func cleanPrefabPath(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
}

// cleanScriptPath maps any of "x.tengo", "scripts/x.tengo" or
// "prefabs/scripts/x.tengo" to "scripts/x.tengo".
func cleanScriptPath(name string) string {
	if name == "" {
		return ""
	}
	s := strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
	s = strings.TrimPrefix(s, "scripts/")
	return path.Join("scripts", s)
}
