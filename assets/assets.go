// Package assets embeds the worlds and loot tables shipped with the game.
package assets

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/automoto/skyships/shared/voxel"
)

var (
	//go:embed all:worlds
	worldFS embed.FS

	//go:embed loot/tables.yaml
	LootTables []byte
)

// ListWorldNames returns the stem names of the embedded worlds, sorted.
func ListWorldNames() ([]string, error) {
	entries, err := worldFS.ReadDir("worlds")
	if err != nil {
		return nil, fmt.Errorf("read worlds directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && path.Ext(entry.Name()) == ".tmx" {
			names = append(names, strings.TrimSuffix(entry.Name(), ".tmx"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadWorld loads an embedded world. name may be a stem ("harbor") or a path
// whose base names an embedded file ("assets/worlds/harbor.tmx").
func LoadWorld(name string) (*voxel.Level, error) {
	stem := strings.TrimSuffix(path.Base(name), ".tmx")
	return voxel.LoadTMX(worldFS, path.Join("worlds", stem+".tmx"))
}
