package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Reference data file names, one YAML sequence per file.
const (
	WeaponsFile  = "weapons.yaml"
	ArmorFile    = "armor.yaml"
	ItemsFile    = "items.yaml"
	SpellsFile   = "spells.yaml"
	MonstersFile = "monsters.yaml"
	LootFile     = "loot.yaml"
	ScenesFile   = "scenes.yaml"
	TradersFile  = "traders.yaml"
	ClassesFile  = "classes.yaml"
	LevelsFile   = "levels.yaml"
	StuntsFile   = "stunts.yaml"
)

// Load reads every reference data file from dir and builds a Catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a validated Catalog or a non-nil error; unknown YAML
// fields are rejected.
func Load(dir string) (*Catalog, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS is Load over an arbitrary file system. Missing files are treated as
// empty sequences.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var src Source
	files := []struct {
		name string
		out  any
	}{
		{WeaponsFile, &src.Weapons},
		{ArmorFile, &src.Armor},
		{ItemsFile, &src.Items},
		{SpellsFile, &src.Spells},
		{MonstersFile, &src.Monsters},
		{LootFile, &src.Loot},
		{ScenesFile, &src.Scenes},
		{TradersFile, &src.Traders},
		{ClassesFile, &src.Classes},
		{LevelsFile, &src.Levels},
		{StuntsFile, &src.Stunts},
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", f.name, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f.out); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: parsing %q: %w", ErrInvalid, f.name, err)
		}
	}
	return Build(src)
}
