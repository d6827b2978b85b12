package matching

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

// Kind selects the entity universe a name is resolved against.
type Kind string

const (
	KindTeam   Kind = "team"
	KindPlayer Kind = "player"
)

// AliasTable maps canonical names to their known alternate spellings, per kind.
type AliasTable struct {
	Teams   map[string][]string `yaml:"teams"`
	Players map[string][]string `yaml:"players"`
}

func (t AliasTable) forKind(kind Kind) map[string][]string {
	if kind == KindPlayer {
		return t.Players
	}
	return t.Teams
}

// LoadAliasFile reads an alias table from a YAML file.
func LoadAliasFile(path string) (AliasTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return AliasTable{}, fmt.Errorf("read alias file: %w", err)
	}

	var table AliasTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return AliasTable{}, fmt.Errorf("decode alias file %s: %w", path, err)
	}
	return table, nil
}

type aliasIndex struct {
	canonicalByKey map[string]string
	variants       map[string][]string
}

// Registry is the immutable reverse index over an AliasTable.
type Registry struct {
	byKind map[Kind]aliasIndex
}

// NewRegistry indexes every canonical name and alias by its normalized key.
// A key claimed by two different canonical names makes the table ambiguous.
func NewRegistry(table AliasTable) (*Registry, error) {
	r := &Registry{byKind: make(map[Kind]aliasIndex, 2)}
	for _, kind := range []Kind{KindTeam, KindPlayer} {
		idx, err := buildAliasIndex(kind, table.forKind(kind))
		if err != nil {
			return nil, err
		}
		r.byKind[kind] = idx
	}
	return r, nil
}

func buildAliasIndex(kind Kind, entries map[string][]string) (aliasIndex, error) {
	idx := aliasIndex{
		canonicalByKey: make(map[string]string),
		variants:       make(map[string][]string, len(entries)),
	}

	canonicals := make([]string, 0, len(entries))
	for canonical := range entries {
		canonicals = append(canonicals, canonical)
	}
	sort.Strings(canonicals)

	for _, canonical := range canonicals {
		if Normalize(canonical) == "" {
			return aliasIndex{}, fmt.Errorf("%s alias table: empty canonical name", kind)
		}
		names := append([]string{canonical}, entries[canonical]...)
		idx.variants[canonical] = names
		for _, name := range names {
			key := Normalize(name)
			if key == "" {
				continue
			}
			if owner, exists := idx.canonicalByKey[key]; exists && owner != canonical {
				return aliasIndex{}, fmt.Errorf("%s alias table: %q is claimed by both %q and %q", kind, name, owner, canonical)
			}
			idx.canonicalByKey[key] = canonical
		}
	}

	return idx, nil
}

// Lookup returns the canonical name registered for name, if any.
func (r *Registry) Lookup(kind Kind, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	key := Normalize(name)
	if key == "" {
		return "", false
	}
	canonical, ok := r.byKind[kind].canonicalByKey[key]
	return canonical, ok
}

// Variants lists the canonical name followed by its aliases in table order.
func (r *Registry) Variants(kind Kind, canonical string) []string {
	if r == nil {
		return nil
	}
	names := r.byKind[kind].variants[canonical]
	out := make([]string, len(names))
	copy(out, names)
	return out
}
