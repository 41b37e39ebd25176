// Package loot resolves the item drops of broken entities from YAML loot
// tables. Tables are validated against an embedded JSON schema on load.
package loot

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/automoto/skyships/shared/skyship"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("loot.schema.json", schemaJSON)
})

// ErrUnknownTable is returned when no table exists for an entity type.
var ErrUnknownTable = errors.New("unknown loot table")

type Entry struct {
	Item string `yaml:"item"`
	// Count is the minimum stack size; MaxCount widens it into a range.
	Count    int `yaml:"count"`
	MaxCount int `yaml:"max_count"`
	Weight   int `yaml:"weight"`
}

type Table struct {
	Rolls int `yaml:"rolls"`
	// RequiresKiller drops nothing for environmental deaths.
	RequiresKiller bool    `yaml:"requires_killer"`
	Entries        []Entry `yaml:"entries"`
}

// Tables is a loot table file keyed by entity type.
type Tables struct {
	Tables map[string]Table `yaml:"tables"`
}

// Load reads and validates a loot table file.
func Load(path string) (Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, err
	}
	t, err := Parse(raw)
	if err != nil {
		return Tables{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse validates raw YAML against the table schema and decodes it with
// defaults filled in: one roll, stacks of one, weight one.
func Parse(raw []byte) (Tables, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Tables{}, fmt.Errorf("parse loot tables: %w", err)
	}
	if err := validate(doc); err != nil {
		return Tables{}, err
	}

	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tables{}, fmt.Errorf("decode loot tables: %w", err)
	}
	for name, table := range t.Tables {
		if table.Rolls == 0 {
			table.Rolls = 1
		}
		for i := range table.Entries {
			e := &table.Entries[i]
			if e.Count == 0 {
				e.Count = 1
			}
			if e.Weight == 0 {
				e.Weight = 1
			}
		}
		t.Tables[name] = table
	}
	return t, nil
}

func validate(doc any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile loot schema: %w", err)
	}
	// The validator works on encoding/json values, not YAML ones.
	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert loot tables: %w", err)
	}
	var v any
	if err := json.Unmarshal(buf, &v); err != nil {
		return fmt.Errorf("convert loot tables: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("validate loot tables: %w", err)
	}
	return nil
}

// Resolver rolls loot tables with its own random source. A Resolver built
// from the same tables and seed produces the same drops in the same order.
// It is safe for concurrent use.
type Resolver struct {
	mu     sync.Mutex
	tables map[string]Table
	rng    *rand.Rand
}

var _ skyship.LootResolver = (*Resolver)(nil)

func NewResolver(t Tables, seed uint64) *Resolver {
	return &Resolver{
		tables: t.Tables,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// Resolve rolls the table of entityType. Stacks of the same item are merged
// in first-seen order.
func (r *Resolver) Resolve(entityType string, ctx skyship.LootContext) ([]skyship.ItemStack, error) {
	t, ok := r.tables[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, entityType)
	}
	if t.RequiresKiller && ctx.KillerID == 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []skyship.ItemStack
	for i := 0; i < t.Rolls; i++ {
		e := r.pick(t.Entries)
		n := e.Count
		if e.MaxCount > e.Count {
			n += r.rng.IntN(e.MaxCount - e.Count + 1)
		}
		out = merge(out, skyship.ItemStack{Item: e.Item, Count: n})
	}
	return out, nil
}

func (r *Resolver) pick(entries []Entry) Entry {
	total := 0
	for _, e := range entries {
		total += e.Weight
	}
	x := r.rng.IntN(total)
	for _, e := range entries {
		if x < e.Weight {
			return e
		}
		x -= e.Weight
	}
	return entries[len(entries)-1]
}

func merge(stacks []skyship.ItemStack, st skyship.ItemStack) []skyship.ItemStack {
	for i := range stacks {
		if stacks[i].Item == st.Item {
			stacks[i].Count += st.Count
			return stacks
		}
	}
	return append(stacks, st)
}
