// Package catalog loads ability definitions from YAML.
//
// A catalog file lists abilities by their tag name together with the tag
// clauses, costs and procedure steps of each:
//
//	abilities:
//	  - id: Ability.Stun
//	    key: " "
//	    blocked_by: [Ability.Stun.Cooldown]
//	    adds: [Character.Movement.Blocked.Casting]
//	    costs:
//	      stats: [{stat: mana, amount: 25}]
//	    procedure:
//	      - wait: 10
//	      - trigger: pay_costs
//
// Everything the ability builder would panic on is reported as an error.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"gameplay-abilities/internal/ability"
	"gameplay-abilities/internal/procedure"
	"gameplay-abilities/internal/stats"
	"gameplay-abilities/internal/tags"
)

type fileDoc struct {
	Abilities []abilityDoc `yaml:"abilities"`
}

type abilityDoc struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Key         string    `yaml:"key"`
	Required    []string  `yaml:"required"`
	BlockedBy   []string  `yaml:"blocked_by"`
	CanceledBy  []string  `yaml:"canceled_by"`
	Adds        []string  `yaml:"adds"`
	Costs       costsDoc  `yaml:"costs"`
	Procedure   []stepDoc `yaml:"procedure"`
}

type costsDoc struct {
	Stats []struct {
		Stat   string  `yaml:"stat"`
		Amount float32 `yaml:"amount"`
	} `yaml:"stats"`
	Items []struct {
		Item   uint16 `yaml:"item"`
		Amount int    `yaml:"amount"`
	} `yaml:"items"`
}

type stepDoc struct {
	Wait    *int   `yaml:"wait"`
	Await   string `yaml:"await"`
	Trigger string `yaml:"trigger"`
	Script  string `yaml:"script"`
}

// Meta is the presentation data of one catalog entry.
type Meta struct {
	Name        string
	Description string
	Key         rune // 0 when unbound
}

// Catalog is an ability catalog together with the metadata the loader read
// alongside each definition.
type Catalog[K stats.Kind] struct {
	*ability.Catalog[K]
	meta map[tags.ID]Meta
}

// Meta returns the metadata of id.
func (c *Catalog[K]) Meta(id tags.ID) (Meta, bool) {
	m, ok := c.meta[id]
	return m, ok
}

// ByKey returns the ability bound to key r.
func (c *Catalog[K]) ByKey(r rune) (tags.ID, bool) {
	for _, id := range c.IDs() {
		if c.meta[id].Key == r && r != 0 {
			return id, true
		}
	}
	return tags.None, false
}

// LoadFile reads the catalog at path.
func LoadFile[K stats.Kind](path string, reg *tags.Registry, parseStat func(string) (K, error)) (*Catalog[K], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f, reg, parseStat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes a catalog from r. Tag names are registered in reg; stat names
// are resolved with parseStat.
func Load[K stats.Kind](r io.Reader, reg *tags.Registry, parseStat func(string) (K, error)) (*Catalog[K], error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Abilities) == 0 {
		return nil, errors.New("catalog defines no abilities")
	}

	defs := make([]ability.Definition[K], 0, len(doc.Abilities))
	meta := make(map[tags.ID]Meta, len(doc.Abilities))
	keys := make(map[rune]string)
	for i, a := range doc.Abilities {
		def, m, err := buildDefinition(a, reg, parseStat)
		if err != nil {
			name := a.ID
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("ability %s: %w", name, err)
		}
		if m.Key != 0 {
			if other, dup := keys[m.Key]; dup {
				return nil, fmt.Errorf("ability %s: key %q already bound to %s", a.ID, m.Key, other)
			}
			keys[m.Key] = a.ID
		}
		defs = append(defs, def)
		meta[def.ID()] = m
	}

	cat, err := ability.NewCatalog(defs...)
	if err != nil {
		return nil, err
	}
	return &Catalog[K]{Catalog: cat, meta: meta}, nil
}

func buildDefinition[K stats.Kind](a abilityDoc, reg *tags.Registry, parseStat func(string) (K, error)) (ability.Definition[K], Meta, error) {
	var zero ability.Definition[K]
	if strings.TrimSpace(a.ID) == "" {
		return zero, Meta{}, errors.New("missing id")
	}
	id, err := reg.TryRegister(a.ID)
	if err != nil {
		return zero, Meta{}, err
	}

	m := Meta{Name: a.Name, Description: a.Description}
	if m.Name == "" {
		m.Name = a.ID[strings.LastIndexByte(a.ID, '.')+1:]
	}
	if a.Key != "" {
		r, size := utf8.DecodeRuneInString(a.Key)
		if size != len(a.Key) {
			return zero, Meta{}, fmt.Errorf("key %q must be a single character", a.Key)
		}
		m.Key = r
	}

	lists := []struct {
		field string
		names []string
		limit int
		out   *[]tags.ID
	}{
		{"required", a.Required, ability.MaxRequired, new([]tags.ID)},
		{"blocked_by", a.BlockedBy, ability.MaxBlockedBy, new([]tags.ID)},
		{"canceled_by", a.CanceledBy, ability.MaxCanceledBy, new([]tags.ID)},
		{"adds", a.Adds, ability.MaxAdds, new([]tags.ID)},
	}
	for _, l := range lists {
		if len(l.names) > l.limit {
			return zero, Meta{}, fmt.Errorf("%s has %d tags, at most %d allowed", l.field, len(l.names), l.limit)
		}
		for _, n := range l.names {
			t, err := reg.TryRegister(n)
			if err != nil {
				return zero, Meta{}, fmt.Errorf("%s: %w", l.field, err)
			}
			*l.out = append(*l.out, t)
		}
	}

	def := ability.New[K](id).
		Requires(*lists[0].out...).
		BlockedBy(*lists[1].out...).
		CanceledBy(*lists[2].out...).
		AddsTags(*lists[3].out...)

	for _, c := range a.Costs.Stats {
		stat, err := parseStat(c.Stat)
		if err != nil {
			return zero, Meta{}, fmt.Errorf("stat cost: %w", err)
		}
		amount := float64(c.Amount)
		if !(amount > 0) || math.IsInf(amount, 0) {
			return zero, Meta{}, fmt.Errorf("stat cost for %s must be positive, got %v", c.Stat, c.Amount)
		}
		def = def.WithStatCost(stat, c.Amount)
	}
	for _, c := range a.Costs.Items {
		if c.Amount <= 0 || c.Amount > math.MaxUint8 {
			return zero, Meta{}, fmt.Errorf("item cost for item %d must be within 1..%d, got %d", c.Item, math.MaxUint8, c.Amount)
		}
		def = def.WithItemCost(c.Item, uint8(c.Amount))
	}

	if len(a.Procedure) > 0 {
		tree, err := buildTree(a.ID, a.Procedure)
		if err != nil {
			return zero, Meta{}, err
		}
		def = def.WithTemplate(tree)
	}
	return def, m, nil
}

func buildTree(name string, docs []stepDoc) (procedure.Tree, error) {
	steps := make([]procedure.Step, 0, len(docs))
	for i, d := range docs {
		var set []procedure.Step
		if d.Wait != nil {
			set = append(set, procedure.Wait(*d.Wait))
		}
		if d.Await != "" {
			set = append(set, procedure.Await(d.Await))
		}
		if d.Trigger != "" {
			set = append(set, procedure.Trigger(d.Trigger))
		}
		if d.Script != "" {
			set = append(set, procedure.Script(d.Script))
		}
		if len(set) != 1 {
			return procedure.Tree{}, fmt.Errorf("procedure step %d must set exactly one of wait, await, trigger, script", i)
		}
		steps = append(steps, set[0])
	}
	tree := procedure.NewTree(name, steps...)
	if err := tree.Validate(); err != nil {
		return procedure.Tree{}, err
	}
	return tree, nil
}
