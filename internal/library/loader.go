package library

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/enumlab/sketch/internal/grammar"
	"github.com/enumlab/sketch/internal/parser"
	"github.com/enumlab/sketch/internal/program"
)

// Config represents a library YAML file: the weighted vocabulary of one
// grammar.
type Config struct {
	// Variable is the log-weight shared by all de Bruijn references.
	Variable float64 `yaml:"variable,omitempty"`

	// Hole is the log-weight of leaving a hole during enumeration with
	// holes enabled. Zero makes holes free.
	Hole float64 `yaml:"hole,omitempty"`

	// Primitives lists the grammar leaves.
	Primitives []Spec `yaml:"primitives"`
}

// Spec declares one leaf.
type Spec struct {
	// Name is the leaf's unique name within the library.
	Name string `yaml:"name"`

	// Type is the leaf's type scheme in the textual type syntax, e.g.
	// "list(t0) -> int". Required unless Source is set.
	Type string `yaml:"type,omitempty"`

	// Source declares an invented combinator instead of an opaque
	// primitive: a closed program in the textual syntax, e.g.
	// "#(lambda (+ 1 $0))". Its type is inferred. Earlier entries are in
	// scope, so invented combinators may reference primitives declared
	// above them. Mutually exclusive with Type.
	Source string `yaml:"source,omitempty"`

	// Weight is the leaf's unnormalized log-weight. Defaults to zero,
	// which makes an unweighted library uniform.
	Weight float64 `yaml:"weight,omitempty"`
}

// Load reads and parses a library YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading library %s", path)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses library YAML content from bytes. The path argument is
// used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if len(cfg.Primitives) == 0 {
		return nil, errors.Errorf("%s: no primitives defined", path)
	}
	for i, spec := range cfg.Primitives {
		if spec.Name == "" {
			return nil, errors.Errorf("%s: primitives[%d]: name is required", path, i)
		}
		if spec.Type == "" && spec.Source == "" {
			return nil, errors.Errorf("%s: primitives[%d] (%s): either type or source is required", path, i, spec.Name)
		}
		if spec.Type != "" && spec.Source != "" {
			return nil, errors.Errorf("%s: primitives[%d] (%s): type and source are mutually exclusive", path, i, spec.Name)
		}
	}
	return &cfg, nil
}

// Build resolves the config into a registry and a grammar. Leaves are
// processed in declaration order; the returned registry resolves every
// declared name.
func (c *Config) Build() (*Registry, *grammar.Grammar, error) {
	reg := NewRegistry()
	prods := make([]grammar.Production, 0, len(c.Primitives))
	for _, spec := range c.Primitives {
		leaf, err := spec.leaf(reg)
		if err != nil {
			return nil, nil, err
		}
		if err := reg.Register(spec.Name, leaf); err != nil {
			return nil, nil, err
		}
		tp, _ := program.LeafType(leaf)
		prods = append(prods, grammar.Production{LogWeight: spec.Weight, Type: tp, Leaf: leaf})
	}
	return reg, &grammar.Grammar{LogVariable: c.Variable, LogHole: c.Hole, Productions: prods}, nil
}

func (s *Spec) leaf(reg *Registry) (program.Program, error) {
	if s.Source != "" {
		p, err := parser.Parse(s.Source, reg)
		if err != nil {
			return nil, errors.Wrapf(err, "primitive %s", s.Name)
		}
		inv, ok := p.(program.Invented)
		if !ok {
			return nil, errors.Errorf("primitive %s: source must be an invented combinator (#(...) form)", s.Name)
		}
		// The declared name wins for display; the body stays the identity.
		inv.Name = s.Name
		return inv, nil
	}
	tp, err := parser.ParseType(s.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "primitive %s", s.Name)
	}
	return program.Primitive{Name: s.Name, Type: tp}, nil
}
