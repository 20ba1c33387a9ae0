package wisp

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/wisplang/wisp/internal/codegen"
	"github.com/wisplang/wisp/internal/component"
	"github.com/wisplang/wisp/internal/schema"
)

// ConfigFile is the conventional configuration filename.
const ConfigFile = ".wispc.yaml"

// Config is the on-disk compiler configuration.
type Config struct {
	Strict     bool                       `yaml:"strict"`
	Tags       map[string]string          `yaml:"tags"`
	Components map[string]ComponentConfig `yaml:"components"`
}

// ComponentConfig declares one component's property schemas. Properties
// are a list so that declaration order, which drives validation order,
// survives the YAML round trip.
type ComponentConfig struct {
	Props []PropConfig `yaml:"props"`
}

// PropConfig describes one property schema.
type PropConfig struct {
	Name     string       `yaml:"name"`
	Kind     string       `yaml:"kind"`
	Required bool         `yaml:"required"`
	Default  any          `yaml:"default"`
	MinLen   *int         `yaml:"minLen"`
	MaxLen   *int         `yaml:"maxLen"`
	Pattern  string       `yaml:"pattern"`
	Min      *float64     `yaml:"min"`
	Max      *float64     `yaml:"max"`
	Integer  bool         `yaml:"integer"`
	MinItems *int         `yaml:"minItems"`
	MaxItems *int         `yaml:"maxItems"`
	Item     *PropConfig  `yaml:"item"`
	Props    []PropConfig `yaml:"props"`
	Values   []any        `yaml:"values"`
	Alts     []PropConfig `yaml:"alts"`
}

// LoadConfig reads and parses a configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes configuration YAML.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Options converts the file configuration into compiler options.
// Config-declared components override the built-in specs with the same
// name; config tags overlay the default table.
func (c *Config) Options() ([]Option, error) {
	opts := []Option{WithStrict(c.Strict)}

	if len(c.Tags) > 0 {
		opts = append(opts, WithTags(codegen.DefaultTags().With(c.Tags)))
	}

	if len(c.Components) > 0 {
		reg := component.Builtins()
		names := make([]string, 0, len(c.Components))
		for name := range c.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			spec := component.NewSpec(name)
			for _, p := range c.Components[name].Props {
				s, err := p.Schema()
				if err != nil {
					return nil, fmt.Errorf("component %s: property %s: %w", name, p.Name, err)
				}
				spec.Prop(p.Name, s)
			}
			reg.Register(spec)
		}
		opts = append(opts, WithRegistry(reg))
	}
	return opts, nil
}

// Schema compiles the property description into a schema value.
func (p PropConfig) Schema() (*schema.Schema, error) {
	var s *schema.Schema
	switch p.Kind {
	case "string", "":
		s = schema.String()
	case "number":
		s = schema.Number()
	case "boolean":
		s = schema.Bool()
	case "function":
		s = schema.Func()
	case "array":
		var item *schema.Schema
		if p.Item != nil {
			var err error
			if item, err = p.Item.Schema(); err != nil {
				return nil, err
			}
		}
		s = schema.Array(item)
	case "object":
		s = schema.Object()
		for _, sub := range p.Props {
			ss, err := sub.Schema()
			if err != nil {
				return nil, err
			}
			s.Prop(sub.Name, ss)
		}
	case "enum":
		s = schema.Enum(p.Values...)
	case "union":
		alts := make([]*schema.Schema, len(p.Alts))
		for i, alt := range p.Alts {
			as, err := alt.Schema()
			if err != nil {
				return nil, err
			}
			alts[i] = as
		}
		s = schema.Union(alts...)
	case "any":
		s = schema.Any()
	default:
		return nil, fmt.Errorf("unknown schema kind %q", p.Kind)
	}

	if p.MinLen != nil {
		s.MinLen(*p.MinLen)
	}
	if p.MaxLen != nil {
		s.MaxLen(*p.MaxLen)
	}
	if p.Pattern != "" {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p.Pattern, err)
		}
		s.Pattern(p.Pattern)
	}
	if p.Min != nil {
		s.Min(*p.Min)
	}
	if p.Max != nil {
		s.Max(*p.Max)
	}
	if p.Integer {
		s.Integer()
	}
	if p.MinItems != nil {
		s.MinItems(*p.MinItems)
	}
	if p.MaxItems != nil {
		s.MaxItems(*p.MaxItems)
	}
	if p.Required {
		s.Required()
	}
	if p.Default != nil {
		s.Default(p.Default)
	}
	return s, nil
}
