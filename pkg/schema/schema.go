package schema

import (
	_ "embed"
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/lyphgraph/pkg/errors"
)

//go:embed graphScheme.json
var graphScheme []byte

// Source returns the embedded schema document.
func Source() []byte { return graphScheme }

// ResourceClass is the root of the class hierarchy.
const ResourceClass = "Resource"

const definitionsPrefix = "#/definitions/"

// FieldKind tells properties from relationships.
type FieldKind int

const (
	// Property is a plain value (string, number, object...).
	Property FieldKind = iota
	// Relationship references one or more resources by id.
	Relationship
)

// String returns the kind name.
func (k FieldKind) String() string {
	if k == Relationship {
		return "relationship"
	}
	return "property"
}

// Field describes one field of a class.
type Field struct {
	Name     string
	Kind     FieldKind
	Target   string // target class for relationships
	Many     bool   // array-valued
	Inverse  string // inverse field on Target, empty if none
	ReadOnly bool
	Default  any
	Type     string // JSON type of a property ("string", "number", ...), empty if unconstrained
	ItemType string // JSON type of array items for array properties
	Owner    string // class that declares the field
}

// IsRelationship reports whether the field references resources.
func (f *Field) IsRelationship() bool { return f.Kind == Relationship }

// Class is a reflected schema definition.
type Class struct {
	Name     string
	Parent   string
	Abstract bool

	fields map[string]*Field
	names  []string
}

// Field returns the descriptor of the named field.
func (c *Class) Field(name string) (*Field, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// HasField reports whether the class declares or inherits name.
func (c *Class) HasField(name string) bool {
	_, ok := c.fields[name]
	return ok
}

// Fields returns every field sorted by name.
func (c *Class) Fields() []*Field {
	out := make([]*Field, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.fields[n])
	}
	return out
}

// Relationships returns the relationship fields sorted by name.
func (c *Class) Relationships() []*Field {
	var out []*Field
	for _, n := range c.names {
		if f := c.fields[n]; f.Kind == Relationship {
			out = append(out, f)
		}
	}
	return out
}

// Properties returns the property fields sorted by name.
func (c *Class) Properties() []*Field {
	var out []*Field
	for _, n := range c.names {
		if f := c.fields[n]; f.Kind == Property {
			out = append(out, f)
		}
	}
	return out
}

// Defaults returns a fresh copy of every declared default value.
func (c *Class) Defaults() map[string]any {
	out := make(map[string]any)
	for _, n := range c.names {
		if f := c.fields[n]; f.Default != nil {
			out[n] = deepCopy(f.Default)
		}
	}
	return out
}

// Registry holds every reflected class.
type Registry struct {
	classes map[string]*Class
	defs    map[string]*rawSchema
}

type rawSchema struct {
	Type        any                   `json:"type"`
	Ref         string                `json:"$ref"`
	Items       *rawSchema            `json:"items"`
	OneOf       []*rawSchema          `json:"oneOf"`
	AllOf       []*rawSchema          `json:"allOf"`
	Properties  map[string]*rawSchema `json:"properties"`
	Abstract    bool                  `json:"abstract"`
	ReadOnly    bool                  `json:"readOnly"`
	RelatedTo   string                `json:"relatedTo"`
	Default     any                   `json:"default"`
	Enum        []any                 `json:"enum"`
	Description string                `json:"description"`
}

type rawDocument struct {
	Definitions map[string]*rawSchema `json:"definitions"`
}

// Load reflects a schema document.
func Load(data []byte) (*Registry, error) {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "failed to decode schema")
	}
	if _, ok := doc.Definitions[ResourceClass]; !ok {
		return nil, errors.New(errors.ErrCodeSchema, "schema has no %s definition", ResourceClass)
	}

	r := &Registry{classes: make(map[string]*Class), defs: doc.Definitions}
	for name := range doc.Definitions {
		if r.isClassDef(name, nil) {
			r.classes[name] = &Class{Name: name}
		}
	}
	for _, name := range slices.Sorted(maps.Keys(r.classes)) {
		if err := r.reflect(r.classes[name]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of the embedded schema.
// It panics if the embedded schema is malformed, which is a build defect.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(graphScheme)
		if err != nil {
			panic(err)
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Class returns the named class or an UNKNOWN_CLASS error.
func (r *Registry) Class(name string) (*Class, error) {
	c, ok := r.classes[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownClass, "no schema definition for class %q", name)
	}
	return c, nil
}

// MustClass is like [Registry.Class] but panics for unknown names.
// Use it only with class names that are compiled into the program.
func (r *Registry) MustClass(name string) *Class {
	c, err := r.Class(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Has reports whether name is a class.
func (r *Registry) Has(name string) bool {
	_, ok := r.classes[name]
	return ok
}

// Classes returns every class name sorted.
func (r *Registry) Classes() []string {
	return slices.Sorted(maps.Keys(r.classes))
}

// IsA reports whether class equals ancestor or inherits from it.
func (r *Registry) IsA(class, ancestor string) bool {
	for c := class; c != ""; {
		if c == ancestor {
			return true
		}
		cl, ok := r.classes[c]
		if !ok {
			return false
		}
		c = cl.Parent
	}
	return false
}

// Descendants returns the concrete classes that are ancestor or inherit from it.
func (r *Registry) Descendants(ancestor string) []string {
	var out []string
	for _, name := range r.Classes() {
		if !r.classes[name].Abstract && r.IsA(name, ancestor) {
			out = append(out, name)
		}
	}
	return out
}

func refName(ref string) string {
	return strings.TrimPrefix(ref, definitionsPrefix)
}

func parentOf(def *rawSchema) string {
	for _, s := range def.AllOf {
		if s.Ref != "" {
			return refName(s.Ref)
		}
	}
	return ""
}

// isClassDef reports whether a definition derives from Resource.
func (r *Registry) isClassDef(name string, seen map[string]bool) bool {
	if name == ResourceClass {
		return true
	}
	def, ok := r.defs[name]
	if !ok || seen[name] {
		return false
	}
	parent := parentOf(def)
	if parent == "" {
		return false
	}
	if seen == nil {
		seen = make(map[string]bool)
	}
	seen[name] = true
	return r.isClassDef(parent, seen)
}

func (r *Registry) reflect(c *Class) error {
	def := r.defs[c.Name]
	c.Abstract = def.Abstract
	c.Parent = parentOf(def)
	c.fields = make(map[string]*Field)

	var chain []string
	for n := c.Name; n != ""; n = parentOf(r.defs[n]) {
		if slices.Contains(chain, n) {
			return errors.New(errors.ErrCodeSchema, "class %q inherits from itself", c.Name)
		}
		if _, ok := r.defs[n]; !ok {
			return errors.New(errors.ErrCodeSchema, "class %q extends undefined %q", c.Name, n)
		}
		chain = append(chain, n)
	}
	slices.Reverse(chain)

	for _, owner := range chain {
		props := r.defs[owner].Properties
		for _, name := range slices.Sorted(maps.Keys(props)) {
			f, err := r.fieldOf(owner, name, props[name])
			if err != nil {
				return err
			}
			c.fields[name] = f
		}
	}
	c.names = slices.Sorted(maps.Keys(c.fields))
	return nil
}

func (r *Registry) fieldOf(owner, name string, s *rawSchema) (*Field, error) {
	f := &Field{
		Name:     name,
		Owner:    owner,
		ReadOnly: s.ReadOnly,
		Inverse:  s.RelatedTo,
		Default:  s.Default,
	}
	item := s
	if typeName(s) == "array" || s.Items != nil {
		f.Many = true
		if s.Items != nil {
			item = s.Items
		}
	}
	if target := r.targetOf(item); target != "" {
		f.Kind = Relationship
		f.Target = target
		return f, nil
	}
	if f.Inverse != "" {
		return nil, errors.New(errors.ErrCodeSchema, "%s.%s declares relatedTo but references no resource", owner, name)
	}
	f.Many = false
	f.Type = r.jsonType(s)
	if f.Type == "array" && s.Items != nil {
		f.ItemType = r.jsonType(s.Items)
	}
	return f, nil
}

// targetOf returns the class a field schema references, directly or
// through an id-or-object wrapper.
func (r *Registry) targetOf(s *rawSchema) string {
	if s.Ref != "" {
		name := refName(s.Ref)
		if _, ok := r.classes[name]; ok {
			return name
		}
		if def, ok := r.defs[name]; ok && def != s {
			return r.targetOf(def)
		}
		return ""
	}
	for _, alt := range s.OneOf {
		if t := r.targetOf(alt); t != "" {
			return t
		}
	}
	return ""
}

func (r *Registry) jsonType(s *rawSchema) string {
	if t := typeName(s); t != "" {
		return t
	}
	if s.Ref != "" {
		if def, ok := r.defs[refName(s.Ref)]; ok && def != s {
			return r.jsonType(def)
		}
	}
	if len(s.Enum) > 0 {
		if _, ok := s.Enum[0].(string); ok {
			return "string"
		}
	}
	return ""
}

func typeName(s *rawSchema) string {
	switch t := s.Type.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if str, ok := t[0].(string); ok {
				return str
			}
		}
	}
	return ""
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = deepCopy(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = deepCopy(x)
		}
		return out
	default:
		return v
	}
}
