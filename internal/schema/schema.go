// Package schema is a convenience wrapper over the core (spec §6): it
// synthesizes Reset/Copy/Clear for a data component from a declarative
// {attrName: {type, default}} map instead of requiring the consumer to
// hand-write them. It is optional — a component can always implement
// ecs.Resetter/ecs.Copier directly and skip this package entirely.
package schema

import (
	"fmt"
	"os"
	"reflect"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AttrType names one of the four built-in attribute kinds, or Custom for
// a consumer-supplied Descriptor.
type AttrType string

const (
	Number  AttrType = "number"
	Boolean AttrType = "boolean"
	String  AttrType = "string"
	Array   AttrType = "array"
	Custom  AttrType = "custom"
)

// AttrSpec is one entry of a schema map. Type may be left empty, in
// which case Build infers it from Default's Go type.
type AttrSpec struct {
	Type    AttrType `yaml:"type"`
	Default any      `yaml:"default"`
}

// Descriptor extends the schema helper to a type it has no built-in
// handling for (spec §6: "custom types are created from a descriptor").
// Reset is required; Clear is optional (falls back to reflect.Zero on the
// field); Copy is optional (falls back to a plain field assignment).
// Create and IsSimpleType are carried on the descriptor but Schema does
// not read them.
type Descriptor struct {
	Create       func(def any) any
	Reset        func(field reflect.Value, def any)
	Clear        func(field reflect.Value)
	Copy         func(dst, src reflect.Value)
	IsSimpleType bool
}

// LoadYAML reads a {attrName: {type, default}} schema from path. A
// missing schema file is a legitimate consumer choice (components aren't
// required to use this helper at all), so callers decide whether a
// not-exist error is fatal.
func LoadYAML(path string) (map[string]AttrSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	var spec map[string]AttrSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", path, err)
	}
	return spec, nil
}

type compiledAttr struct {
	name   string
	index  []int
	typ    AttrType
	def    any
	custom *Descriptor
}

// Schema is a compiled {attrName: spec} map: each attribute's struct
// field is resolved to a field index once, at Build time, rather than by
// name on every Reset/Copy/Clear call — those stay a slice walk plus
// reflect.Value.FieldByIndex, not a name lookup, so they're cheap enough
// to call from a pool's Release hot path.
type Schema struct {
	structType reflect.Type
	attrs      []compiledAttr
}

// Build compiles spec against sample, a pointer to the zero value of the
// target struct type (e.g. Build((*Position)(nil), spec, nil, log)).
// custom supplies a Descriptor for every attribute whose Type is Custom;
// an attribute typed Custom with no matching descriptor is a soft
// warning (§7) — logged and skipped, not a build failure.
func Build(sample any, spec map[string]AttrSpec, custom map[string]*Descriptor, log *zap.Logger) (*Schema, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rt := reflect.TypeOf(sample)
	if rt == nil || rt.Kind() != reflect.Ptr || rt.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: sample must be a non-nil pointer to struct, got %T", sample)
	}
	st := rt.Elem()

	s := &Schema{structType: st}
	for name, attr := range spec {
		f, ok := st.FieldByName(name)
		if !ok {
			return nil, fmt.Errorf("schema: field %q not found on %s", name, st)
		}
		typ := attr.Type
		if typ == "" {
			typ = inferType(attr.Default)
		}
		c := compiledAttr{name: name, index: f.Index, typ: typ, def: attr.Default}
		if typ == Custom {
			d := custom[name]
			if d == nil {
				log.Warn("schema: custom attribute type has no descriptor, skipping",
					zap.String("struct", st.Name()), zap.String("attr", name))
				continue
			}
			c.custom = d
		}
		s.attrs = append(s.attrs, c)
	}
	return s, nil
}

func inferType(def any) AttrType {
	switch def.(type) {
	case bool:
		return Boolean
	case string:
		return String
	case []any:
		return Array
	default:
		return Number
	}
}

// Reset restores every compiled attribute on instance to its schema
// default. instance must be a pointer to the struct Build compiled
// against.
func (s *Schema) Reset(instance any) {
	v := reflect.ValueOf(instance).Elem()
	for _, a := range s.attrs {
		field := v.FieldByIndex(a.index)
		if a.typ == Custom {
			if a.custom != nil {
				a.custom.Reset(field, a.def)
			}
			continue
		}
		field.Set(reflect.ValueOf(a.def))
	}
}

// Copy assigns every compiled attribute from src onto dst. Both must be
// pointers to the struct Build compiled against.
func (s *Schema) Copy(dst, src any) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()
	for _, a := range s.attrs {
		df := dv.FieldByIndex(a.index)
		sf := sv.FieldByIndex(a.index)
		if a.typ == Custom && a.custom != nil && a.custom.Copy != nil {
			a.custom.Copy(df, sf)
			continue
		}
		df.Set(sf)
	}
}

// Clear zeroes every compiled attribute on instance, ignoring schema
// defaults (distinct from Reset, which restores defaults).
func (s *Schema) Clear(instance any) {
	v := reflect.ValueOf(instance).Elem()
	for _, a := range s.attrs {
		field := v.FieldByIndex(a.index)
		if a.typ == Custom && a.custom != nil && a.custom.Clear != nil {
			a.custom.Clear(field)
			continue
		}
		field.Set(reflect.Zero(field.Type()))
	}
}
