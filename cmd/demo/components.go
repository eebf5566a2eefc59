package main

import "github.com/noxwright/ecsforge/internal/schema"

// positionSchema is built once and shared by every Position instance —
// Reset/CopyFrom just delegate to it rather than each compiling their own
// copy of the field-index lookup.
var positionSchema = mustSchema((*Position)(nil), map[string]schema.AttrSpec{
	"X": {Default: 0.0},
	"Y": {Default: 0.0},
})

func mustSchema(sample any, spec map[string]schema.AttrSpec) *schema.Schema {
	s, err := schema.Build(sample, spec, nil, nil)
	if err != nil {
		panic(err)
	}
	return s
}

// Position is a data component with a schema-generated Reset/CopyFrom.
type Position struct {
	X, Y float64
}

func (p *Position) Reset()          { positionSchema.Reset(p) }
func (p *Position) CopyFrom(src any) { positionSchema.Copy(p, src) }

// Velocity is a data component with a hand-written Reset — most
// components in a real codebase won't bother with the schema helper,
// it's an option, not a requirement.
type Velocity struct {
	DX, DY float64
}

func (v *Velocity) Reset() { v.DX, v.DY = 0, 0 }

// Marked is a tag component: no attributes, Reset is a no-op. Used here
// to demonstrate a negated query term.
type Marked struct{}

func (m *Marked) Reset() {}
