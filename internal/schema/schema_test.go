package schema

import (
	"reflect"
	"testing"
)

type testComponent struct {
	X      float64
	Flag   bool
	Label  string
	Tags   []any
	Custom customValue
}

type customValue struct{ N int }

func testSpec() map[string]AttrSpec {
	return map[string]AttrSpec{
		"X":     {Type: Number, Default: 1.5},
		"Flag":  {Type: Boolean, Default: true},
		"Label": {Type: String, Default: "hi"},
		"Tags":  {Type: Array, Default: []any{}},
		"Custom": {Type: Custom, Default: 7},
	}
}

func customDescriptor() map[string]*Descriptor {
	return map[string]*Descriptor{
		"Custom": {
			Reset: func(field reflect.Value, def any) {
				field.Set(reflect.ValueOf(customValue{N: def.(int)}))
			},
			Clear: func(field reflect.Value) {
				field.Set(reflect.ValueOf(customValue{N: 0}))
			},
			Copy: func(dst, src reflect.Value) {
				dst.Set(src)
			},
		},
	}
}

func TestBuildAndReset(t *testing.T) {
	s, err := Build((*testComponent)(nil), testSpec(), customDescriptor(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	c := &testComponent{X: 99, Flag: false, Label: "mutated", Custom: customValue{N: 50}}
	s.Reset(c)

	if c.X != 1.5 || c.Flag != true || c.Label != "hi" || c.Custom.N != 7 {
		t.Errorf("expected defaults restored, got %+v", c)
	}
}

func TestCopy(t *testing.T) {
	s, err := Build((*testComponent)(nil), testSpec(), customDescriptor(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	src := &testComponent{X: 3, Flag: true, Label: "src", Custom: customValue{N: 42}}
	dst := &testComponent{}
	s.Copy(dst, src)

	if dst.X != 3 || dst.Flag != true || dst.Label != "src" || dst.Custom.N != 42 {
		t.Errorf("expected dst to match src, got %+v", dst)
	}
}

func TestClear(t *testing.T) {
	s, err := Build((*testComponent)(nil), testSpec(), customDescriptor(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	c := &testComponent{X: 3, Flag: true, Label: "x", Custom: customValue{N: 42}}
	s.Clear(c)

	if c.X != 0 || c.Flag != false || c.Label != "" || c.Custom.N != 0 {
		t.Errorf("expected zeroed fields, got %+v", c)
	}
}

func TestBuildInfersTypeFromDefault(t *testing.T) {
	spec := map[string]AttrSpec{
		"X":     {Default: 2.0},
		"Flag":  {Default: false},
		"Label": {Default: "z"},
	}
	s, err := Build((*testComponent)(nil), spec, nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c := &testComponent{X: 9, Flag: true, Label: "q"}
	s.Reset(c)
	if c.X != 2.0 || c.Flag != false || c.Label != "z" {
		t.Errorf("expected inferred-type defaults applied, got %+v", c)
	}
}

func TestBuildRejectsNonPointerSample(t *testing.T) {
	if _, err := Build(testComponent{}, testSpec(), customDescriptor(), nil); err == nil {
		t.Error("expected error for non-pointer sample")
	}
}

func TestBuildRejectsUnknownField(t *testing.T) {
	spec := map[string]AttrSpec{"DoesNotExist": {Default: 1.0}}
	if _, err := Build((*testComponent)(nil), spec, nil, nil); err == nil {
		t.Error("expected error for unknown field name")
	}
}

func TestCustomAttributeWithoutDescriptorIsSkippedNotFatal(t *testing.T) {
	spec := map[string]AttrSpec{"Custom": {Type: Custom, Default: 7}}
	s, err := Build((*testComponent)(nil), spec, nil, nil)
	if err != nil {
		t.Fatalf("expected missing descriptor to be a soft warning, got error: %v", err)
	}
	c := &testComponent{Custom: customValue{N: 5}}
	s.Reset(c) // must not touch Custom since it has no descriptor
	if c.Custom.N != 5 {
		t.Errorf("expected untouched Custom field, got %+v", c.Custom)
	}
}
