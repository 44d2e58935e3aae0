// Package dataset defines the tabular data model shared by all filters:
// typed attributes, immutable schemas, weighted instances, and the
// in-memory dataset used to buffer a training corpus.
package dataset

import (
	"fmt"

	"github.com/textgrain/textgrain/pkg/textgrain/internalerr"
)

// AttrType identifies the kind of values an attribute holds.
type AttrType int

const (
	// String attributes hold free text; they are the ones a word-vector
	// filter consumes and replaces.
	String AttrType = iota
	// Nominal attributes hold one of a fixed set of labels, stored as
	// the ordinal of the label.
	Nominal
	// Numeric attributes hold float64 values.
	Numeric
)

// String returns the lowercase name of the type.
func (t AttrType) String() string {
	switch t {
	case String:
		return "string"
	case Nominal:
		return "nominal"
	case Numeric:
		return "numeric"
	}
	return fmt.Sprintf("attrtype(%d)", int(t))
}

// ParseAttrType converts a type name back to an AttrType.
func ParseAttrType(s string) (AttrType, error) {
	switch s {
	case "string":
		return String, nil
	case "nominal":
		return Nominal, nil
	case "numeric":
		return Numeric, nil
	}
	return 0, fmt.Errorf("parse attribute type %q: %w", s, internalerr.ErrValueType)
}

// Attribute describes one column of a dataset.
type Attribute struct {
	Name   string
	Type   AttrType
	Labels []string // Nominal only; ordinal values index into this slice
}

// NumLabels returns the number of nominal labels, or 0 for other types.
func (a Attribute) NumLabels() int {
	if a.Type != Nominal {
		return 0
	}
	return len(a.Labels)
}

// Schema is an ordered list of attributes plus an optional label
// attribute index (-1 when no label is designated). A schema is
// treated as immutable once handed to a filter.
type Schema struct {
	Relation   string
	Attrs      []Attribute
	LabelIndex int
}

// NewSchema builds a schema with no label attribute.
func NewSchema(relation string, attrs []Attribute) *Schema {
	return &Schema{Relation: relation, Attrs: attrs, LabelIndex: -1}
}

// NumAttrs returns the number of attributes.
func (s *Schema) NumAttrs() int { return len(s.Attrs) }

// Label returns the label attribute and true, or false when no label
// attribute is designated.
func (s *Schema) Label() (Attribute, bool) {
	if s.LabelIndex < 0 || s.LabelIndex >= len(s.Attrs) {
		return Attribute{}, false
	}
	return s.Attrs[s.LabelIndex], true
}

// NumLabelValues returns how many distinct values the label attribute
// has, or 1 when no label attribute is designated. Count tables are
// partitioned by this.
func (s *Schema) NumLabelValues() int {
	label, ok := s.Label()
	if !ok || label.Type != Nominal {
		return 1
	}
	if n := label.NumLabels(); n > 0 {
		return n
	}
	return 1
}

// Validate reports schemas a filter must reject: a designated label
// index out of range, or a nominal attribute without labels.
func (s *Schema) Validate() error {
	if s.LabelIndex < -1 || s.LabelIndex >= len(s.Attrs) {
		return fmt.Errorf("label index %d out of range: %w", s.LabelIndex, internalerr.ErrInvalidConfig)
	}
	for i, a := range s.Attrs {
		if a.Name == "" {
			return fmt.Errorf("attribute %d has no name: %w", i, internalerr.ErrInvalidConfig)
		}
		if a.Type == Nominal && len(a.Labels) == 0 {
			return fmt.Errorf("nominal attribute %q has no labels: %w", a.Name, internalerr.ErrInvalidConfig)
		}
	}
	return nil
}

// Clone returns a deep copy, so callers can derive new schemas without
// mutating a published one.
func (s *Schema) Clone() *Schema {
	attrs := make([]Attribute, len(s.Attrs))
	for i, a := range s.Attrs {
		labels := make([]string, len(a.Labels))
		copy(labels, a.Labels)
		if len(labels) == 0 {
			labels = nil
		}
		attrs[i] = Attribute{Name: a.Name, Type: a.Type, Labels: labels}
	}
	return &Schema{Relation: s.Relation, Attrs: attrs, LabelIndex: s.LabelIndex}
}

type valueKind int

const (
	kindMissing valueKind = iota // zero Value is missing
	kindText
	kindNum
)

// Value is one cell of an instance: a string payload for String
// attributes, a float64 payload for Numeric attributes and Nominal
// ordinals, or missing. The kind tag lets filters detect values that
// do not match the declared attribute type instead of silently
// coercing them.
type Value struct {
	kind valueKind
	str  string
	num  float64
}

// Str wraps a text value.
func Str(s string) Value { return Value{kind: kindText, str: s} }

// Num wraps a numeric value.
func Num(f float64) Value { return Value{kind: kindNum, num: f} }

// Ord wraps a nominal ordinal.
func Ord(i int) Value { return Value{kind: kindNum, num: float64(i)} }

// Missing returns the missing value.
func Missing() Value { return Value{} }

// IsMissing reports whether the value is absent.
func (v Value) IsMissing() bool { return v.kind == kindMissing }

// IsText reports whether the value holds a string payload.
func (v Value) IsText() bool { return v.kind == kindText }

// IsNum reports whether the value holds a numeric payload.
func (v Value) IsNum() bool { return v.kind == kindNum }

// Text returns the string payload. Calling it on a missing value
// returns "".
func (v Value) Text() string { return v.str }

// Float returns the numeric payload (the ordinal, for nominal values).
func (v Value) Float() float64 { return v.num }

// Ordinal returns the numeric payload truncated to an int.
func (v Value) Ordinal() int { return int(v.num) }

// Instance is one weighted record conforming to some schema.
type Instance struct {
	Weight float64
	Values []Value
}

// NewInstance creates an instance with weight 1.
func NewInstance(values ...Value) Instance {
	return Instance{Weight: 1, Values: values}
}

// LabelOrdinal returns the ordinal of the instance's label value under
// the given schema, or 0 when no label attribute is designated or the
// label value is missing.
func (in Instance) LabelOrdinal(s *Schema) int {
	if s.LabelIndex < 0 || s.LabelIndex >= len(in.Values) {
		return 0
	}
	v := in.Values[s.LabelIndex]
	if v.IsMissing() {
		return 0
	}
	return v.Ordinal()
}

// Dataset buffers instances under one schema. The word-vector filter
// materializes the whole training corpus here before the dictionary
// pass runs.
type Dataset struct {
	Schema    *Schema
	Instances []Instance
}

// New creates an empty dataset for the schema.
func New(s *Schema) *Dataset {
	return &Dataset{Schema: s}
}

// Add appends an instance.
func (d *Dataset) Add(in Instance) {
	d.Instances = append(d.Instances, in)
}

// Len returns the number of buffered instances.
func (d *Dataset) Len() int { return len(d.Instances) }
