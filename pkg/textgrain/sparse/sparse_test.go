package sparse

import (
	"reflect"
	"testing"
)

func TestCollectorSortsIndices(t *testing.T) {
	c := NewCollector()
	c.Set(7, 1.0)
	c.Set(2, 0.5)
	c.Set(5, 3.0)

	vec := c.Vector(1.0, 10)
	if !reflect.DeepEqual(vec.Indices, []int{2, 5, 7}) {
		t.Errorf("indices = %v, want [2 5 7]", vec.Indices)
	}
	if !reflect.DeepEqual(vec.Values, []float64{0.5, 3.0, 1.0}) {
		t.Errorf("values = %v, want [0.5 3 1]", vec.Values)
	}
	if err := vec.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestCollectorSetOverwrites(t *testing.T) {
	c := NewCollector()
	c.Set(3, 1.0)
	c.Set(3, 1.0)
	c.Set(3, 2.0)

	vec := c.Vector(1.0, 5)
	if vec.NumNonZero() != 1 {
		t.Fatalf("entries = %d, want 1", vec.NumNonZero())
	}
	if vec.Values[0] != 2.0 {
		t.Errorf("value = %g, want 2", vec.Values[0])
	}
}

func TestVectorGet(t *testing.T) {
	vec := Vector{Indices: []int{1, 4}, Values: []float64{1.5, 2.5}, Width: 6}
	if got := vec.Get(4); got != 2.5 {
		t.Errorf("Get(4) = %g, want 2.5", got)
	}
	if got := vec.Get(3); got != 0 {
		t.Errorf("Get(3) = %g, want 0", got)
	}
}

func TestVectorToDense(t *testing.T) {
	vec := Vector{Indices: []int{0, 3}, Values: []float64{1, 2}, Width: 4}
	got := vec.ToDense()
	want := []float64{1, 0, 0, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToDense = %v, want %v", got, want)
	}
}

func TestValidateRejectsBadVectors(t *testing.T) {
	tests := []struct {
		name string
		vec  Vector
	}{
		{"out of range", Vector{Indices: []int{5}, Values: []float64{1}, Width: 5}},
		{"negative index", Vector{Indices: []int{-1}, Values: []float64{1}, Width: 5}},
		{"descending", Vector{Indices: []int{3, 1}, Values: []float64{1, 1}, Width: 5}},
		{"duplicate", Vector{Indices: []int{2, 2}, Values: []float64{1, 1}, Width: 5}},
		{"length mismatch", Vector{Indices: []int{1}, Values: []float64{1, 2}, Width: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.vec.Validate(); err == nil {
				t.Error("Validate accepted an invalid vector")
			}
		})
	}
}

func TestEmptyVector(t *testing.T) {
	vec := NewCollector().Vector(2.0, 7)
	if vec.NumNonZero() != 0 {
		t.Errorf("entries = %d, want 0", vec.NumNonZero())
	}
	if vec.Weight != 2.0 {
		t.Errorf("weight = %g, want 2", vec.Weight)
	}
	if err := vec.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
