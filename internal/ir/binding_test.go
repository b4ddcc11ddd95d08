package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinding_Compatible(t *testing.T) {
	a := Binding{"x": "Rex", "y": "Dog"}

	assert.True(t, a.Compatible(Binding{"x": "Rex", "z": "Alice"}))
	assert.True(t, a.Compatible(Binding{"z": "Alice"}), "disjoint bindings are compatible")
	assert.True(t, a.Compatible(Binding{}))
	assert.False(t, a.Compatible(Binding{"x": "Fido"}))
}

func TestBinding_Merge(t *testing.T) {
	a := Binding{"x": "Rex"}
	b := Binding{"y": "Dog"}

	merged := a.Merge(b)
	assert.Equal(t, Binding{"x": "Rex", "y": "Dog"}, merged)
	assert.Equal(t, Binding{"x": "Rex"}, a, "Merge must not mutate the receiver")
}

func TestBinding_Project(t *testing.T) {
	b := Binding{"x": "Rex", "y": "Dog"}

	values, ok := b.Project([]string{"y", "x"})
	assert.True(t, ok)
	assert.Equal(t, []string{"Dog", "Rex"}, values)

	_, ok = b.Project([]string{"z"})
	assert.False(t, ok)
}

func TestBinding_KeyIndependentOfInsertionOrder(t *testing.T) {
	a := Binding{}
	a["x"] = "1"
	a["y"] = "2"
	b := Binding{}
	b["y"] = "2"
	b["x"] = "1"

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Binding{"x": "2", "y": "1"}.Key())
}

func TestDedupBindings(t *testing.T) {
	in := []Binding{{"x": "Rex"}, {"x": "Fido"}, {"x": "Rex"}}
	out := DedupBindings(in)
	assert.Equal(t, []Binding{{"x": "Rex"}, {"x": "Fido"}}, out)

	assert.NotNil(t, DedupBindings(nil))
	assert.Empty(t, DedupBindings(nil))
}

func TestError_Format(t *testing.T) {
	err := NewInvalidArgument("add", "expected 3 terms, got 2")
	assert.Equal(t, "INVALID_ARGUMENT: add: expected 3 terms, got 2", err.Error())

	cause := assert.AnError
	serr := NewStorageUnavailable("query", cause)
	assert.True(t, IsStorageUnavailable(serr))
	assert.ErrorIs(t, serr, cause)
	assert.False(t, IsInvalidArgument(serr))
}
