package ir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementHashDeterminism(t *testing.T) {
	h1 := StatementHash("Rex", "type", "Dog", "default")
	h2 := StatementHash("Rex", "type", "Dog", "default")

	assert.Equal(t, h1, h2, "StatementHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestStatementHashChangesWithEachField(t *testing.T) {
	base := StatementHash("Rex", "type", "Dog", "default")

	assert.NotEqual(t, base, StatementHash("Fido", "type", "Dog", "default"))
	assert.NotEqual(t, base, StatementHash("Rex", "owner", "Dog", "default"))
	assert.NotEqual(t, base, StatementHash("Rex", "type", "Cat", "default"))
	assert.NotEqual(t, base, StatementHash("Rex", "type", "Dog", "m1"))
}

func TestStatementHashFieldBoundaries(t *testing.T) {
	// Plain concatenation would make these collide ("abc" + "d" vs "ab" + "cd").
	h1 := StatementHash("abc", "d", "e", "m")
	h2 := StatementHash("ab", "cd", "e", "m")
	assert.NotEqual(t, h1, h2)

	h3 := StatementHash("a", "b", "c", "dm")
	h4 := StatementHash("a", "b", "cd", "m")
	assert.NotEqual(t, h3, h4)
}

func TestStatementHashIgnoresMetadata(t *testing.T) {
	tr := NewTriple("Rex", "type", "Dog")
	a, err := NewStatement(tr, "default", time.Unix(0, 0), false)
	require.NoError(t, err)
	b, err := NewStatement(tr, "default", time.Now(), true)
	require.NoError(t, err)

	assert.Equal(t, a.Hash, b.Hash)
}

func TestStatementHashNoHTMLEscaping(t *testing.T) {
	// "<" must be encoded as itself, not as an escaped \u003c sequence.
	assert.Equal(t, `["<a&b>"]`, string(canonicalStrings("<a&b>")))
}

func TestHashTripleMatchesStatementHash(t *testing.T) {
	tr := NewTriple("Rex", "owner", "Alice")
	assert.Equal(t, StatementHash("Rex", "owner", "Alice", "m1"), HashTriple(tr, "m1"))
}
