package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func person() TypeDeclaration {
	return Export("Person", NewStruct(
		Prop("name", StringType),
		OptionalProp("age", NumberType),
	))
}

// TestFingerprint_Deterministic verifies equal declarations hash equally.
func TestFingerprint_Deterministic(t *testing.T) {
	fp1, err := Fingerprint(person())
	require.NoError(t, err)
	fp2, err := Fingerprint(person())
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64, "SHA-256 hex is 64 characters")
}

// TestFingerprint_ChangesWithInput verifies every printed attribute
// participates in the fingerprint.
func TestFingerprint_ChangesWithInput(t *testing.T) {
	base := MustFingerprint(person())

	unexported := person()
	unexported.Exported = false

	described := person()
	described.Description = "a person"

	reordered := Export("Person", NewStruct(
		OptionalProp("age", NumberType),
		Prop("name", StringType),
	))

	assert.NotEqual(t, base, MustFingerprint(unexported))
	assert.NotEqual(t, base, MustFingerprint(described))
	assert.NotEqual(t, base, MustFingerprint(reordered), "property order is significant")
}

// TestFingerprint_DomainSeparation verifies declaration and batch hashes
// never collide for the same content.
func TestFingerprint_DomainSeparation(t *testing.T) {
	single, err := Fingerprint(person())
	require.NoError(t, err)
	batch, err := BatchFingerprint([]Declaration{person()})
	require.NoError(t, err)

	assert.NotEqual(t, single, batch)
}

// TestBatchFingerprint_OrderSensitive verifies batch identity follows order.
func TestBatchFingerprint_OrderSensitive(t *testing.T) {
	a := Declare("A", StringType)
	b := Declare("B", NumberType)

	ab, err := BatchFingerprint([]Declaration{a, b})
	require.NoError(t, err)
	ba, err := BatchFingerprint([]Declaration{b, a})
	require.NoError(t, err)

	assert.NotEqual(t, ab, ba)
}

// TestFingerprint_NumberLiterals verifies float literals encode without
// tripping the canonical float ban.
func TestFingerprint_NumberLiterals(t *testing.T) {
	_, err := Fingerprint(Declare("Half", NumberLiteral(0.5)))
	require.NoError(t, err)
}

// TestOutputFingerprint verifies generated text hashes are stable and
// separated from declaration hashes.
func TestOutputFingerprint(t *testing.T) {
	a := OutputFingerprint("type A = string\n")
	assert.Len(t, a, 64)
	assert.Equal(t, a, OutputFingerprint("type A = string\n"))
	assert.NotEqual(t, a, OutputFingerprint("type A = number\n"))
	assert.NotEqual(t, hashWithDomain(DomainDeclaration, []byte("x")), OutputFingerprint("x"))
}
