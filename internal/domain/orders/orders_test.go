package orders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusProcessing},
		{StatusConfirmed, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusCancelled},
		{StatusShipped, StatusDelivered},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusShipped},
		{StatusConfirmed, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusShipped, StatusProcessing},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusConfirmed},
		{StatusDelivered, StatusDelivered},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s should be rejected", tt.from, tt.to)
	}
}

func TestNumberGeneratorRoundTrip(t *testing.T) {
	gen, err := NewNumberGenerator("test-secret")
	require.NoError(t, err)

	for _, id := range []int64{1, 42, 987654} {
		number, err := gen.Generate(id)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(number, "VAIR-"), "got %q", number)

		decoded, ok := gen.Decode(number)
		require.True(t, ok, "decode %q", number)
		assert.Equal(t, id, decoded)
	}
}

func TestNumberGeneratorDecodeRejectsTamperedTag(t *testing.T) {
	gen, err := NewNumberGenerator("test-secret")
	require.NoError(t, err)

	number, err := gen.Generate(42)
	require.NoError(t, err)

	// Flip the last tag character; the checksum must catch it.
	last := number[len(number)-1]
	flipped := byte('A')
	if last == flipped {
		flipped = 'B'
	}
	tampered := number[:len(number)-1] + string(flipped)

	_, ok := gen.Decode(tampered)
	assert.False(t, ok, "decode %q should fail", tampered)
}

func TestNumberGeneratorRejectsForeignSecret(t *testing.T) {
	ours, err := NewNumberGenerator("test-secret")
	require.NoError(t, err)
	theirs, err := NewNumberGenerator("other-secret")
	require.NoError(t, err)

	number, err := theirs.Generate(42)
	require.NoError(t, err)

	_, ok := ours.Decode(number)
	assert.False(t, ok, "a number minted under another secret must not decode")
}

func TestNumberGeneratorDecodeRejectsGarbage(t *testing.T) {
	gen, err := NewNumberGenerator("test-secret")
	require.NoError(t, err)

	for _, bad := range []string{"", "VAIR", "ORD-ABCDEF-XXXX", "VAIR-!!!!-XXXX", "VAIR-ABCDEF"} {
		_, ok := gen.Decode(bad)
		assert.False(t, ok, "decode %q should fail", bad)
	}
}

func TestNumberGeneratorSaltMatters(t *testing.T) {
	a, err := NewNumberGenerator("secret-a")
	require.NoError(t, err)
	b, err := NewNumberGenerator("secret-b")
	require.NoError(t, err)

	numA, err := a.Generate(7)
	require.NoError(t, err)
	numB, err := b.Generate(7)
	require.NoError(t, err)

	assert.NotEqual(t, numA, numB)
}
