package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintJSON_StableAcrossFieldOrder(t *testing.T) {
	a := map[string]any{"amount": "100.00", "customer": "Acme", "lines": []any{map[string]any{"b": 2, "a": 1}}}
	b := map[string]any{"customer": "Acme", "lines": []any{map[string]any{"a": 1, "b": 2}}, "amount": "100.00"}

	fa, err := FingerprintJSON(a)
	require.NoError(t, err)
	fb, err := FingerprintJSON(b)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 64) // SHA-256 hex
}

func TestFingerprintJSON_DistinguishesPayloads(t *testing.T) {
	fa, err := FingerprintJSON(map[string]any{"amount": "100.00"})
	require.NoError(t, err)
	fb, err := FingerprintJSON(map[string]any{"amount": "100.01"})
	require.NoError(t, err)

	assert.NotEqual(t, fa, fb)
}

func TestFingerprintJSON_StructAndMapAgree(t *testing.T) {
	type payload struct {
		Amount   string `json:"amount"`
		Customer string `json:"customer"`
	}

	fs, err := FingerprintJSON(payload{Amount: "100.00", Customer: "Acme"})
	require.NoError(t, err)
	fm, err := FingerprintJSON(map[string]any{"customer": "Acme", "amount": "100.00"})
	require.NoError(t, err)

	assert.Equal(t, fs, fm)
}
