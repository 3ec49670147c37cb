package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already canonical", input: "CONFIRMED", expected: "CONFIRMED"},
		{name: "lowercase", input: "confirmed", expected: "CONFIRMED"},
		{name: "mixed case with padding", input: "  Partially_Paid ", expected: "PARTIALLY_PAID"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeStatus(tt.input))
		})
	}
}

func TestIsConfirmedBooking(t *testing.T) {
	assert.True(t, IsConfirmedBooking("CONFIRMED"))
	assert.True(t, IsConfirmedBooking("confirmed"))
	assert.True(t, IsConfirmedBooking("PARTIALLY_PAID"))
	assert.False(t, IsConfirmedBooking("PENDING"))
	assert.False(t, IsConfirmedBooking("CANCELLED"))
	assert.False(t, IsConfirmedBooking(""))
}

func TestIsActiveBooking(t *testing.T) {
	assert.True(t, IsActiveBooking("PENDING"))
	assert.True(t, IsActiveBooking("CONFIRMED"))
	assert.True(t, IsActiveBooking("PARTIALLY_PAID"))
	assert.False(t, IsActiveBooking("CANCELLED"))
	assert.False(t, IsActiveBooking(" cancelled "))
	assert.False(t, IsActiveBooking(""))
}

func TestExtractSessionRef(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
		ok       bool
	}{
		{name: "bare string", input: "abc-123", expected: "abc-123", ok: true},
		{name: "padded string", input: "  abc-123 ", expected: "abc-123", ok: true},
		{name: "numeric id", input: float64(42), expected: "42", ok: true},
		{name: "camelCase key", input: map[string]any{"sessionId": "abc-123"}, expected: "abc-123", ok: true},
		{name: "snake_case key", input: map[string]any{"session_id": "abc-123"}, expected: "abc-123", ok: true},
		{name: "nested session object", input: map[string]any{"session": map[string]any{"id": "abc-123"}}, expected: "abc-123", ok: true},
		{name: "bare id key", input: map[string]any{"id": "abc-123"}, expected: "abc-123", ok: true},
		{name: "empty string", input: "", expected: "", ok: false},
		{name: "empty object", input: map[string]any{}, expected: "", ok: false},
		{name: "nil", input: nil, expected: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractSessionRef(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractSessionRefIdempotent(t *testing.T) {
	inputs := []any{
		"abc-123",
		float64(42),
		map[string]any{"sessionId": "abc-123"},
		map[string]any{"session": map[string]any{"id": "abc-123"}},
	}

	for _, input := range inputs {
		first, ok := ExtractSessionRef(input)
		require.True(t, ok)

		second, ok := ExtractSessionRef(first)
		require.True(t, ok)
		assert.Equal(t, first, second)
	}
}

func TestSessionRefUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
		wantErr  bool
	}{
		{name: "plain string", payload: `"abc-123"`, expected: "abc-123"},
		{name: "number", payload: `42`, expected: "42"},
		{name: "object with sessionId", payload: `{"sessionId":"abc-123"}`, expected: "abc-123"},
		{name: "nested session", payload: `{"session":{"id":"abc-123"}}`, expected: "abc-123"},
		{name: "empty object", payload: `{}`, wantErr: true},
		{name: "null", payload: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref SessionRef
			err := json.Unmarshal([]byte(tt.payload), &ref)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref.String())
		})
	}
}
