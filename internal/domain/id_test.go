package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseID(t *testing.T) {
	cases := []struct {
		desc string
		raw  string
		ok   bool
	}{
		{desc: "well formed", raw: "507f1f77bcf86cd799439011", ok: true},
		{desc: "upper case hex", raw: "507F1F77BCF86CD799439011", ok: true},
		{desc: "free text", raw: "invalid-id-format", ok: false},
		{desc: "empty", raw: "", ok: false},
		{desc: "too short", raw: "507f1f77bcf86cd79943901", ok: false},
		{desc: "too long", raw: "507f1f77bcf86cd7994390111", ok: false},
		{desc: "non hex characters", raw: "507f1f77bcf86cd79943901z", ok: false},
		{desc: "24 runes but not 24 bytes", raw: strings.Repeat("é", 12), ok: false},
	}
	for _, tc := range cases {
		id, ok := ParseID(tc.raw)
		assert.Equal(t, tc.ok, ok, tc.desc)
		if tc.ok {
			assert.Equal(t, strings.ToLower(tc.raw), id.Hex(), tc.desc)
		}
	}
}

func TestNewIDRoundTrip(t *testing.T) {
	raw := NewID()
	assert.Len(t, raw, 24)
	id, ok := ParseID(raw)
	assert.True(t, ok)
	assert.Equal(t, raw, id.Hex())
	assert.NotEqual(t, raw, NewID())
}
