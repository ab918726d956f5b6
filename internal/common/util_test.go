package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- Bearer helpers ----------

func TestBearerHeader(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"raw token gets scheme", "abc.def.ghi", "Bearer abc.def.ghi"},
		{"prefixed token unchanged", "Bearer abc.def.ghi", "Bearer abc.def.ghi"},
		{"lowercase scheme unchanged", "bearer abc", "bearer abc"},
		{"surrounding spaces trimmed", "  abc  ", "Bearer abc"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BearerHeader(tt.token))
		})
	}
}

func TestStripBearer(t *testing.T) {
	assert.Equal(t, "abc", StripBearer("Bearer abc"))
	assert.Equal(t, "abc", StripBearer("BEARER  abc"))
	assert.Equal(t, "abc", StripBearer("abc"))
	assert.Equal(t, "", StripBearer(""))
}
