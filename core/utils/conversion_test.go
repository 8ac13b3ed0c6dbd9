package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"Nil", nil, ""},
		{"WholeFloat", float64(123), "123"},
		{"Float", 1.5, "1.5"},
		{"Bytes", []byte("abc"), "abc"},
		{"Number", json.Number("77"), "77"},
		{"Bool", true, "true"},
		{"Int", 12, "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}
