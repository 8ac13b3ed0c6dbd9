package server_test

import (
	"testing"

	"subdaap-sync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidPort(t *testing.T) {
	tests := []struct {
		name string
		port string
		want bool
	}{
		{"Default", "3689", true},
		{"Lowest", "1", true},
		{"Highest", "65535", true},
		{"Zero", "0", false},
		{"TooHigh", "65536", false},
		{"NotNumber", "daap", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.IsValidPort())
		})
	}
}

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, "0.0.0.0:3689", server.Config{Interface: "0.0.0.0", Port: "3689"}.Address())
	assert.Equal(t, "[::1]:8080", server.Config{Interface: "::1", Port: "8080"}.Address())
}
