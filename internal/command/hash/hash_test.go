package hash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ghist/internal/command/commandtest"
	"github.com/keshon/ghist/internal/command/hash"
	"github.com/keshon/ghist/internal/history/dirhash"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"path", []string{"hash", "-q", "/home/user/project/main.go"}, "7551c079\n"},
		{"uri", []string{"hash", "-q", "file:///c%3A/Users/dev/app.js"}, dirhash.Hash("file:///c%3A/Users/dev/app.js") + "\n"},
		{"verbose", []string{"hash", "/home/user/project/main.go"}, "7551c079  file:///home/user/project/main.go\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := commandtest.New(t)
			h.Register(&hash.Command{})
			require.Equal(t, 0, h.Run(tt.args...), h.Stderr.String())
			assert.Equal(t, tt.want, h.Stdout.String())
		})
	}
}

func TestHash_NoArgs(t *testing.T) {
	h := commandtest.New(t)
	h.Register(&hash.Command{})
	assert.Equal(t, 1, h.Run("hash"))
}
