package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{
			name: "short string unchanged",
			in:   "systemd",
			max:  20,
			want: "systemd",
		},
		{
			name: "exact length unchanged",
			in:   "abcde",
			max:  5,
			want: "abcde",
		},
		{
			name: "long string truncated with ellipsis",
			in:   "/usr/lib/systemd/systemd-journald",
			max:  10,
			want: "/usr/li...",
		},
		{
			name: "multibyte runes counted not bytes",
			in:   "日本語のプロセス名",
			max:  6,
			want: "日本語...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), tt.max)
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("NetworkManager", "network"))
	assert.True(t, ContainsFold("sshd", "SSH"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("dockerd", "podman"))
}
