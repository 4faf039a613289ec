package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	n := 42

	tests := []struct {
		name   string
		prefix string
		args   []any
		want   string
	}{
		{"no args", "pages_list", nil, "pages_list"},
		{"strings", "page_detail", []any{"acme"}, "page_detail:acme"},
		{"mixed scalars", "page_posts", []any{"acme", 2, 25}, "page_posts:acme:2:25"},
		{"bool", "summary", []any{"acme", true}, "summary:acme:true"},
		{"nil pointer", "p", []any{(*int)(nil)}, "p:nil"},
		{"pointer dereference", "p", []any{&n}, "p:42"},
		{"time is utc rfc3339", "t", []any{ts}, "t:2024-03-01T12:30:00Z"},
		{"slice", "ids", []any{[]string{"a", "b"}}, "ids:[a,b]"},
		{"float", "f", []any{1.5}, "f:1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.prefix, tt.args...))
		})
	}
}

func TestKeyDeterministic(t *testing.T) {
	a := Key("recent_posts", "acme", 15)
	b := Key("recent_posts", "acme", 15)
	assert.Equal(t, a, b)
}
