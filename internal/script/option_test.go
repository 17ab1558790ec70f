package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOption(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want Option
	}{
		{
			name: "single name string",
			raw:  map[string]any{"name": "--target", "about": "Where"},
			want: Option{Names: []string{"--target"}, About: "Where", Type: TypeString, Default: ""},
		},
		{
			name: "flag",
			raw:  map[string]any{"name": []any{"-f", "--fix"}, "is_flag": true},
			want: Option{Names: []string{"-f", "--fix"}, IsFlag: true, Default: false},
		},
		{
			name: "counter with default",
			raw:  map[string]any{"name": "-q", "count": true, "default": 2},
			want: Option{Names: []string{"-q"}, Count: true, Default: 2},
		},
		{
			name: "int from string default",
			raw:  map[string]any{"name": "--jobs", "type": "int", "default": "4"},
			want: Option{Names: []string{"--jobs"}, Type: TypeInt, Default: 4},
		},
		{
			name: "float from int default",
			raw:  map[string]any{"name": "--ratio", "type": "float", "default": 1},
			want: Option{Names: []string{"--ratio"}, Type: TypeFloat, Default: 1.0},
		},
		{
			name: "string default stringified",
			raw:  map[string]any{"name": "--level", "default": 3},
			want: Option{Names: []string{"--level"}, Type: TypeString, Default: "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOption(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "not a mapping", raw: "--x"},
		{name: "missing name", raw: map[string]any{"about": "x"}},
		{name: "empty name list", raw: map[string]any{"name": []any{}}},
		{name: "no dash", raw: map[string]any{"name": "force"}},
		{name: "long short", raw: map[string]any{"name": "-force"}},
		{name: "reserved verbose", raw: map[string]any{"name": []any{"-v"}}},
		{name: "reserved pretend", raw: map[string]any{"name": "--pretend"}},
		{name: "flag and count", raw: map[string]any{"name": "-x", "is_flag": true, "count": true}},
		{name: "bad type", raw: map[string]any{"name": "-x", "type": "list"}},
		{name: "type on flag", raw: map[string]any{"name": "-x", "is_flag": true, "type": "int"}},
		{name: "bad int default", raw: map[string]any{"name": "-x", "type": "int", "default": "many"}},
		{name: "bad flag default", raw: map[string]any{"name": "-x", "is_flag": true, "default": "yes"}},
		{name: "negative counter", raw: map[string]any{"name": "-x", "count": true, "default": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOption(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestOptionKey(t *testing.T) {
	assert.Equal(t, "dry_run", Option{Names: []string{"-n", "--dry-run"}}.Key())
	assert.Equal(t, "n", Option{Names: []string{"-n"}}.Key())
	assert.Equal(t, "first", Option{Names: []string{"--first", "--second"}}.Key())
}

func TestOptionRoundTrip(t *testing.T) {
	raws := []map[string]any{
		{"name": "--target"},
		{"name": []any{"-f", "--fix"}, "is_flag": true, "about": "Fix"},
		{"name": "-c", "count": true},
		{"name": "--jobs", "type": "int", "default": 8},
	}

	for _, raw := range raws {
		first, err := ParseOption(raw)
		require.NoError(t, err)
		second, err := ParseOption(first.ToConfig())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}
