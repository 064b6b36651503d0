package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	yaml := `
name: basic
description: One create
start: "2024-01-02 03:04:05"
strict: true
steps:
  - op: create
    args: {name: Alice, email: alice@x.com, phone: "01012345678", address: Cairo}
    advance: 1m
  - op: update
    args: {name: Alice, field: phone, value: "0001"}
    expect: invalid_phone
assertions:
  - type: row_count
    count: 1
`
	s, err := ParseScenario([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	assert.True(t, s.Strict)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, OpCreate, s.Steps[0].Op)
	assert.Equal(t, "01012345678", s.Steps[0].Args["phone"])
	assert.Equal(t, "1m", s.Steps[0].Advance)
	assert.Equal(t, "invalid_phone", s.Steps[1].Expect)
	require.Len(t, s.Assertions, 1)
	assert.Equal(t, 1, s.Assertions[0].Count)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: "name: a\ndescription: b\nstepz: []\n",
			want: "field stepz not found",
		},
		{
			name: "missing name",
			yaml: "description: b\nsteps: [{op: list}]\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: a\nsteps: [{op: list}]\n",
			want: "description is required",
		},
		{
			name: "no steps",
			yaml: "name: a\ndescription: b\n",
			want: "steps list is required",
		},
		{
			name: "bad start",
			yaml: "name: a\ndescription: b\nstart: yesterday\nsteps: [{op: list}]\n",
			want: "start:",
		},
		{
			name: "unknown op",
			yaml: "name: a\ndescription: b\nsteps: [{op: rename}]\n",
			want: `steps[0]: unknown op "rename"`,
		},
		{
			name: "missing arg",
			yaml: "name: a\ndescription: b\nsteps: [{op: delete}]\n",
			want: `steps[0]: delete requires arg "name"`,
		},
		{
			name: "unknown expect",
			yaml: "name: a\ndescription: b\nsteps: [{op: list, expect: boom}]\n",
			want: `unknown expect "boom"`,
		},
		{
			name: "bad advance",
			yaml: "name: a\ndescription: b\nsteps: [{op: list, advance: soon}]\n",
			want: "steps[0]: advance:",
		},
		{
			name: "assertion without type",
			yaml: "name: a\ndescription: b\nsteps: [{op: list}]\nassertions: [{count: 1}]\n",
			want: "assertions[0]: type is required",
		},
		{
			name: "file_copy without path",
			yaml: "name: a\ndescription: b\nsteps: [{op: list}]\nassertions: [{type: file_copy}]\n",
			want: "path is required",
		},
		{
			name: "object_copy without key",
			yaml: "name: a\ndescription: b\nsteps: [{op: list}]\nassertions: [{type: object_copy, bucket: b}]\n",
			want: "bucket and key are required",
		},
		{
			name: "unknown assertion",
			yaml: "name: a\ndescription: b\nsteps: [{op: list}]\nassertions: [{type: vibes}]\n",
			want: `unknown assertion type "vibes"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read scenario file")
	})

	t.Run("from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "s.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: a\ndescription: b\nsteps: [{op: list, expect: not_found}]\n"), 0o644))

		s, err := LoadScenario(path)
		require.NoError(t, err)
		assert.Equal(t, "a", s.Name)
	})

	t.Run("all testdata scenarios parse", func(t *testing.T) {
		paths, err := filepath.Glob("testdata/scenarios/*.yaml")
		require.NoError(t, err)
		require.NotEmpty(t, paths)
		for _, p := range paths {
			_, err := LoadScenario(p)
			assert.NoError(t, err, p)
		}
	})
}
