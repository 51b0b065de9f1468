package sweep

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPatterns(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name        string
		file        string
		content     string
		missing     bool
		want        PatternList
		wantErr     bool
		errContains string
	}{
		{
			name:    "json document",
			file:    "output.json",
			content: `{"regexes": ["^1[0-2]\\d{4}$", "^56"]}`,
			want:    PatternList{`^1[0-2]\d{4}$`, "^56"},
		},
		{
			name:    "yaml document",
			file:    "output.yaml",
			content: "regexes:\n  - '^1[0-2]\\d{4}$'\n  - ^56\n",
			want:    PatternList{`^1[0-2]\d{4}$`, "^56"},
		},
		{
			name:    "yml extension",
			file:    "output.yml",
			content: "regexes: ['999']\n",
			want:    PatternList{"999"},
		},
		{
			name:    "duplicates kept in order",
			file:    "dupes.json",
			content: `{"regexes": ["^2", "^3", "^2"]}`,
			want:    PatternList{"^2", "^3", "^2"},
		},
		{
			name:    "empty list",
			file:    "empty.json",
			content: `{"regexes": []}`,
			want:    PatternList{},
		},
		{
			name:    "extra fields ignored",
			file:    "extra.json",
			content: `{"regexes": ["^1"], "generatedBy": "pinrex"}`,
			want:    PatternList{"^1"},
		},
		{
			name:        "missing regexes field",
			file:        "missing_field.json",
			content:     `{"patterns": ["^1"]}`,
			wantErr:     true,
			errContains: "regexes",
		},
		{
			name:        "regexes not an array",
			file:        "not_array.json",
			content:     `{"regexes": "^1"}`,
			wantErr:     true,
			errContains: "/regexes",
		},
		{
			name:        "non-string pattern",
			file:        "non_string.json",
			content:     `{"regexes": ["^1", 2]}`,
			wantErr:     true,
			errContains: "/regexes/1",
		},
		{
			name:        "top level array",
			file:        "array.json",
			content:     `["^1"]`,
			wantErr:     true,
			errContains: "does not match schema",
		},
		{
			name:        "invalid json",
			file:        "broken.json",
			content:     `{"regexes": [`,
			wantErr:     true,
			errContains: "invalid JSON",
		},
		{
			name:        "invalid yaml",
			file:        "broken.yaml",
			content:     "regexes: [\n",
			wantErr:     true,
			errContains: "invalid YAML",
		},
		{
			name:        "missing file",
			file:        "nonexistent.json",
			missing:     true,
			wantErr:     true,
			errContains: "nonexistent.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			if !tt.missing {
				path = writeFile(t, tmpDir, tt.file, tt.content)
			}

			got, err := LoadPatterns(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindInputLoad, KindOf(err))
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadPostalCodes(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name        string
		file        string
		content     string
		want        []int
		wantErr     bool
		errContains string
	}{
		{
			name:    "json document",
			file:    "input.json",
			content: `{"postalCodes": [110001, 110002, 560001]}`,
			want:    []int{110001, 110002, 560001},
		},
		{
			name:    "yaml document",
			file:    "input.yaml",
			content: "postalCodes:\n  - 110001\n  - 560001\n",
			want:    []int{110001, 560001},
		},
		{
			name:    "out of range values are accepted",
			file:    "range.json",
			content: `{"postalCodes": [42, 1000000]}`,
			want:    []int{42, 1000000},
		},
		{
			name:    "empty list",
			file:    "empty.json",
			content: `{"postalCodes": []}`,
			want:    []int{},
		},
		{
			name:        "missing postalCodes field",
			file:        "missing.json",
			content:     `{"codes": [110001]}`,
			wantErr:     true,
			errContains: "postalCodes",
		},
		{
			name:        "string codes rejected",
			file:        "strings.json",
			content:     `{"postalCodes": ["110001"]}`,
			wantErr:     true,
			errContains: "/postalCodes/0",
		},
		{
			name:        "fractional codes rejected",
			file:        "fraction.json",
			content:     `{"postalCodes": [110001, 110001.5]}`,
			wantErr:     true,
			errContains: "/postalCodes/1",
		},
		{
			name:        "null list rejected",
			file:        "null.json",
			content:     `{"postalCodes": null}`,
			wantErr:     true,
			errContains: "/postalCodes",
		},
		{
			name:        "empty yaml document",
			file:        "empty.yaml",
			content:     "",
			wantErr:     true,
			errContains: "does not match schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tmpDir, tt.file, tt.content)

			got, err := LoadPostalCodes(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, KindInputLoad, KindOf(err))
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePatterns(t *testing.T) {
	got, err := DecodePatterns(strings.NewReader(`{"regexes": ["^2", "^3"]}`))
	require.NoError(t, err)
	assert.Equal(t, PatternList{"^2", "^3"}, got)

	_, err = DecodePatterns(strings.NewReader(`{}`))
	require.Error(t, err)
	assert.Equal(t, KindInputLoad, KindOf(err))
	assert.Contains(t, err.Error(), "failed to load patterns")
}

func TestDecodePostalCodes(t *testing.T) {
	got, err := DecodePostalCodes(strings.NewReader(`{"postalCodes": [200000]}`))
	require.NoError(t, err)
	assert.Equal(t, []int{200000}, got)

	_, err = DecodePostalCodes(strings.NewReader(`{"postalCodes": [true]}`))
	require.Error(t, err)
	assert.Equal(t, KindInputLoad, KindOf(err))
}
