package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, IgnoreFileName)
	content := "fixtures/\n*.pem\n# comment\n\nsecret.env\n"
	require.NoError(t, os.WriteFile(ig, []byte(content), 0o644))

	m, err := LoadIgnore(ig)
	require.NoError(t, err)

	cases := map[string]bool{
		"fixtures/fake_creds.txt": true,
		"certs/key.pem":           true,
		"secret.env":              true,
		"src/app.go":              false,
	}
	for p, want := range cases {
		assert.Equal(t, want, m.Match(p), "Match(%q)", p)
	}
}

func TestLoadIgnoreMissingFile(t *testing.T) {
	m, err := LoadIgnore(filepath.Join(t.TempDir(), IgnoreFileName))
	require.NoError(t, err)
	assert.False(t, m.Match("anything"))
}

func TestDirSourceHonorsIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, IgnoreFileName), []byte("skipme.txt\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skipme.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("y"), 0o644))

	units := collect(t, NewDirSource(testLogger()), dir)
	assert.Contains(t, units, filepath.Join(dir, "keep.txt"))
	assert.NotContains(t, units, filepath.Join(dir, "skipme.txt"))
}
