package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogFromRepoData(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("..", "..", "data", "yaml"))
	require.NoError(t, err)

	jojo := c.Creatures.Get(54611)
	require.NotNil(t, jojo)
	assert.Equal(t, "Jojo Ironbrow", jojo.Name)
	assert.Equal(t, uint32(39755), jojo.ModelAt(0))
	assert.Equal(t, uint32(0), jojo.ModelAt(7))
	assert.Nil(t, c.Creatures.Get(1))

	page := c.Pages.Get(3150)
	require.NotNil(t, page)
	assert.Equal(t, uint32(3151), page.NextPage)

	m := c.Maps.Get(996)
	require.NotNil(t, m)
	assert.True(t, m.HasEntrance())
	assert.False(t, c.Maps.Get(870).HasEntrance())

	require.NotNil(t, c.SceneTemplate(94))
	require.NotNil(t, c.ScenePackage(150))
	assert.Nil(t, c.ScenePackage(9999))
	assert.Len(t, c.Spawns, 1)
}

func TestLoadCatalogRejectsSpawnOfUnknownCreature(t *testing.T) {
	src := filepath.Join("..", "..", "data", "yaml")
	dir := t.TempDir()
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, e := range entries {
		raw, err := os.ReadFile(filepath.Join(src, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), raw, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "creature_spawn.yaml"),
		[]byte("spawns:\n  - guid: 1\n    entry: 424242\n    map_id: 0\n"), 0o644))

	_, err = LoadCatalog(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entry 424242")
}

func TestLoadCreatureTableRejectsOverlongStrings(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		want   string
	}{
		{"icon", "icon_name: " + strings.Repeat("x", MaxCreatureIconLen+1), "icon_name is 63 bytes"},
		{"name", "name: " + strings.Repeat("a", MaxCreatureNameLen+1), "name is 2047 bytes"},
		{"subname", "subname: " + strings.Repeat("a", 2100), "subname is 2100 bytes"},
		{"locale name", "locales:\n      deDE:\n        name: " + strings.Repeat("a", 3000), "deDE name is 3000 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "creature_template.yaml")
			src := "creatures:\n  - entry: 9\n    " + tt.fields + "\n"
			require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

			_, err := LoadCreatureTable(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "creature_template entry 9")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCreatureTableAcceptsLongestStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creature_template.yaml")
	src := "creatures:\n  - entry: 9\n    icon_name: " + strings.Repeat("x", MaxCreatureIconLen) +
		"\n    name: " + strings.Repeat("a", MaxCreatureNameLen) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	tbl, err := LoadCreatureTable(path)
	require.NoError(t, err)
	assert.Len(t, tbl.Get(9).Name, MaxCreatureNameLen)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadPageTextTable(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read page_text")
}

func TestLoadTableBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pages: [id: {"), 0o644))
	_, err := LoadPageTextTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse page_text")
}

func TestNilTable(t *testing.T) {
	var tbl *Table[PageText]
	assert.Nil(t, tbl.Get(1))
	assert.Equal(t, 0, tbl.Count())
}
