package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gpl")
	body := "GIMP Palette\nName: two\nColumns: 2\n# comment\n0 0 0\tBlack\n255 128 0 Orange\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	p, err := LoadGPL(path)
	require.NoError(t, err)
	assert.Equal(t, "two", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 128, 0}}, p.Colors)
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{255, 128, 0}, p.Lookup(1))
	assert.Equal(t, RGB{255, 128, 0}, p.Index(9))
	assert.Equal(t, RGB{0, 0, 0}, p.Index(-3))
}

func TestLoadGPLBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\n0 0 0\n300 0 0 Too bright\n"), 0644))
	_, err := LoadGPL(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.gpl:3")
}

func TestLoadGPLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\n"), 0644))
	_, err := LoadGPL(path)
	assert.Error(t, err)
}

func TestDefaultPalette(t *testing.T) {
	p, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Len(t, p.Colors, 32)
	first, last := p.Colors[0], p.Colors[31]
	for i, want := range []uint8{0x10, 0x12, 0x1c} {
		assert.InDelta(t, want, first[i], 1)
	}
	for i, want := range []uint8{0xff, 0xf4, 0xdc} {
		assert.InDelta(t, want, last[i], 1)
	}

	th := New(p)
	assert.Len(t, string(th.BG()), 7)
	assert.NotEqual(t, th.BG(), th.Success())
}
