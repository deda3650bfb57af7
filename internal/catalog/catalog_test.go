package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/art0"
)

func file() *fstest.MapFile { return &fstest.MapFile{Data: []byte("png")} }

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"zones/ink/v0/1680/pink-1.png":      file(),
		"zones/ink/v0/1680/pink-2_1.png":    file(),
		"zones/ink/v0/1680/Green-10.png":    file(),
		"zones/ink/v0/1680/green-2.png":     file(),
		"zones/ink/v0/1680/violet-1.png":    file(),
		"zones/ink/v0/1680/pink-1.jpg":      file(),
		"zones/ink/v0/1680/notes.txt":       file(),
		"zones/ink/v0/840px/cyan-1.png":     file(),
		"zones/ink/v0/thumbs/pink-1.png":    file(),
		"zones/pastel/v0/840/red-1.png":     file(),
		"zones/pastel/v0/420px/red-1.png":   file(),
		"zones/empty/v0/README":             file(),
		"zones/noversion/1680/pink-1.png":   file(),
		"cadre/gold.png":                    file(),
		"cadre/silver.png":                  file(),
		"cadre/readme.md":                   file(),
		"intro/intro@1680.png":              file(),
		"intro/white@1680.png":              file(),
		"intro/intro@840.png":               file(),
		"intro/broken.png":                  file(),
		"intro/bad@res.png":                 file(),
	}
}

func TestStyles(t *testing.T) {
	c := New(testFS())
	styles, err := c.Styles()
	require.NoError(t, err)

	want := map[string][]int{
		"ink":    {840, 1680},
		"pastel": {420, 840},
	}
	if diff := cmp.Diff(want, styles); diff != "" {
		t.Errorf("Styles mismatch (-want +got):\n%s", diff)
	}

	names, err := c.StyleNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"ink", "pastel"}, names)
}

func TestStylesMissingRoot(t *testing.T) {
	c := New(fstest.MapFS{})
	styles, err := c.Styles()
	require.NoError(t, err)
	assert.Empty(t, styles)
}

func TestImages(t *testing.T) {
	c := New(testFS())
	images, err := c.Images("ink", 1680)
	require.NoError(t, err)

	want := map[art0.Category][]string{
		"pink":  {"zones/ink/v0/1680/pink-1.png", "zones/ink/v0/1680/pink-2_1.png"},
		"green": {"zones/ink/v0/1680/Green-10.png", "zones/ink/v0/1680/green-2.png"},
	}
	if diff := cmp.Diff(want, images); diff != "" {
		t.Errorf("Images mismatch (-want +got):\n%s", diff)
	}
}

func TestImagesPxDirectory(t *testing.T) {
	c := New(testFS())
	images, err := c.Images("ink", 840)
	require.NoError(t, err)
	assert.Equal(t, []string{"zones/ink/v0/840px/cyan-1.png"}, images["cyan"])
}

func TestImagesErrors(t *testing.T) {
	c := New(testFS())

	_, err := c.Images("missing", 1680)
	assert.ErrorIs(t, err, ErrStyleNotFound)

	_, err = c.Images("ink", 420)
	assert.ErrorIs(t, err, ErrResolutionNotFound)
}

func TestResolve(t *testing.T) {
	c := New(testFS())

	res, err := c.Resolve("ink", PreferredResolution)
	require.NoError(t, err)
	assert.Equal(t, 1680, res)

	res, err = c.Resolve("pastel", PreferredResolution)
	require.NoError(t, err)
	assert.Equal(t, 420, res, "falls back to the lowest resolution")

	_, err = c.Resolve("nope", PreferredResolution)
	assert.ErrorIs(t, err, ErrStyleNotFound)
}

func TestFrames(t *testing.T) {
	c := New(testFS())
	frames, err := c.Frames()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"none":   "",
		"gold":   "cadre/gold.png",
		"silver": "cadre/silver.png",
	}, frames)

	frames, err = New(fstest.MapFS{}).Frames()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"none": ""}, frames)
}

func TestIntros(t *testing.T) {
	c := New(testFS())
	intros, err := c.Intros()
	require.NoError(t, err)
	assert.Equal(t, map[int]map[string]string{
		1680: {"intro": "intro/intro@1680.png", "white": "intro/white@1680.png"},
		840:  {"intro": "intro/intro@840.png"},
	}, intros)

	id, ok := c.Intro("white", 1680)
	assert.True(t, ok)
	assert.Equal(t, "intro/white@1680.png", id)

	_, ok = c.Intro("white", 840)
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	c := New(testFS())
	sel, err := c.Select("", 0, "intro", "gold")
	require.NoError(t, err)

	assert.Equal(t, "ink", sel.Style)
	assert.Equal(t, 1680, sel.Resolution)
	assert.Equal(t, "intro/intro@1680.png", sel.Background)
	assert.Equal(t, "cadre/gold.png", sel.Frame)
	assert.Len(t, sel.Images["pink"], 2)
	assert.Len(t, sel.IDs(), 6)
}

func TestSelectUnknownFrameAndIntro(t *testing.T) {
	c := New(testFS())
	sel, err := c.Select("pastel", 1680, "white", "bronze")
	require.NoError(t, err)
	assert.Equal(t, 420, sel.Resolution)
	assert.Empty(t, sel.Background)
	assert.Empty(t, sel.Frame)
}

func TestSelectNoStyles(t *testing.T) {
	_, err := New(fstest.MapFS{}).Select("", 0, "", "")
	assert.ErrorIs(t, err, ErrStyleNotFound)
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1680", 1680, true},
		{"1680px", 1680, true},
		{"px", 0, false},
		{"thumbs", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseResolution(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
