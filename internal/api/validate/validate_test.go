package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	got, err := Title("  First kiss  ")
	require.NoError(t, err)
	assert.Equal(t, "First kiss", got)

	_, err = Title("   ")
	assert.Error(t, err)

	_, err = Title(strings.Repeat("x", TitleMaxLength+1))
	assert.Error(t, err)
}

func TestImageFilename(t *testing.T) {
	valid := []string{"sunset.jpg", "IMG_0042.png", "our first trip.webp", "a-b_c.0.gif"}
	for _, v := range valid {
		got, err := ImageFilename(v)
		require.NoError(t, err, v)
		assert.Equal(t, v, got)
	}

	invalid := []string{
		"",
		"   ",
		"photos/sunset.jpg",
		`photos\sunset.jpg`,
		"../etc/passwd",
		".",
		"http://evil/x.jpg",
		"sunset.jpg?width=600",
		"sunset.jpg#frag",
		"кот.jpg",
		strings.Repeat("a", FilenameMaxLength+1),
	}
	for _, v := range invalid {
		_, err := ImageFilename(v)
		assert.Error(t, err, "expected %q to be rejected", v)
	}
}

func TestImageFilenames(t *testing.T) {
	out, err := ImageFilenames([]string{" a.jpg ", "b.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.png"}, out)

	_, err = ImageFilenames(nil)
	assert.Error(t, err)

	_, err = ImageFilenames([]string{"a.jpg", "../b.png"})
	assert.Error(t, err)
}

func TestImageBaseName(t *testing.T) {
	cases := map[string]string{
		"sunset.jpg":   "sunset",
		"IMG_0042.png": "IMG_0042",
		"no-ext":       "no-ext",
	}
	for in, want := range cases {
		got, err := ImageBaseName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	// A space is storable as a filename but not resolvable as a photostock name.
	_, err := ImageBaseName("our trip.jpg")
	assert.Error(t, err)

	_, err = ImageBaseName("double.dot.jpg")
	assert.Error(t, err)
}

func TestImageName(t *testing.T) {
	for _, in := range []string{"sunset", "IMG_0042", "our-trip_2026"} {
		got, err := ImageName(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, got)
	}

	for _, in := range []string{"", ".", "..", "sunset.jpg", "a/b", `a\b`, "our trip", "кадр"} {
		_, err := ImageName(in)
		assert.Error(t, err, in)
	}
}

func TestTags(t *testing.T) {
	out, err := Tags([]string{" beach ", "2026"})
	require.NoError(t, err)
	assert.Equal(t, []string{"beach", "2026"}, out)

	out, err = Tags(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = Tags([]string{"ok", "  "})
	assert.Error(t, err)
}
