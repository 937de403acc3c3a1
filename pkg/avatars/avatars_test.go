package avatars

import (
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWritesPNG(t *testing.T) {
	gen, err := NewGenerator(t.TempDir())
	require.NoError(t, err)

	path, err := gen.Generate("acme", "org_1")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "org_1.png"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, defaultSize, img.Bounds().Dx())
	assert.Equal(t, defaultSize, img.Bounds().Dy())
}

func TestGenerateDeterministic(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(dir)
	require.NoError(t, err)

	pathA, err := gen.Generate("acme", "a")
	require.NoError(t, err)
	pathB, err := gen.Generate("acme", "b")
	require.NoError(t, err)

	dataA, err := os.ReadFile(pathA)
	require.NoError(t, err)
	dataB, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.Equal(t, dataA, dataB)
}

func TestGenerateDistinctNames(t *testing.T) {
	gen, err := NewGenerator(t.TempDir())
	require.NoError(t, err)

	pathA, err := gen.Generate("acme", "a")
	require.NoError(t, err)
	pathB, err := gen.Generate("globex", "b")
	require.NoError(t, err)

	dataA, err := os.ReadFile(pathA)
	require.NoError(t, err)
	dataB, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.NotEqual(t, dataA, dataB)
}

func TestDataURI(t *testing.T) {
	gen, err := NewGenerator(t.TempDir())
	require.NoError(t, err)

	uri, err := gen.DataURI("acme")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	again, err := gen.DataURI("acme")
	require.NoError(t, err)
	assert.Equal(t, uri, again)
}

func TestSaveDataURI(t *testing.T) {
	gen, err := NewGenerator(t.TempDir())
	require.NoError(t, err)

	// Round-trip a rendered identicon through the upload path.
	uri, err := gen.DataURI("acme")
	require.NoError(t, err)

	path, err := gen.SaveDataURI(uri, "org_uploaded")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "org_uploaded.png"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)
}

func TestSaveDataURIRejectsGarbage(t *testing.T) {
	gen, err := NewGenerator(t.TempDir())
	require.NoError(t, err)

	_, err = gen.SaveDataURI("data:image/png;base64,!!!!", "x")
	assert.Error(t, err)
	_, err = gen.SaveDataURI("https://example.com/a.png", "x")
	assert.Error(t, err)
	_, err = gen.SaveDataURI("data:image/png;base64,aGVsbG8=", "x")
	assert.Error(t, err, "valid base64 but not a PNG")
}

func TestNewGeneratorCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/avatars"
	_, err := NewGenerator(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
