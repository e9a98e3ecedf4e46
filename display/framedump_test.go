package display

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeu5/pusht-hirl/types"
)

func grayFrame(n int) types.ImageObservation {
	pixels := make([]byte, n*n*3)
	for i := range pixels {
		pixels[i] = 128
	}
	return types.ImageObservation{Width: n, Height: n, Pixels: pixels}
}

func TestFrameDumpWritesEveryNth(t *testing.T) {
	dir := t.TempDir()
	r, err := NewFrameDumpRenderer(dir, 2, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		r.Render(grayFrame(8), "")
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "frame_000000.png", entries[0].Name())
	assert.Equal(t, "frame_000002.png", entries[1].Name())
	assert.Equal(t, "frame_000004.png", entries[2].Name())

	// png magic
	bs, err := os.ReadFile(path.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, bs[:4])
}

func TestFrameDumpSkipsVectorObservations(t *testing.T) {
	dir := t.TempDir()
	r, err := NewFrameDumpRenderer(dir, 1, nil)
	require.NoError(t, err)

	r.Render(types.VectorObservation{Values: []float64{1}}, "")
	r.Render(types.CompositeObservation{Image: grayFrame(4)}, "")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
