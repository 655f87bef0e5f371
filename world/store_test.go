package world

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "world.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStoreEmpty(t *testing.T) {
	s := openStore(t)
	_, err := s.LoadWorld()
	assert.Equal(t, ErrNoWorld, errors.Cause(err))
}

func TestStoreRoundTrip(t *testing.T) {
	s := openStore(t)

	w := NewWorld(16, 8, 12)
	w.CreateFlatWorld(5)
	w.SetBlock(3, 4, 10, Glass)
	w.Spawn = mgl32.Vec3{3.5, 4.5, 11}
	require.NoError(t, s.SaveWorld(w))

	sx, sy, sz, err := s.SavedSize()
	require.NoError(t, err)
	assert.Equal(t, []int{16, 8, 12}, []int{sx, sy, sz})

	loaded, err := s.LoadWorld()
	require.NoError(t, err)
	assert.Equal(t, w.NetworkString(), loaded.NetworkString())
	assert.Equal(t, w.Spawn, loaded.Spawn)

	// saving again replaces the record
	w.SetBlock(0, 0, 0, Air)
	require.NoError(t, s.SaveWorld(w))
	loaded, err = s.LoadWorld()
	require.NoError(t, err)
	assert.Equal(t, Air, loaded.Block(0, 0, 0))
}
