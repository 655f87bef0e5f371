// Package seed writes seed files for world.CreateDefaultWorld.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/humboldt-xie/blockworld/world"
	"github.com/ojrac/opensimplex-go"
	"github.com/pkg/errors"
)

type Options struct {
	Seed       int64
	Structures []string // names to place, world.StructureNames() when empty
	// MinDistance is the smallest distance kept between two structures.
	MinDistance int
	// MaxAttempts bounds the spots tried per structure before giving up on it.
	MaxAttempts int
	// MaxHeight rejects spots whose normalized noise is above it.
	MaxHeight  float64
	NoiseScale float64
	ChunkSizes []int
	CaveWidth  int
	CaveHeight int
}

func (o Options) withDefaults(size int) Options {
	if len(o.Structures) == 0 {
		o.Structures = world.StructureNames()
	}
	if o.MinDistance <= 0 {
		o.MinDistance = 10
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 64
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = 0.7
	}
	if o.NoiseScale <= 0 {
		o.NoiseScale = 0.1
	}
	if len(o.ChunkSizes) == 0 {
		o.ChunkSizes = []int{16}
	}
	if o.CaveWidth <= 0 {
		o.CaveWidth = size / 4
	}
	if o.CaveHeight <= 0 {
		o.CaveHeight = 4
	}
	return o
}

// structures are kept this far from the world edge
const margin = 3

func artificial(name string) bool {
	switch name {
	case "house", "casa", "library", "biblioteca":
		return true
	}
	return false
}

// NewSeed generates one size x size seed. The same options and index always
// give the same seed.
func NewSeed(size, index int, opts Options) *world.Seed {
	opts = opts.withDefaults(size)
	rnd := rand.New(rand.NewSource(opts.Seed + int64(index)))
	noise := opensimplex.NewNormalized(opts.Seed + int64(index))

	s := &world.Seed{
		Width:      size,
		Height:     size,
		ChunkSizes: append([]int(nil), opts.ChunkSizes...),
		CaveWidth:  opts.CaveWidth,
		CaveHeight: opts.CaveHeight,
	}
	if size <= 2*margin {
		return s
	}
	for _, name := range opts.Structures {
		chance := 0.8
		if artificial(name) {
			chance = 0.2
		}
		if rnd.Float64() >= chance {
			continue
		}
		placed := false
		for i := 0; i < opts.MaxAttempts && !placed; i++ {
			x := margin + rnd.Intn(size-2*margin)
			y := margin + rnd.Intn(size-2*margin)
			if noise.Eval2(float64(x)*opts.NoiseScale, float64(y)*opts.NoiseScale) > opts.MaxHeight {
				continue
			}
			if !farFrom(s.Structures, x, y, opts.MinDistance) {
				continue
			}
			s.Structures = append(s.Structures, world.Placement{X: x, Y: y, Name: name})
			placed = true
		}
		if !placed {
			log.Printf("seed %d: no room for %s after %d attempts", index, name, opts.MaxAttempts)
		}
	}
	return s
}

func farFrom(placed []world.Placement, x, y, d int) bool {
	for _, p := range placed {
		dx, dy := p.X-x, p.Y-y
		if dx*dx+dy*dy < d*d {
			return false
		}
	}
	return true
}

// Generate writes count seeds named seed_<i>.txt into dir and returns their
// paths.
func Generate(dir string, count, size int, opts Options) ([]string, error) {
	if size <= 0 {
		return nil, errors.Errorf("bad seed size %d", size)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	var paths []string
	for i := 0; i < count; i++ {
		s := NewSeed(size, i, opts)
		p := filepath.Join(dir, fmt.Sprintf("seed_%d.txt", i))
		var sb strings.Builder
		if _, err := s.WriteTo(&sb); err != nil {
			return paths, err
		}
		if err := os.WriteFile(p, []byte(sb.String()), 0644); err != nil {
			return paths, errors.Wrapf(err, "write %s", p)
		}
		log.Printf("seed generated: %s, %d structures", p, len(s.Structures))
		paths = append(paths, p)
	}
	return paths, nil
}
