package world

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrBadSeed = errors.New("bad seed file")

// Placement is a structure to stamp into the world at X,Y on the ground.
type Placement struct {
	X, Y int
	Name string
}

// Seed is the terrain description written by the seed generator.
type Seed struct {
	Width, Height int
	Structures    []Placement
	ChunkSizes    []int
	CaveWidth     int
	CaveHeight    int
}

// StructureMarker separates the coordinates of a placement from its name.
const StructureMarker = "estructura"

var (
	placementRe = regexp.MustCompile(`\(([^)]*)\)` + StructureMarker + `([A-Za-z0-9_]+)`)
	digitsRe    = regexp.MustCompile(`-?\d+`)
)

// ParseSeed reads the four line seed format:
//
//	WxH
//	(x;y)estructura<name>,...
//	chunk sizes, comma separated
//	WxH of the cave
func ParseSeed(r io.Reader) (*Seed, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) < 4 {
		return nil, errors.Wrapf(ErrBadSeed, "want 4 lines, got %d", len(lines))
	}

	s := new(Seed)
	var err error
	s.Width, s.Height, err = parseDims(lines[0])
	if err != nil {
		return nil, errors.Wrapf(ErrBadSeed, "line 1: %v", err)
	}
	s.Structures, err = parsePlacements(lines[1])
	if err != nil {
		return nil, errors.Wrapf(ErrBadSeed, "line 2: %v", err)
	}
	s.ChunkSizes, err = parseInts(lines[2])
	if err != nil {
		return nil, errors.Wrapf(ErrBadSeed, "line 3: %v", err)
	}
	s.CaveWidth, s.CaveHeight, err = parseDims(lines[3])
	if err != nil {
		return nil, errors.Wrapf(ErrBadSeed, "line 4: %v", err)
	}
	for _, c := range s.ChunkSizes {
		if c <= 0 {
			return nil, errors.Wrapf(ErrBadSeed, "line 3: chunk size %d", c)
		}
	}
	return s, nil
}

func parseDims(line string) (int, int, error) {
	parts := strings.Split(line, "x")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("dimensions %q", line)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	if w < 0 || h < 0 {
		return 0, 0, errors.Errorf("negative dimensions %q", line)
	}
	return w, h, nil
}

func parsePlacements(line string) ([]Placement, error) {
	var res []Placement
	for _, m := range placementRe.FindAllStringSubmatch(line, -1) {
		coords := digitsRe.FindAllString(m[1], -1)
		if len(coords) < 2 {
			return nil, errors.Errorf("placement %q needs x and y", m[0])
		}
		x, _ := strconv.Atoi(coords[0])
		y, _ := strconv.Atoi(coords[1])
		res = append(res, Placement{X: x, Y: y, Name: m[2]})
	}
	// whatever the placements did not consume must be separators
	rest := placementRe.ReplaceAllString(line, "")
	if strings.Trim(rest, ", ") != "" {
		return nil, errors.Errorf("unparsed placement text %q", rest)
	}
	return res, nil
}

func parseInts(line string) ([]int, error) {
	if line == "" {
		return nil, nil
	}
	var res []int
	for _, f := range strings.Split(line, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}

// ChunkExtent returns the chunk extent suggested by the seed: one value means
// a cube, three values are x, y, z. ok is false when the seed names none.
func (s *Seed) ChunkExtent() (Vec3, bool) {
	switch len(s.ChunkSizes) {
	case 1:
		c := s.ChunkSizes[0]
		return Vec3{c, c, c}, true
	case 3:
		return Vec3{s.ChunkSizes[0], s.ChunkSizes[1], s.ChunkSizes[2]}, true
	}
	return Vec3{}, false
}

// CreateDefaultWorld builds a new world of Width x Height x depth from s. The
// ground sits at depth/2; the cave is carved under the world centre and the
// structures are stamped on the ground.
func CreateDefaultWorld(s *Seed, depth int, reg *Registry) (*World, error) {
	if s.Width <= 0 || s.Height <= 0 || depth <= 0 {
		return nil, errors.Wrapf(ErrBadSeed, "world size %dx%dx%d", s.Width, s.Height, depth)
	}
	w := NewWorld(s.Width, s.Height, depth)
	ground := depth / 2
	w.CreateFlatWorld(ground)
	for x := 0; x < w.sx; x++ {
		for y := 0; y < w.sy; y++ {
			for z := 0; z < ground; z++ {
				switch {
				case z == ground-1:
					w.put(x, y, z, Grass)
				case z < ground-4:
					w.put(x, y, z, Stone)
				}
			}
		}
	}

	if s.CaveWidth > 0 && s.CaveHeight > 0 && ground > 2 {
		x0 := (w.sx - s.CaveWidth) / 2
		y0 := (w.sy - s.CaveWidth) / 2
		top := 1 + s.CaveHeight
		if top > ground-2 {
			top = ground - 2
		}
		w.fill(x0, y0, 1, x0+s.CaveWidth, y0+s.CaveWidth, top, Air)
	}

	for _, p := range s.Structures {
		if p.X < 0 || p.Y < 0 || p.X >= w.sx || p.Y >= w.sy {
			return nil, errors.Wrapf(ErrBadSeed, "structure %s at %d,%d outside the world", p.Name, p.X, p.Y)
		}
		build, ok := structures[p.Name]
		if !ok {
			return nil, errors.Wrapf(ErrBadSeed, "unknown structure %q", p.Name)
		}
		build(w, reg, Vec3{p.X, p.Y, ground})
	}
	return w, nil
}

// put writes without notifying and ignores cells outside the world.
func (w *World) put(x, y, z int, id BlockID) {
	if w.InRange(x, y, z) {
		w.blocks[w.index(x, y, z)] = id
	}
}

func (w *World) fill(x0, y0, z0, x1, y1, z1 int, id BlockID) {
	for x := x0; x < x1; x++ {
		for y := y0; y < y1; y++ {
			for z := z0; z < z1; z++ {
				w.put(x, y, z, id)
			}
		}
	}
}

type structureFunc func(w *World, reg *Registry, base Vec3)

func tree(w *World, reg *Registry, b Vec3) {
	wood, leaves := named(reg, "wood", Wood), named(reg, "leaves", Leaves)
	w.fill(b.X-2, b.Y-2, b.Z+3, b.X+3, b.Y+3, b.Z+6, leaves)
	w.fill(b.X, b.Y, b.Z, b.X+1, b.Y+1, b.Z+5, wood)
}

func house(w *World, reg *Registry, b Vec3) {
	brick := named(reg, "brick", Brick)
	w.fill(b.X-2, b.Y-2, b.Z, b.X+3, b.Y+3, b.Z+4, brick)
	w.fill(b.X-1, b.Y-1, b.Z, b.X+2, b.Y+2, b.Z+3, Air)
	// door
	w.fill(b.X, b.Y-2, b.Z, b.X+1, b.Y-1, b.Z+2, Air)
}

func library(w *World, reg *Registry, b Vec3) {
	house(w, reg, b)
	w.fill(b.X-1, b.Y+1, b.Z, b.X+2, b.Y+2, b.Z+2, named(reg, "wood", Wood))
}

func rock(w *World, reg *Registry, b Vec3) {
	w.fill(b.X, b.Y, b.Z, b.X+2, b.Y+2, b.Z+2, named(reg, "stone", Stone))
}

func named(reg *Registry, name string, def BlockID) BlockID {
	if reg != nil {
		if id, ok := reg.Lookup(name); ok {
			return id
		}
	}
	return def
}

var structures = map[string]structureFunc{
	"tree":       tree,
	"arbol":      tree,
	"house":      house,
	"casa":       house,
	"library":    library,
	"biblioteca": library,
	"rock":       rock,
	"roca":       rock,
}

// StructureNames lists the structures CreateDefaultWorld can place.
func StructureNames() []string {
	return []string{"tree", "house", "library", "rock"}
}

// WriteTo writes s in the format ParseSeed reads.
func (s *Seed) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d\n", s.Width, s.Height)
	for i, p := range s.Structures {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "(%d;%d)%s%s", p.X, p.Y, StructureMarker, p.Name)
	}
	sb.WriteByte('\n')
	for i, c := range s.ChunkSizes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(c))
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "%dx%d\n", s.CaveWidth, s.CaveHeight)
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
