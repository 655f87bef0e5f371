package world

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const symbolBase = 'a'

var (
	ErrSizeMismatch = errors.New("encoded world size mismatch")
	ErrBadSymbol    = errors.New("bad block symbol")
	ErrBadRecord    = errors.New("bad world record")
)

// NetworkString encodes every block as one printable byte, x outer, z inner.
// The size is not part of the payload.
func (w *World) NetworkString() string {
	buf := make([]byte, len(w.blocks))
	for i, id := range w.blocks {
		buf[i] = byte(symbolBase + int(id))
	}
	return string(buf)
}

// LoadNetworkString is the inverse of NetworkString. The world must already
// have the encoded size. On error the world is left unchanged. Observers are
// not notified.
func (w *World) LoadNetworkString(s string) error {
	if len(s) != len(w.blocks) {
		return errors.Wrapf(ErrSizeMismatch, "got %d blocks, world %dx%dx%d holds %d",
			len(s), w.sx, w.sy, w.sz, len(w.blocks))
	}
	blocks := make([]BlockID, len(s))
	for i := 0; i < len(s); i++ {
		c := int(s[i])
		if c < symbolBase || c > symbolBase+int(MaxBlockID) {
			return errors.Wrapf(ErrBadSymbol, "%q at offset %d", s[i], i)
		}
		blocks[i] = BlockID(c - symbolBase)
	}
	w.blocks = blocks
	return nil
}

// EncodeRecord returns the persisted form of w: the spawn point as three
// numeric fields followed by the network string, comma separated.
func EncodeRecord(w *World) string {
	var sb strings.Builder
	sb.Grow(len(w.blocks) + 48)
	for i := 0; i < 3; i++ {
		sb.WriteString(strconv.FormatFloat(float64(w.Spawn[i]), 'g', -1, 32))
		sb.WriteByte(',')
	}
	sb.WriteString(w.NetworkString())
	return sb.String()
}

// DecodeRecord loads a record produced by EncodeRecord into w. On error w is
// left unchanged.
func DecodeRecord(w *World, data string) error {
	fields := strings.SplitN(data, ",", 4)
	if len(fields) != 4 {
		return errors.Wrapf(ErrBadRecord, "want 4 fields, got %d", len(fields))
	}
	var spawn mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 32)
		if err != nil {
			return errors.Wrapf(ErrBadRecord, "spawn field %d: %v", i, err)
		}
		spawn[i] = float32(f)
	}
	if err := w.LoadNetworkString(fields[3]); err != nil {
		return err
	}
	w.Spawn = spawn
	return nil
}
