package world

import (
	"encoding/json"
	"log"

	"github.com/boltdb/bolt"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var (
	worldBucket = []byte("world")
	metaBucket  = []byte("meta")

	recordKey = []byte("record")
	sizeKey   = []byte("size")
)

var ErrNoWorld = errors.New("no saved world")

type Store interface {
	SaveWorld(w *World) error
	// LoadWorld returns a new world sized and filled from the store.
	LoadWorld() (*World, error)
	SavedSize() (sx, sy, sz int, err error)
	Close()
}

type worldSize struct {
	SX, SY, SZ int
}

type BoltStore struct {
	db  *bolt.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewBoltStore(p string) (*BoltStore, error) {
	db, err := bolt.Open(p, 0666, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(worldBucket)
		if err != nil {
			return err
		}
		_, err = tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, enc: enc, dec: dec}, nil
}

func (s *BoltStore) SaveWorld(w *World) error {
	size, err := json.Marshal(worldSize{w.sx, w.sy, w.sz})
	if err != nil {
		return err
	}
	record := s.enc.EncodeAll([]byte(EncodeRecord(w)), nil)
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(metaBucket).Put(sizeKey, size); err != nil {
			return err
		}
		return tx.Bucket(worldBucket).Put(recordKey, record)
	})
	if err != nil {
		return errors.Wrap(err, "save world")
	}
	log.Printf("saved world %dx%dx%d, %d bytes", w.sx, w.sy, w.sz, len(record))
	return nil
}

func (s *BoltStore) SavedSize() (sx, sy, sz int, err error) {
	var size worldSize
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(sizeKey)
		if v == nil {
			return ErrNoWorld
		}
		return json.Unmarshal(v, &size)
	})
	return size.SX, size.SY, size.SZ, err
}

func (s *BoltStore) LoadWorld() (*World, error) {
	sx, sy, sz, err := s.SavedSize()
	if err != nil {
		return nil, err
	}
	if sx <= 0 || sy <= 0 || sz <= 0 {
		return nil, errors.Wrapf(ErrBadRecord, "saved size %dx%dx%d", sx, sy, sz)
	}
	var record []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(worldBucket).Get(recordKey)
		if v == nil {
			return ErrNoWorld
		}
		var err error
		record, err = s.dec.DecodeAll(v, nil)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "load world")
	}
	w := NewWorld(sx, sy, sz)
	if err := DecodeRecord(w, string(record)); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *BoltStore) Close() {
	s.dec.Close()
	s.enc.Close()
	s.db.Sync()
	s.db.Close()
}
