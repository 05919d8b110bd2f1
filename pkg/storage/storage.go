// Package storage persists raw MARC21 record buffers in pebble, keyed by ksuid,
// with a secondary index on the control number (field 001).
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/marc21/pkg/marc"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateControl = errors.New("control number already stored")
)

var (
	recordPrefix  = []byte("r/")
	controlPrefix = []byte("c/")
)

// RecordStore stores validated MARC21 records. It is safe for concurrent use.
type RecordStore struct {
	db *pebble.DB

	// mu serializes mutations so the control number check and the batch
	// commit are atomic
	mu sync.Mutex
}

// Open opens (or creates) a record store at path
func Open(path string) (*RecordStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return &RecordStore{db: db}, nil
}

// Create validates data as a MARC21 record and stores it under a new ID
func (s *RecordStore) Create(data []byte) (ksuid.KSUID, error) {
	cn, err := controlNumber(data)
	if err != nil {
		return ksuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cn != "" {
		if _, err := s.FindByControlNumber(cn); err == nil {
			return ksuid.Nil, fmt.Errorf("%w: %s", ErrDuplicateControl, cn)
		} else if !errors.Is(err, ErrRecordNotFound) {
			return ksuid.Nil, err
		}
	}

	id := ksuid.New()
	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(recordKey(id), data, nil); err != nil {
		return ksuid.Nil, err
	}
	if cn != "" {
		if err := batch.Set(controlKey(cn), id.Bytes(), nil); err != nil {
			return ksuid.Nil, err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Read returns the raw record stored under id
func (s *RecordStore) Read(id ksuid.KSUID) ([]byte, error) {
	return s.get(recordKey(id))
}

// Update replaces the record stored under id, moving its control number index
func (s *RecordStore) Update(id ksuid.KSUID, data []byte) error {
	cn, err := controlNumber(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	old, err := s.Read(id)
	if err != nil {
		return err
	}
	oldCN, err := controlNumber(old)
	if err != nil {
		return err
	}
	if cn != "" && cn != oldCN {
		if _, err := s.FindByControlNumber(cn); err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateControl, cn)
		} else if !errors.Is(err, ErrRecordNotFound) {
			return err
		}
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if oldCN != "" && oldCN != cn {
		if err := batch.Delete(controlKey(oldCN), nil); err != nil {
			return err
		}
	}
	if err := batch.Set(recordKey(id), data, nil); err != nil {
		return err
	}
	if cn != "" {
		if err := batch.Set(controlKey(cn), id.Bytes(), nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

// Delete removes the record stored under id
func (s *RecordStore) Delete(id ksuid.KSUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.Read(id)
	if err != nil {
		return err
	}
	cn, err := controlNumber(data)
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(recordKey(id), nil); err != nil {
		return err
	}
	if cn != "" {
		if err := batch.Delete(controlKey(cn), nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

// FindByControlNumber returns the ID of the record whose 001 field is cn
func (s *RecordStore) FindByControlNumber(cn string) (ksuid.KSUID, error) {
	raw, err := s.get(controlKey(cn))
	if err != nil {
		return ksuid.Nil, err
	}
	return ksuid.FromBytes(raw)
}

// List returns all record IDs in ksuid (creation time) order
func (s *RecordStore) List() ([]ksuid.KSUID, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: recordPrefix,
		UpperBound: prefixEnd(recordPrefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var ids []ksuid.KSUID
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(recordPrefix):])
		if err != nil {
			return nil, fmt.Errorf("corrupt record key %x: %w", iter.Key(), err)
		}
		ids = append(ids, id)
	}
	return ids, iter.Error()
}

// Close closes the underlying database
func (s *RecordStore) Close() error {
	return s.db.Close()
}

func (s *RecordStore) get(key []byte) ([]byte, error) {
	data, closer, err := s.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrRecordNotFound, err)
		}
		return nil, err
	}
	defer closer.Close()

	// data is only valid until closer.Close
	return bytes.Clone(data), nil
}

// controlNumber validates data and returns its first 001 value, if any
func controlNumber(data []byte) (string, error) {
	rec := marc.NewRecord(data)
	if err := rec.Validate(); err != nil {
		return "", err
	}
	fields, err := rec.Field(marc.ControlKey("001"))
	if err != nil || len(fields) == 0 {
		return "", err
	}
	return fields[0].Value, nil
}

func recordKey(id ksuid.KSUID) []byte {
	return append(append([]byte{}, recordPrefix...), id.Bytes()...)
}

func controlKey(cn string) []byte {
	return append(append([]byte{}, controlPrefix...), cn...)
}

func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	end[len(end)-1]++
	return end
}
