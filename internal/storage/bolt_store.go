package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	BucketRuns  = "runs"
	BucketIndex = "runs_by_time"
)

var ErrNotFound = errors.New("run not found")

type Store struct {
	db *bbolt.DB
}

// DefaultPath is $HOME/.hellod/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".hellod", "history.db"), nil
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketRuns)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(BucketIndex))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the run and indexes it by timestamp.
func (s *Store) Save(run Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(BucketRuns)).Put([]byte(run.ID), data); err != nil {
			return err
		}
		return tx.Bucket([]byte(BucketIndex)).Put(indexKey(run), []byte(run.ID))
	})
}

// List returns every run, newest first.
func (s *Store) List() ([]Run, error) {
	var runs []Run

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(BucketRuns))
		c := tx.Bucket([]byte(BucketIndex)).Cursor()

		for k, id := c.Last(); k != nil; k, id = c.Prev() {
			v := data.Get(id)
			if v == nil {
				continue
			}
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("decode run %s: %w", id, err)
			}
			runs = append(runs, run)
		}
		return nil
	})
	return runs, err
}

func (s *Store) Get(id string) (*Run, error) {
	var run Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(BucketRuns)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &run)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// indexKey orders by time, with the ID appended to keep keys unique.
func indexKey(run Run) []byte {
	key := make([]byte, 8, 8+len(run.ID))
	binary.BigEndian.PutUint64(key, uint64(run.Timestamp.UnixNano()))
	return append(key, run.ID...)
}
