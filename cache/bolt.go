package cache

import (
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

var (
	bucket = []byte("sheetcms-cache")
)

// BoltStore keeps the cache entry in a bolt database file, so it survives
// restarts.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return BoltStore{}, errors.Wrapf(err, "creating cache directory for %s", path)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return BoltStore{}, errors.Wrapf(err, "opening cache bolt storage %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)

		return err
	})
	if err != nil {
		db.Close()
		return BoltStore{}, errors.Wrap(err, "creating cache bolt bucket")
	}

	return BoltStore{db}, nil
}

func (b BoltStore) Get(key string) ([]byte, error) {
	var value []byte

	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}

		// v is only valid for the life of the transaction.
		value = append([]byte(nil), v...)

		return nil
	})

	if err != nil && err != ErrNotFound {
		err = errors.Wrapf(err, "reading %s from bolt storage", key)
	}

	return value, err
}

func (b BoltStore) Put(key string, value []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), value)
	})

	if err != nil {
		err = errors.Wrapf(err, "writing %s to bolt storage", key)
	}

	return err
}

func (b BoltStore) Delete(key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})

	if err != nil {
		err = errors.Wrapf(err, "deleting %s from bolt storage", key)
	}

	return err
}

func (b BoltStore) Close() error {
	return b.db.Close()
}
