package cache

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	createEntriesTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

	selectEntry = `SELECT value FROM cache_entries WHERE key = ?`
	upsertEntry = `
INSERT INTO cache_entries (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	deleteEntry = `DELETE FROM cache_entries WHERE key = ?`
)

// SQLStore keeps the cache entry in a single row of a sqlite3 or postgres
// database.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(driver, connect string) (SQLStore, error) {
	db, err := sqlx.Connect(driver, connect)
	if err != nil {
		return SQLStore{}, errors.Wrapf(err, "connecting to %s cache db", driver)
	}

	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(createEntriesTable); err != nil {
		db.Close()
		return SQLStore{}, errors.Wrap(err, "initializing cache schema")
	}

	return SQLStore{db: db}, nil
}

func (s SQLStore) Get(key string) ([]byte, error) {
	var value string

	if err := s.db.Get(&value, s.db.Rebind(selectEntry), key); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "selecting cache entry %s", key)
	}

	return []byte(value), nil
}

func (s SQLStore) Put(key string, value []byte) error {
	if _, err := s.db.Exec(s.db.Rebind(upsertEntry), key, string(value)); err != nil {
		return errors.Wrapf(err, "upserting cache entry %s", key)
	}

	return nil
}

func (s SQLStore) Delete(key string) error {
	if _, err := s.db.Exec(s.db.Rebind(deleteEntry), key); err != nil {
		return errors.Wrapf(err, "deleting cache entry %s", key)
	}

	return nil
}

func (s SQLStore) Close() error {
	return s.db.Close()
}
