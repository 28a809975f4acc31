package cache

import (
	"time"

	"github.com/swezzy/sheetcms/log"
)

type loggingStore struct {
	Store

	log log.Log
}

// WithCallLogging logs how long each call to the store takes.
func WithCallLogging(s Store, log log.Log) Store {
	return loggingStore{Store: s, log: log}
}

func (s loggingStore) Get(key string) ([]byte, error) {
	start := time.Now()

	v, err := s.Store.Get(key)

	s.log.Infof("cache.Store.Get took %s", time.Now().Sub(start))

	return v, err
}

func (s loggingStore) Put(key string, value []byte) error {
	start := time.Now()

	err := s.Store.Put(key, value)

	s.log.Infof("cache.Store.Put took %s", time.Now().Sub(start))

	return err
}

func (s loggingStore) Delete(key string) error {
	start := time.Now()

	err := s.Store.Delete(key)

	s.log.Infof("cache.Store.Delete took %s", time.Now().Sub(start))

	return err
}
