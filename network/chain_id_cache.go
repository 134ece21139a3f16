package network

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/crytic/zkconf/utils"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// chainIDBucket is the bbolt bucket holding the last chain id observed per endpoint.
var chainIDBucket = []byte("chainIds")

// ChainIDCache persists the last chain id each endpoint answered with, so that an endpoint which starts serving a
// different chain can be flagged. Endpoints are keyed by a hash of their URL, since expanded URLs may carry API keys.
type ChainIDCache struct {
	db *bolt.DB
}

// OpenChainIDCache opens (creating if needed) a chain id cache at the given file path.
func OpenChainIDCache(path string) (*ChainIDCache, error) {
	if err := utils.MakeDirectory(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open chain id cache '%s'", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(chainIDBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}
	return &ChainIDCache{db: db}, nil
}

// Get returns the last chain id recorded for an endpoint, if any.
func (c *ChainIDCache) Get(endpoint string) (uint64, bool, error) {
	var (
		chainID uint64
		found   bool
	)
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(chainIDBucket).Get(endpointKey(endpoint))
		if len(v) != 8 {
			return nil
		}
		chainID, found = binary.BigEndian.Uint64(v), true
		return nil
	})
	return chainID, found, errors.WithStack(err)
}

// Put records the chain id an endpoint answered with.
func (c *ChainIDCache) Put(endpoint string, chainID uint64) error {
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], chainID)
	return errors.WithStack(c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(chainIDBucket).Put(endpointKey(endpoint), v[:])
	}))
}

// Observe records the chain id an endpoint answered with and returns the previously recorded one, if any.
func (c *ChainIDCache) Observe(endpoint string, chainID uint64) (uint64, bool, error) {
	previous, found, err := c.Get(endpoint)
	if err != nil {
		return 0, false, err
	}
	if !found || previous != chainID {
		if err := c.Put(endpoint, chainID); err != nil {
			return 0, false, err
		}
	}
	return previous, found, nil
}

// Close releases the cache's file lock.
func (c *ChainIDCache) Close() error {
	return errors.WithStack(c.db.Close())
}

func endpointKey(endpoint string) []byte {
	sum := sha256.Sum256([]byte(endpoint))
	return []byte(hex.EncodeToString(sum[:]))
}
