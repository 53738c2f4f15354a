package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "verifications"

// DB defines the interface for database operations
type DB interface {
	// SaveVerification saves a verification to the database
	SaveVerification(v *Verification) error

	// GetVerification retrieves a verification by ID
	GetVerification(id string) (*Verification, error)

	// ListVerifications returns all verifications, newest first
	ListVerifications() ([]*Verification, error)

	// DeleteVerification removes a verification from the database
	DeleteVerification(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveVerification saves a verification to the database
func (b *BoltDB) SaveVerification(v *Verification) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling verification: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(v.ID), data)
	})
}

// GetVerification retrieves a verification by ID
func (b *BoltDB) GetVerification(id string) (*Verification, error) {
	var v *Verification
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListVerifications returns all verifications, newest first
func (b *BoltDB) ListVerifications() ([]*Verification, error) {
	list := make([]*Verification, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, data []byte) error {
			var v Verification
			if err := json.Unmarshal(data, &v); err != nil {
				return fmt.Errorf("unmarshaling verification: %w", err)
			}
			list = append(list, &v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// DeleteVerification removes a verification from the database
func (b *BoltDB) DeleteVerification(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
