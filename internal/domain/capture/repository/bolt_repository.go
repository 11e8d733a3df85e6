package repository

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"

	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

var transactionsBucket = []byte("capture_transactions")

var _ TransactionRepository = (*BoltTransactionRepository)(nil)

// BoltTransactionRepository keeps transactions in a local bolt file. Keys are
// user id followed by transaction id, so one user's rows sit together.
type BoltTransactionRepository struct {
	db *bolt.DB
}

// OpenBoltTransactionRepository opens (or creates) the bolt file at path.
func OpenBoltTransactionRepository(path string) (*BoltTransactionRepository, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt store %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(transactionsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	return &BoltTransactionRepository{db: db}, nil
}

// Close releases the bolt file lock.
func (r *BoltTransactionRepository) Close() error {
	return r.db.Close()
}

func boltKey(userID, id uuid.UUID) []byte {
	key := make([]byte, 0, 32)
	key = append(key, userID[:]...)
	return append(key, id[:]...)
}

func (r *BoltTransactionRepository) Put(ctx context.Context, t *Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	var val bytes.Buffer
	if err := gob.NewEncoder(&val).Encode(t); err != nil {
		return fmt.Errorf("encoding transaction: %w", err)
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(transactionsBucket)
		key := boltKey(t.UserID, t.ID)
		if b.Get(key) != nil {
			return fmt.Errorf("%w: transaction %s", common.ErrConflict, t.ID)
		}
		return b.Put(key, val.Bytes())
	})
}

func (r *BoltTransactionRepository) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var t *Transaction
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(transactionsBucket).Get(boltKey(userID, id))
		if v == nil {
			return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
		}
		decoded, err := decode(v)
		if err != nil {
			return err
		}
		t = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListByUser returns up to limit rows, newest first. A limit of zero or less
// returns all of them.
func (r *BoltTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var txs []*Transaction
	prefix := userID[:]
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(transactionsBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			t, err := decode(v)
			if err != nil {
				return err
			}
			txs = append(txs, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func decode(v []byte) (*Transaction, error) {
	var t Transaction
	if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding transaction of %d bytes: %w", len(v), err)
	}
	return &t, nil
}
