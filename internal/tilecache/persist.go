package tilecache

import (
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// OpenPersistentIndex builds an Index of the given capacity preloaded from
// a badger database rooted at dir, creating it if it doesn't exist yet.
// The returned close function flushes the current in-memory entries back
// to disk and releases the database; callers should defer it.
func OpenPersistentIndex(dir string, capacity int) (*Index, func() error, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, nil, err
	}

	idx := NewIndex(capacity)
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			if err := item.Value(func(val []byte) error {
				t, perr := time.Parse(time.RFC3339Nano, string(val))
				if perr != nil {
					return nil
				}
				idx.lru.Add(key, t)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	flush := func() error {
		snap := idx.lru.Snapshot()
		return db.Update(func(txn *badger.Txn) error {
			for key, t := range snap {
				if err := txn.Set([]byte(key), []byte(t.Format(time.RFC3339Nano))); err != nil {
					return err
				}
			}
			return nil
		})
	}

	closer := func() error {
		if err := flush(); err != nil {
			db.Close()
			return err
		}
		return db.Close()
	}

	return idx, closer, nil
}
