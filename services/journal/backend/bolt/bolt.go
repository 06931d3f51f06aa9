// Copyright 2023 AI Redefined Inc. <dev+cogment@ai-r.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bolt

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/ankireview/ankireview/services/journal/backend"
)

var log = logrus.WithField("component", "journal-bolt")

type boltBackend struct {
	db       *bolt.DB
	filePath string
}

var entriesBucketName = []byte("entries")

func getEntriesBucket(tx *bolt.Tx) *bolt.Bucket {
	entriesBucket := tx.Bucket(entriesBucketName)
	if entriesBucket == nil {
		log.Fatal("entries bucket doesn't exist")
	}
	return entriesBucket
}

func serializeNumID(id uint64) []byte {
	// Format using a hex representation of a fixed length of 16 characters padded with 0
	return []byte(fmt.Sprintf("%016x", id))
}

func deserializeNumID(value []byte) (uint64, error) {
	number, err := strconv.ParseUint(string(value), 16, 64)
	if err != nil {
		return 0, backend.NewUnexpectedError("unable to deserialize number id (%w)", err)
	}
	return number, nil
}

func serializeEntry(entry *backend.Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	err := enc.Encode(*entry)
	if err != nil {
		return nil, backend.NewUnexpectedError("unable to serialize journal entry (%w)", err)
	}
	return buf.Bytes(), nil
}

func deserializeEntry(v []byte) (*backend.Entry, error) {
	dec := gob.NewDecoder(bytes.NewBuffer(v))
	entry := &backend.Entry{}
	err := dec.Decode(entry)
	if err != nil {
		return nil, backend.NewUnexpectedError("unable to deserialize journal entry (%w)", err)
	}
	return entry, nil
}

type Options struct {
	// ReadOnly opens the file without taking the write lock, allowing concurrent readers
	ReadOnly bool
	// Timeout is the maximum duration to wait for the file lock
	Timeout time.Duration
}

var DefaultOptions = Options{
	ReadOnly: false,
	Timeout:  1 * time.Second,
}

func CreateBoltBackend(filePath string) (backend.Backend, error) {
	return CreateBoltBackendWithOptions(filePath, DefaultOptions)
}

func CreateBoltBackendWithOptions(filePath string, options Options) (backend.Backend, error) {
	db, err := bolt.Open(filePath, 0600, &bolt.Options{Timeout: options.Timeout, ReadOnly: options.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("unable to open journal file %q: %w", filePath, err)
	}

	if !options.ReadOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(entriesBucketName)
			if err != nil {
				return backend.NewUnexpectedError("unable to create the entries bucket (%w)", err)
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, err
		}
	} else {
		err = db.View(func(tx *bolt.Tx) error {
			if tx.Bucket(entriesBucketName) == nil {
				return fmt.Errorf("journal file %q doesn't contain any journal", filePath)
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return &boltBackend{
		db:       db,
		filePath: filePath,
	}, nil
}

func (b *boltBackend) Destroy() {
	if b.db == nil {
		return
	}
	b.db.Close()
	b.db = nil
}

func (b *boltBackend) AppendEntries(_ context.Context, entries []*backend.Entry) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		entriesBucket := getEntriesBucket(tx)
		for _, entry := range entries {
			// Because we use `NextSequence` here the stored sequence starts at 1
			seq, err := entriesBucket.NextSequence()
			if err != nil {
				return backend.NewUnexpectedError("unable to generate a journal entry key (%w)", err)
			}

			entryV, err := serializeEntry(entry)
			if err != nil {
				return err
			}

			err = entriesBucket.Put(serializeNumID(seq), entryV)
			if err != nil {
				return backend.NewUnexpectedError("unable to store journal entry for card %d (%w)", entry.CardID, err)
			}
		}
		return nil
	})
}

func (b *boltBackend) RetrieveEntries(
	_ context.Context,
	fromEntryIdx int,
	count int,
) (backend.EntriesResult, error) {
	if fromEntryIdx < 0 {
		fromEntryIdx = 0
	}

	entries := []*backend.Entry{}
	nextEntryIdx := fromEntryIdx
	err := b.db.View(func(tx *bolt.Tx) error {
		entriesBucket := getEntriesBucket(tx)

		c := entriesBucket.Cursor()
		// Adding +1 because the stored sequence offset
		for k, v := c.Seek(serializeNumID(uint64(fromEntryIdx + 1))); k != nil; k, v = c.Next() {
			if count > 0 && len(entries) >= count {
				break
			}
			seq, err := deserializeNumID(k)
			if err != nil {
				return err
			}
			entry, err := deserializeEntry(v)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
			nextEntryIdx = int(seq)
		}

		if len(entries) == 0 {
			// Nothing after the requested index, don't point past the end of the journal
			nextEntryIdx = entriesBucket.Stats().KeyN
			if fromEntryIdx < nextEntryIdx {
				nextEntryIdx = fromEntryIdx
			}
		}
		return nil
	})
	if err != nil {
		return backend.EntriesResult{}, err
	}

	return backend.EntriesResult{
		Entries:      entries,
		NextEntryIdx: nextEntryIdx,
	}, nil
}

func (b *boltBackend) CountEntries(_ context.Context) (int, error) {
	count := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		count = getEntriesBucket(tx).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
