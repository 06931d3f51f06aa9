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

package test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ankireview/ankireview/services/journal/backend"
)

var baseTime = time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)

func generateEntries(fromCardID int64, count int) []*backend.Entry {
	entries := make([]*backend.Entry, count)
	for i := range entries {
		entries[i] = &backend.Entry{
			CardID:     fromCardID + int64(i),
			Ease:       1 + i%4,
			Accepted:   i%5 != 0,
			AnsweredAt: baseTime.Add(time.Duration(i) * time.Second),
		}
	}
	return entries
}

func extractCardIDs(entries []*backend.Entry) []int64 {
	cardIDs := []int64{}
	for _, entry := range entries {
		cardIDs = append(cardIDs, entry.CardID)
	}
	return cardIDs
}

func RunSuite(t *testing.T, createBackend func() backend.Backend, destroyBackend func(backend.Backend)) {
	t.Run("TestCreateBackend", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		assert.NotNil(t, b)

		count, err := b.CountEntries(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	})
	t.Run("TestRetrieveEmpty", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		r, err := b.RetrieveEntries(context.Background(), 0, 10)
		assert.NoError(t, err)
		assert.Len(t, r.Entries, 0)
		assert.NotNil(t, r.Entries)
		assert.Equal(t, 0, r.NextEntryIdx)
	})
	t.Run("TestAppendEntries", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		err := b.AppendEntries(context.Background(), generateEntries(100, 3))
		assert.NoError(t, err)
		err = b.AppendEntries(context.Background(), generateEntries(200, 2))
		assert.NoError(t, err)

		count, err := b.CountEntries(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 5, count)

		r, err := b.RetrieveEntries(context.Background(), 0, -1)
		assert.NoError(t, err)
		assert.Equal(t, []int64{100, 101, 102, 200, 201}, extractCardIDs(r.Entries))
		assert.Equal(t, 5, r.NextEntryIdx)

		first := r.Entries[0]
		assert.Equal(t, 1, first.Ease)
		assert.False(t, first.Accepted)
		assert.True(t, baseTime.Equal(first.AnsweredAt))

		second := r.Entries[1]
		assert.Equal(t, 2, second.Ease)
		assert.True(t, second.Accepted)
	})
	t.Run("TestAppendedEntriesAreCopied", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		entries := generateEntries(1, 1)
		err := b.AppendEntries(context.Background(), entries)
		assert.NoError(t, err)

		entries[0].CardID = 12

		r, err := b.RetrieveEntries(context.Background(), 0, 0)
		assert.NoError(t, err)
		assert.Equal(t, []int64{1}, extractCardIDs(r.Entries))
	})
	t.Run("TestRetrievePages", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		err := b.AppendEntries(context.Background(), generateEntries(0, 25))
		assert.NoError(t, err)

		retrievedCardIDs := []int64{}
		fromEntryIdx := 0
		for page := 0; page < 10; page++ {
			r, err := b.RetrieveEntries(context.Background(), fromEntryIdx, 10)
			assert.NoError(t, err)
			if len(r.Entries) == 0 {
				assert.Equal(t, 25, r.NextEntryIdx)
				break
			}
			assert.LessOrEqual(t, len(r.Entries), 10)
			assert.Equal(t, fromEntryIdx+len(r.Entries), r.NextEntryIdx)
			retrievedCardIDs = append(retrievedCardIDs, extractCardIDs(r.Entries)...)
			fromEntryIdx = r.NextEntryIdx
		}
		assert.Len(t, retrievedCardIDs, 25)
		for i, cardID := range retrievedCardIDs {
			assert.Equal(t, int64(i), cardID)
		}
	})
	t.Run("TestRetrievePastTheEnd", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		err := b.AppendEntries(context.Background(), generateEntries(0, 3))
		assert.NoError(t, err)

		r, err := b.RetrieveEntries(context.Background(), 12, 5)
		assert.NoError(t, err)
		assert.Len(t, r.Entries, 0)
		assert.Equal(t, 3, r.NextEntryIdx)

		r, err = b.RetrieveEntries(context.Background(), -4, 1)
		assert.NoError(t, err)
		assert.Equal(t, []int64{0}, extractCardIDs(r.Entries))
		assert.Equal(t, 1, r.NextEntryIdx)
	})
	t.Run("TestConcurrentAppends", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		wg := sync.WaitGroup{}
		for writer := 0; writer < 8; writer++ {
			wg.Add(1)
			go func(writer int) {
				defer wg.Done()
				for i := 0; i < 10; i++ {
					err := b.AppendEntries(
						context.Background(),
						generateEntries(int64(writer*1000+i), 1),
					)
					assert.NoError(t, err, fmt.Sprintf("writer %d", writer))
				}
			}(writer)
		}
		wg.Wait()

		count, err := b.CountEntries(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 80, count)
	})
}
