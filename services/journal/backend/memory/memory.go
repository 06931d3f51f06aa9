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

package memory

import (
	"context"
	"sync"

	"github.com/ankireview/ankireview/services/journal/backend"
)

type memoryBackend struct {
	entriesMutex sync.RWMutex
	entries      []*backend.Entry
}

func CreateMemoryBackend() (backend.Backend, error) {
	return &memoryBackend{
		entries: []*backend.Entry{},
	}, nil
}

func (b *memoryBackend) Destroy() {
	b.entriesMutex.Lock()
	defer b.entriesMutex.Unlock()
	b.entries = []*backend.Entry{}
}

func (b *memoryBackend) AppendEntries(_ context.Context, entries []*backend.Entry) error {
	b.entriesMutex.Lock()
	defer b.entriesMutex.Unlock()

	for _, entry := range entries {
		storedEntry := *entry
		b.entries = append(b.entries, &storedEntry)
	}
	return nil
}

func (b *memoryBackend) RetrieveEntries(
	_ context.Context,
	fromEntryIdx int,
	count int,
) (backend.EntriesResult, error) {
	b.entriesMutex.RLock()
	defer b.entriesMutex.RUnlock()

	if fromEntryIdx < 0 {
		fromEntryIdx = 0
	}
	if fromEntryIdx > len(b.entries) {
		fromEntryIdx = len(b.entries)
	}
	toEntryIdx := len(b.entries)
	if count > 0 && fromEntryIdx+count < toEntryIdx {
		toEntryIdx = fromEntryIdx + count
	}

	entries := make([]*backend.Entry, 0, toEntryIdx-fromEntryIdx)
	for _, entry := range b.entries[fromEntryIdx:toEntryIdx] {
		retrievedEntry := *entry
		entries = append(entries, &retrievedEntry)
	}

	return backend.EntriesResult{
		Entries:      entries,
		NextEntryIdx: toEntryIdx,
	}, nil
}

func (b *memoryBackend) CountEntries(_ context.Context) (int, error) {
	b.entriesMutex.RLock()
	defer b.entriesMutex.RUnlock()
	return len(b.entries), nil
}
