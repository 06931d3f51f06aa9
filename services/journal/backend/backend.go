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

package backend

import (
	"context"
	"fmt"
	"time"
)

// Entry is one answered card
type Entry struct {
	CardID     int64     `json:"card_id" yaml:"card_id"`
	Ease       int       `json:"ease" yaml:"ease"`
	Accepted   bool      `json:"accepted" yaml:"accepted"`
	AnsweredAt time.Time `json:"answered_at" yaml:"answered_at"`
}

type EntriesResult struct {
	Entries      []*Entry `json:"entries" yaml:"entries"`
	NextEntryIdx int      `json:"next_entry_idx" yaml:"next_entry_idx"`
}

// Backend stores the review journal, entries are indexed in insertion order starting at 0
type Backend interface {
	Destroy()

	AppendEntries(ctx context.Context, entries []*Entry) error
	// RetrieveEntries returns at most `count` entries starting at `fromEntryIdx`, `count <= 0` means no limit
	RetrieveEntries(ctx context.Context, fromEntryIdx int, count int) (EntriesResult, error)
	CountEntries(ctx context.Context) (int, error)
}

type UnexpectedError struct {
	someErr error
}

func NewUnexpectedError(format string, a ...interface{}) *UnexpectedError {
	return &UnexpectedError{
		someErr: fmt.Errorf(format, a...),
	}
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected journal backend error: %v", e.someErr)
}

func (e *UnexpectedError) Unwrap() error {
	return e.someErr
}
