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

package review

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ankireview/ankireview/clients/ankiconnect"
)

// fakeAnkiConnect is an in memory AnkiConnect
type fakeAnkiConnect struct {
	mutex sync.Mutex

	decks   []string
	cards   map[int64]ankiconnect.CardInfo
	found   []int64
	media   map[string]string
	err     error
	synced  int
	answers []ankiconnect.Answer

	queries        []string
	mediaRequests  map[string]int
	answersResults []bool
}

func newFakeAnkiConnect() *fakeAnkiConnect {
	return &fakeAnkiConnect{
		decks:         []string{},
		cards:         map[int64]ankiconnect.CardInfo{},
		found:         []int64{},
		media:         map[string]string{},
		mediaRequests: map[string]int{},
	}
}

func (f *fakeAnkiConnect) addCard(card ankiconnect.CardInfo) {
	f.cards[card.CardID] = card
	f.found = append(f.found, card.CardID)
}

func (f *fakeAnkiConnect) Version(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return ankiconnect.APIVersion, nil
}

func (f *fakeAnkiConnect) DeckNames(context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.decks, nil
}

func (f *fakeAnkiConnect) FindCards(_ context.Context, query string) ([]int64, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, query)
	return append([]int64{}, f.found...), nil
}

func (f *fakeAnkiConnect) CardsInfo(_ context.Context, cardIDs []int64) ([]ankiconnect.CardInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	cards := []ankiconnect.CardInfo{}
	for _, cardID := range cardIDs {
		// AnkiConnect returns an empty object for unknown cards
		cards = append(cards, f.cards[cardID])
	}
	return cards, nil
}

func (f *fakeAnkiConnect) RetrieveMediaFile(_ context.Context, filename string) (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.mediaRequests[filename]++
	data, ok := f.media[filename]
	if !ok {
		return "", ankiconnect.ErrMediaNotFound
	}
	return data, nil
}

func (f *fakeAnkiConnect) AnswerCards(_ context.Context, answers []ankiconnect.Answer) ([]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.answers = append(f.answers, answers...)
	if f.answersResults != nil {
		return f.answersResults, nil
	}
	results := []bool{}
	for _, answer := range answers {
		_, ok := f.cards[answer.CardID]
		results = append(results, ok)
	}
	return results, nil
}

func (f *fakeAnkiConnect) Sync(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.synced++
	return nil
}

var errAnkiDown = &ankiconnect.UnreachableError{URL: "http://anki.test", Err: errors.New("connection refused")}

func fixedNow() time.Time {
	return time.Unix(1700000000, 0)
}
