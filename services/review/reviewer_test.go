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
	"testing"

	"github.com/openlyinc/pointy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankireview/ankireview/clients/ankiconnect"
	"github.com/ankireview/ankireview/services/journal/backend"
	"github.com/ankireview/ankireview/services/journal/backend/memory"
)

func createReviewer(t *testing.T, fake *fakeAnkiConnect) (*Reviewer, backend.Backend) {
	journal, err := memory.CreateMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(journal.Destroy)

	reviewer, err := NewReviewer(fake, journal, 16)
	require.NoError(t, err)
	reviewer.now = fixedNow

	return reviewer, journal
}

func TestListCards(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.addCard(ankiconnect.CardInfo{CardID: 1, Due: 12})
	fake.addCard(ankiconnect.CardInfo{CardID: 2, Due: 1600000000, Reps: pointy.Int64(3)})
	fake.addCard(ankiconnect.CardInfo{CardID: 3, Due: 4})

	reviewer, _ := createReviewer(t, fake)

	cardIDs, err := reviewer.ListCards(context.Background(), "Japanese")
	assert.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, cardIDs)
	assert.Equal(t, []string{"deck:Japanese and (is:new or is:due)"}, fake.queries)
}

func TestListCardsEmptyDeck(t *testing.T) {
	fake := newFakeAnkiConnect()
	reviewer, _ := createReviewer(t, fake)

	cardIDs, err := reviewer.ListCards(context.Background(), "Empty")
	assert.NoError(t, err)
	assert.NotNil(t, cardIDs)
	assert.Empty(t, cardIDs)
}

func TestNextCard(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.addCard(ankiconnect.CardInfo{CardID: 1, Due: 12})
	fake.addCard(ankiconnect.CardInfo{CardID: 3, Due: 4})

	reviewer, _ := createReviewer(t, fake)

	cardID, err := reviewer.NextCard(context.Background(), "Japanese")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), cardID)
}

func TestNextCardEmptyDeck(t *testing.T) {
	fake := newFakeAnkiConnect()
	reviewer, _ := createReviewer(t, fake)

	_, err := reviewer.NextCard(context.Background(), "Empty")
	assert.ErrorIs(t, err, ErrNoCard)
}

func TestCardContent(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.media["cat.jpg"] = "Y2F0"
	fake.addCard(ankiconnect.CardInfo{
		CardID:   7,
		Question: `What is <img src="cat.jpg">?`,
		Answer:   `A cat <img src="cat.jpg">`,
		DeckName: "Animals",
	})

	reviewer, _ := createReviewer(t, fake)

	cards, err := reviewer.CardContent(context.Background(), 7)
	assert.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, `What is <img src="data:image/jpeg;base64,Y2F0" />?`, cards[0].Question)
	assert.Equal(t, `A cat <img src="data:image/jpeg;base64,Y2F0" />`, cards[0].Answer)
	assert.Equal(t, "Animals", cards[0].DeckName)
	assert.Equal(t, 1, fake.mediaRequests["cat.jpg"])
}

func TestCardContentUnknownCard(t *testing.T) {
	fake := newFakeAnkiConnect()
	reviewer, _ := createReviewer(t, fake)

	_, err := reviewer.CardContent(context.Background(), 404)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestAnswer(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.addCard(ankiconnect.CardInfo{CardID: 7})

	reviewer, journal := createReviewer(t, fake)

	results, err := reviewer.Answer(context.Background(), 7, 3)
	assert.NoError(t, err)
	assert.Equal(t, []bool{true}, results)
	assert.Equal(t, []ankiconnect.Answer{{CardID: 7, Ease: 3}}, fake.answers)

	results, err = reviewer.Answer(context.Background(), 8, 1)
	assert.NoError(t, err)
	assert.Equal(t, []bool{false}, results)

	r, err := journal.RetrieveEntries(context.Background(), 0, 0)
	assert.NoError(t, err)
	require.Len(t, r.Entries, 2)
	assert.Equal(t, int64(7), r.Entries[0].CardID)
	assert.Equal(t, 3, r.Entries[0].Ease)
	assert.True(t, r.Entries[0].Accepted)
	assert.True(t, fixedNow().Equal(r.Entries[0].AnsweredAt))
	assert.Equal(t, int64(8), r.Entries[1].CardID)
	assert.False(t, r.Entries[1].Accepted)

	history, err := reviewer.History(context.Background(), 1, 10)
	assert.NoError(t, err)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, int64(8), history.Entries[0].CardID)
}

func TestAnswerInvalidEase(t *testing.T) {
	fake := newFakeAnkiConnect()
	reviewer, journal := createReviewer(t, fake)

	for _, ease := range []int{-1, 0, 5} {
		_, err := reviewer.Answer(context.Background(), 7, ease)
		assert.ErrorIs(t, err, ErrInvalidEase)
	}
	assert.Empty(t, fake.answers)

	count, err := journal.CountEntries(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

type failingJournal struct {
	backend.Backend
}

func (failingJournal) AppendEntries(context.Context, []*backend.Entry) error {
	return errors.New("disk full")
}

func TestAnswerJournalFailureIsNotSurfaced(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.addCard(ankiconnect.CardInfo{CardID: 7})

	reviewer, err := NewReviewer(fake, failingJournal{}, 0)
	require.NoError(t, err)

	results, err := reviewer.Answer(context.Background(), 7, 2)
	assert.NoError(t, err)
	assert.Equal(t, []bool{true}, results)
}

func TestAnkiConnectErrors(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.err = errAnkiDown
	reviewer, _ := createReviewer(t, fake)

	_, err := reviewer.Decks(context.Background())
	assert.ErrorIs(t, err, errAnkiDown)

	_, err = reviewer.ListCards(context.Background(), "Default")
	assert.ErrorIs(t, err, errAnkiDown)

	_, err = reviewer.NextCard(context.Background(), "Default")
	assert.ErrorIs(t, err, errAnkiDown)

	_, err = reviewer.CardContent(context.Background(), 1)
	assert.ErrorIs(t, err, errAnkiDown)

	_, err = reviewer.Answer(context.Background(), 1, 1)
	assert.ErrorIs(t, err, errAnkiDown)

	assert.ErrorIs(t, reviewer.Sync(context.Background()), errAnkiDown)

	_, err = reviewer.AnkiConnectVersion(context.Background())
	assert.ErrorIs(t, err, errAnkiDown)
}

func TestDecksAndSync(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.decks = []string{"Default", "Japanese"}
	reviewer, _ := createReviewer(t, fake)

	decks, err := reviewer.Decks(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"Default", "Japanese"}, decks)

	assert.NoError(t, reviewer.Sync(context.Background()))
	assert.Equal(t, 1, fake.synced)

	version, err := reviewer.AnkiConnectVersion(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, ankiconnect.APIVersion, version)
}
