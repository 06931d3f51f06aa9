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
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ankireview/ankireview/clients/ankiconnect"
	"github.com/ankireview/ankireview/services/journal/backend"
)

var log = logrus.WithField("component", "review")

var (
	ErrNoCard       = errors.New("no card to review")
	ErrCardNotFound = errors.New("card not found")
	ErrInvalidEase  = errors.New("invalid ease")
)

const (
	MinEase = 1
	MaxEase = 4
)

// AnkiConnect lists the AnkiConnect actions used by the reviewer
type AnkiConnect interface {
	MediaFetcher
	Version(ctx context.Context) (int, error)
	DeckNames(ctx context.Context) ([]string, error)
	FindCards(ctx context.Context, query string) ([]int64, error)
	CardsInfo(ctx context.Context, cardIDs []int64) ([]ankiconnect.CardInfo, error)
	AnswerCards(ctx context.Context, answers []ankiconnect.Answer) ([]bool, error)
	Sync(ctx context.Context) error
}

type Reviewer struct {
	anki    AnkiConnect
	journal backend.Backend
	media   *MediaInliner
	now     func() time.Time
}

func NewReviewer(anki AnkiConnect, journal backend.Backend, mediaCacheSize int) (*Reviewer, error) {
	media, err := NewMediaInliner(anki, mediaCacheSize)
	if err != nil {
		return nil, err
	}
	return &Reviewer{
		anki:    anki,
		journal: journal,
		media:   media,
		now:     time.Now,
	}, nil
}

// AnkiConnectVersion checks AnkiConnect is reachable and returns its API version
func (r *Reviewer) AnkiConnectVersion(ctx context.Context) (int, error) {
	return r.anki.Version(ctx)
}

func (r *Reviewer) Decks(ctx context.Context) ([]string, error) {
	return r.anki.DeckNames(ctx)
}

func (r *Reviewer) Sync(ctx context.Context) error {
	return r.anki.Sync(ctx)
}

func (r *Reviewer) sortedCards(ctx context.Context, deck string) ([]ankiconnect.CardInfo, error) {
	cardIDs, err := r.anki.FindCards(ctx, ReviewQuery(deck))
	if err != nil {
		return nil, err
	}
	cards, err := r.anki.CardsInfo(ctx, cardIDs)
	if err != nil {
		return nil, err
	}
	SortCards(cards, r.now())
	return cards, nil
}

// ListCards returns the identifiers of the cards to review in `deck`, in review order
func (r *Reviewer) ListCards(ctx context.Context, deck string) ([]int64, error) {
	cards, err := r.sortedCards(ctx, deck)
	if err != nil {
		return nil, err
	}
	cardIDs := make([]int64, 0, len(cards))
	for _, card := range cards {
		cardIDs = append(cardIDs, card.CardID)
	}
	return cardIDs, nil
}

// NextCard returns the identifier of the first card to review in `deck`
func (r *Reviewer) NextCard(ctx context.Context, deck string) (int64, error) {
	cards, err := r.sortedCards(ctx, deck)
	if err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		return 0, fmt.Errorf("%w in deck %q", ErrNoCard, deck)
	}
	return cards[0].CardID, nil
}

// CardContent returns the card information with its images inlined in the question and the answer
func (r *Reviewer) CardContent(ctx context.Context, cardID int64) ([]ankiconnect.CardInfo, error) {
	cards, err := r.anki.CardsInfo(ctx, []int64{cardID})
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 || !cards[0].Exists() {
		return nil, fmt.Errorf("%w [%d]", ErrCardNotFound, cardID)
	}

	card := &cards[0]
	card.Question, err = r.media.Inline(ctx, card.Question)
	if err != nil {
		return nil, err
	}
	card.Answer, err = r.media.Inline(ctx, card.Answer)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// Answer answers the card with the given ease and records it in the journal
func (r *Reviewer) Answer(ctx context.Context, cardID int64, ease int) ([]bool, error) {
	if ease < MinEase || ease > MaxEase {
		return nil, fmt.Errorf("%w %d, expecting a value between %d and %d", ErrInvalidEase, ease, MinEase, MaxEase)
	}

	results, err := r.anki.AnswerCards(ctx, []ankiconnect.Answer{{CardID: cardID, Ease: ease}})
	if err != nil {
		return nil, err
	}

	entry := &backend.Entry{
		CardID:     cardID,
		Ease:       ease,
		Accepted:   len(results) > 0 && results[0],
		AnsweredAt: r.now(),
	}
	if err := r.journal.AppendEntries(ctx, []*backend.Entry{entry}); err != nil {
		log.WithFields(logrus.Fields{
			"card_id": cardID,
			"error":   err,
		}).Error("unable to record the answer in the journal")
	}

	return results, nil
}

func (r *Reviewer) History(ctx context.Context, fromEntryIdx int, count int) (backend.EntriesResult, error) {
	return r.journal.RetrieveEntries(ctx, fromEntryIdx, count)
}
