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
	"testing"
	"time"

	"github.com/openlyinc/pointy"
	"github.com/stretchr/testify/assert"

	"github.com/ankireview/ankireview/clients/ankiconnect"
)

func extractCardIDs(cards []ankiconnect.CardInfo) []int64 {
	cardIDs := []int64{}
	for _, card := range cards {
		cardIDs = append(cardIDs, card.CardID)
	}
	return cardIDs
}

func TestReviewQuery(t *testing.T) {
	assert.Equal(t, "deck:Japanese and (is:new or is:due)", ReviewQuery("Japanese"))
	assert.Equal(t, "deck: and (is:new or is:due)", ReviewQuery(""))
}

func TestSortCards(t *testing.T) {
	now := time.Unix(1700000000, 0)

	cards := []ankiconnect.CardInfo{
		// new card, never reviewed
		{CardID: 1, Due: 3},
		// reviewed, overdue
		{CardID: 2, Due: 1600000000, Reps: pointy.Int64(4)},
		// reviewed, not overdue
		{CardID: 3, Due: 1800000000, Reps: pointy.Int64(1)},
		// new card with explicit reps
		{CardID: 4, Due: 1, Reps: pointy.Int64(0)},
		// reviewed, overdue, more overdue than card 2
		{CardID: 5, Due: 1500000000, Reps: pointy.Int64(2)},
	}

	SortCards(cards, now)
	assert.Equal(t, []int64{5, 2, 4, 1, 3}, extractCardIDs(cards))
}

func TestSortCardsIsStable(t *testing.T) {
	now := time.Unix(1700000000, 0)

	cards := []ankiconnect.CardInfo{
		{CardID: 10, Due: 7},
		{CardID: 11, Due: 7},
		{CardID: 12, Due: 2},
		{CardID: 13, Due: 7},
	}

	SortCards(cards, now)
	assert.Equal(t, []int64{12, 10, 11, 13}, extractCardIDs(cards))
}

func TestSortCardsDueNow(t *testing.T) {
	now := time.Unix(1700000000, 500000000)

	cards := []ankiconnect.CardInfo{
		{CardID: 1, Due: 1},
		// due at the current second, but now is half a second later
		{CardID: 2, Due: 1700000000, Reps: pointy.Int64(1)},
	}

	SortCards(cards, now)
	assert.Equal(t, []int64{2, 1}, extractCardIDs(cards))
}

func TestSortNoCards(t *testing.T) {
	cards := []ankiconnect.CardInfo{}
	SortCards(cards, time.Now())
	assert.Empty(t, cards)
}
