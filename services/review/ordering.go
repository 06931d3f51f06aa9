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
	"fmt"
	"sort"
	"time"

	"github.com/ankireview/ankireview/clients/ankiconnect"
)

// ReviewQuery builds the AnkiConnect search query selecting the cards of `deck` to review
func ReviewQuery(deck string) string {
	return fmt.Sprintf("deck:%s and (is:new or is:due)", deck)
}

const (
	overdueGroup = 0
	otherGroup   = 1
)

// reviewGroup puts the already reviewed cards that are overdue first
func reviewGroup(card *ankiconnect.CardInfo, now float64) int {
	if card.RepsCount() >= 1 && float64(card.Due) < now {
		return overdueGroup
	}
	return otherGroup
}

// SortCards orders cards by group, then by due, keeping the original order for equivalent cards
func SortCards(cards []ankiconnect.CardInfo, now time.Time) {
	nowTimestamp := float64(now.UnixNano()) / float64(time.Second)
	sort.SliceStable(cards, func(i, j int) bool {
		groupI := reviewGroup(&cards[i], nowTimestamp)
		groupJ := reviewGroup(&cards[j], nowTimestamp)
		if groupI != groupJ {
			return groupI < groupJ
		}
		return cards[i].Due < cards[j].Due
	})
}
