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

package ankiconnect

import (
	"encoding/json"
)

// CardInfo is a card as returned by the `cardsInfo` action.
//
// Only the fields used by the reviewer are typed, the others are kept in Extra and serialized back untouched.
type CardInfo struct {
	CardID   int64  `json:"cardId"`
	NoteID   int64  `json:"note"`
	DeckName string `json:"deckName"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Due      int64  `json:"due"`
	Interval int64  `json:"interval"`
	Reps     *int64 `json:"reps,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var cardInfoKnownFields = []string{"cardId", "note", "deckName", "question", "answer", "due", "interval", "reps"}

type cardInfoFields CardInfo

// Exists is false for the empty object AnkiConnect returns for unknown cards
func (c *CardInfo) Exists() bool {
	return c.CardID != 0
}

func (c *CardInfo) RepsCount() int64 {
	if c.Reps == nil {
		return 0
	}
	return *c.Reps
}

func (c *CardInfo) UnmarshalJSON(data []byte) error {
	fields := cardInfoFields{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	extra := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	for _, field := range cardInfoKnownFields {
		delete(extra, field)
	}

	*c = CardInfo(fields)
	c.Extra = extra
	return nil
}

func (c CardInfo) MarshalJSON() ([]byte, error) {
	if !c.Exists() && len(c.Extra) == 0 {
		return []byte("{}"), nil
	}

	out := make(map[string]interface{}, len(c.Extra)+len(cardInfoKnownFields))
	for field, value := range c.Extra {
		out[field] = value
	}
	out["cardId"] = c.CardID
	out["note"] = c.NoteID
	out["deckName"] = c.DeckName
	out["question"] = c.Question
	out["answer"] = c.Answer
	out["due"] = c.Due
	out["interval"] = c.Interval
	if c.Reps != nil {
		out["reps"] = *c.Reps
	}
	return json.Marshal(out)
}
