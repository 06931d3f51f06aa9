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
	"context"
	"encoding/json"
)

type Answer struct {
	CardID int64 `json:"cardId"`
	Ease   int   `json:"ease"`
}

func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	err := c.Invoke(ctx, "version", nil, &version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	deckNames := []string{}
	err := c.Invoke(ctx, "deckNames", nil, &deckNames)
	if err != nil {
		return nil, err
	}
	return deckNames, nil
}

func (c *Client) FindCards(ctx context.Context, query string) ([]int64, error) {
	cardIDs := []int64{}
	err := c.Invoke(ctx, "findCards", map[string]interface{}{"query": query}, &cardIDs)
	if err != nil {
		return nil, err
	}
	return cardIDs, nil
}

func (c *Client) CardsInfo(ctx context.Context, cardIDs []int64) ([]CardInfo, error) {
	if cardIDs == nil {
		cardIDs = []int64{}
	}
	cards := []CardInfo{}
	err := c.Invoke(ctx, "cardsInfo", map[string]interface{}{"cards": cardIDs}, &cards)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// RetrieveMediaFile returns the base64 encoded content of a file from the collection media folder
func (c *Client) RetrieveMediaFile(ctx context.Context, filename string) (string, error) {
	var raw json.RawMessage
	err := c.Invoke(ctx, "retrieveMediaFile", map[string]interface{}{"filename": filename}, &raw)
	if err != nil {
		return "", err
	}

	var data string
	if err := json.Unmarshal(raw, &data); err != nil {
		// AnkiConnect answers `false` when the file doesn't exist
		return "", ErrMediaNotFound
	}
	return data, nil
}

func (c *Client) AnswerCards(ctx context.Context, answers []Answer) ([]bool, error) {
	results := []bool{}
	err := c.Invoke(ctx, "answerCards", map[string]interface{}{"answers": answers}, &results)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) Sync(ctx context.Context) error {
	return c.Invoke(ctx, "sync", nil, nil)
}
