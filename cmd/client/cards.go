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

package client

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ankireview/ankireview/clients/ankiconnect"
	"github.com/ankireview/ankireview/services/review"
)

type cardOutput struct {
	CardID   int64  `json:"card_id" yaml:"card_id"`
	NoteID   int64  `json:"note_id" yaml:"note_id"`
	DeckName string `json:"deck_name" yaml:"deck_name"`
	Due      int64  `json:"due" yaml:"due"`
	Interval int64  `json:"interval" yaml:"interval"`
	Reps     int64  `json:"reps" yaml:"reps"`
}

func renderCards(w io.Writer, format consoleOutputFormat, deck string, cards []ankiconnect.CardInfo) error {
	output := make([]cardOutput, 0, len(cards))
	for _, card := range cards {
		output = append(output, cardOutput{
			CardID:   card.CardID,
			NoteID:   card.NoteID,
			DeckName: card.DeckName,
			Due:      card.Due,
			Interval: card.Interval,
			Reps:     card.RepsCount(),
		})
	}

	return render(w, format, output, func() error {
		table := tablewriter.NewWriter(w)
		table.SetBorder(false)
		table.SetHeader([]string{"card id", "note id", "due", "interval", "reps"})
		for _, card := range output {
			table.Append([]string{
				fmt.Sprintf("%d", card.CardID),
				fmt.Sprintf("%d", card.NoteID),
				humanize.Comma(card.Due),
				fmt.Sprintf("%d", card.Interval),
				fmt.Sprintf("%d", card.Reps),
			})
		}
		table.SetCaption(true, fmt.Sprintf("%d cards to review in deck %q", len(output), deck))
		table.Render()
		return nil
	})
}

// cardsCmd represents the `ankireview client cards` command
var cardsCmd = &cobra.Command{
	Use:   "cards DECK",
	Short: "List the cards to review in a deck, in review order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		consoleOutputFormat, err := retrieveConsoleOutputFormat()
		if err != nil {
			return err
		}

		client, err := createAnkiConnectClient()
		if err != nil {
			return err
		}

		deck := strings.Join(args, " ")

		ctx, cancel := contextWithClientTimeout()
		defer cancel()

		cardIDs, err := client.FindCards(ctx, review.ReviewQuery(deck))
		if err != nil {
			return wrapTimeoutError(err)
		}
		cards, err := client.CardsInfo(ctx, cardIDs)
		if err != nil {
			return wrapTimeoutError(err)
		}
		review.SortCards(cards, time.Now())

		return renderCards(cmd.OutOrStdout(), consoleOutputFormat, deck, cards)
	},
}
