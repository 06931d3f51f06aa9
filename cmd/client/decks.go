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

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func renderDecks(w io.Writer, format consoleOutputFormat, decks []string) error {
	return render(w, format, decks, func() error {
		table := tablewriter.NewWriter(w)
		table.SetBorder(false)
		table.SetHeader([]string{"deck"})
		for _, deck := range decks {
			table.Append([]string{deck})
		}
		table.SetCaption(true, fmt.Sprintf("%d decks", len(decks)))
		table.Render()
		return nil
	})
}

// decksCmd represents the `ankireview client decks` command
var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List the decks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _args []string) error {
		consoleOutputFormat, err := retrieveConsoleOutputFormat()
		if err != nil {
			return err
		}

		client, err := createAnkiConnectClient()
		if err != nil {
			return err
		}

		ctx, cancel := contextWithClientTimeout()
		defer cancel()

		decks, err := client.DeckNames(ctx)
		if err != nil {
			return wrapTimeoutError(err)
		}

		return renderDecks(cmd.OutOrStdout(), consoleOutputFormat, decks)
	},
}
