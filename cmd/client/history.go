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

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankireview/ankireview/services/journal/backend"
)

// historyViper represents the configuration of the `ankireview client history` command
var historyViper = viper.New()

const (
	historyFromKey  = "from"
	historyCountKey = "count"
)

var easeNames = map[int]string{
	1: "again",
	2: "hard",
	3: "good",
	4: "easy",
}

func renderHistory(w io.Writer, format consoleOutputFormat, fromEntryIdx int, result backend.EntriesResult) error {
	return render(w, format, &result, func() error {
		table := tablewriter.NewWriter(w)
		table.SetBorder(false)
		table.SetHeader([]string{"#", "card id", "ease", "accepted", "answered"})
		for entryIdx, entry := range result.Entries {
			table.Append([]string{
				fmt.Sprintf("%d", fromEntryIdx+entryIdx),
				fmt.Sprintf("%d", entry.CardID),
				fmt.Sprintf("%d (%s)", entry.Ease, easeNames[entry.Ease]),
				fmt.Sprintf("%t", entry.Accepted),
				humanize.Time(entry.AnsweredAt),
			})
		}
		table.SetCaption(true, fmt.Sprintf(
			"%d answers retrieved from #%d, next answer is #%d",
			len(result.Entries),
			fromEntryIdx,
			result.NextEntryIdx,
		))
		table.Render()
		return nil
	})
}

// historyCmd represents the `ankireview client history` command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the answers recorded in the journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _args []string) error {
		consoleOutputFormat, err := retrieveConsoleOutputFormat()
		if err != nil {
			return err
		}

		fromEntryIdx := historyViper.GetInt(historyFromKey)
		if fromEntryIdx < 0 {
			return fmt.Errorf("invalid argument \"--%s\" specified, expected a positive number", historyFromKey)
		}
		count := historyViper.GetInt(historyCountKey)
		if count <= 0 {
			return fmt.Errorf("invalid argument \"--%s\" specified, expected a strictly positive number", historyCountKey)
		}

		journal, err := openJournal(historyViper)
		if err != nil {
			return err
		}
		defer journal.Destroy()

		ctx, cancel := contextWithClientTimeout()
		defer cancel()

		result, err := journal.RetrieveEntries(ctx, fromEntryIdx, count)
		if err != nil {
			return wrapTimeoutError(err)
		}

		return renderHistory(cmd.OutOrStdout(), consoleOutputFormat, fromEntryIdx, result)
	},
}

func init() {
	addJournalFileFlag(historyCmd, historyViper)

	historyViper.SetDefault(historyFromKey, 0)
	historyCmd.Flags().Int(
		historyFromKey,
		historyViper.GetInt(historyFromKey),
		"Index of the first answer to retrieve (use the `next answer` index of a previous call)",
	)

	historyViper.SetDefault(historyCountKey, 20)
	historyCmd.Flags().Int(
		historyCountKey,
		historyViper.GetInt(historyCountKey),
		"Maximum number of answers to retrieve",
	)

	// Don't sort alphabetically, keep insertion order
	historyCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = historyViper.BindPFlags(historyCmd.Flags())
}
