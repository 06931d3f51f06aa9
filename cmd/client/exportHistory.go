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
	"bytes"
	"context"
	jsonEncoding "encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rogpeppe/go-internal/lockedfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankireview/ankireview/services/journal/backend"
)

// exportHistoryViper represents the configuration of the `ankireview client export_history` command
var exportHistoryViper = viper.New()

const exportHistoryFileKey = "file"

type exportHistoryOutput struct {
	Bytes    int    `json:"bytes" yaml:"bytes"`
	Entries  int    `json:"entries" yaml:"entries"`
	Message  string `json:"message" yaml:"message"`
	FilePath string `json:"filepath" yaml:"filepath"`
}

func serializeHistory(ctx context.Context, journal backend.Backend) ([]byte, int, error) {
	result, err := journal.RetrieveEntries(ctx, 0, 0)
	if err != nil {
		return nil, 0, err
	}
	serializedEntries, err := jsonEncoding.MarshalIndent(result.Entries, "", "  ")
	if err != nil {
		return nil, 0, err
	}
	return append(serializedEntries, '\n'), len(result.Entries), nil
}

// exportHistory writes the whole journal as a json array to `filePath`, locking it while writing
func exportHistory(ctx context.Context, journal backend.Backend, filePath string) (exportHistoryOutput, error) {
	serializedEntries, entriesCount, err := serializeHistory(ctx, journal)
	if err != nil {
		return exportHistoryOutput{}, err
	}

	err = lockedfile.Write(filePath, bytes.NewReader(serializedEntries), 0644)
	if err != nil {
		return exportHistoryOutput{}, err
	}

	return exportHistoryOutput{
		Bytes:    len(serializedEntries),
		Entries:  entriesCount,
		FilePath: filePath,
		Message: fmt.Sprintf(
			"%d answers exported to %q (%s written)",
			entriesCount,
			filePath,
			humanize.Bytes(uint64(len(serializedEntries))),
		),
	}, nil
}

// exportHistoryCmd represents the `ankireview client export_history` command
var exportHistoryCmd = &cobra.Command{
	Use:     "export_history",
	Aliases: []string{"export"},
	Short:   "Export the answers journal as json",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _args []string) error {
		consoleOutputFormat, err := retrieveConsoleOutputFormat()
		if err != nil {
			return err
		}

		journal, err := openJournal(exportHistoryViper)
		if err != nil {
			return err
		}
		defer journal.Destroy()

		ctx, cancel := contextWithClientTimeout()
		defer cancel()

		filePath := exportHistoryViper.GetString(exportHistoryFileKey)
		if filePath == "" {
			serializedEntries, _, err := serializeHistory(ctx, journal)
			if err != nil {
				return wrapTimeoutError(err)
			}
			_, err = cmd.OutOrStdout().Write(serializedEntries)
			return err
		}

		filePath, err = filepath.Abs(filePath)
		if err != nil {
			return err
		}

		output, err := exportHistory(ctx, journal, filePath)
		if err != nil {
			return wrapTimeoutError(err)
		}

		return render(cmd.OutOrStdout(), consoleOutputFormat, &output, func() error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), output.Message)
			return err
		})
	},
}

func init() {
	addJournalFileFlag(exportHistoryCmd, exportHistoryViper)

	exportHistoryViper.SetDefault(exportHistoryFileKey, "")
	exportHistoryCmd.Flags().String(
		exportHistoryFileKey,
		exportHistoryViper.GetString(exportHistoryFileKey),
		"Output file path, if not defined, will write to stdout",
	)

	// Don't sort alphabetically, keep insertion order
	exportHistoryCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = exportHistoryViper.BindPFlags(exportHistoryCmd.Flags())
}
