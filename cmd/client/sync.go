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

	"github.com/spf13/cobra"
)

type syncOutput struct {
	Message string `json:"message" yaml:"message"`
}

// syncCmd represents the `ankireview client sync` command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the collection with AnkiWeb",
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

		if err := client.Sync(ctx); err != nil {
			return wrapTimeoutError(err)
		}

		output := syncOutput{Message: "collection synchronized"}
		return render(cmd.OutOrStdout(), consoleOutputFormat, &output, func() error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), output.Message)
			return err
		})
	},
}
