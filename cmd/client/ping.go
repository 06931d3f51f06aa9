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
	"time"

	"github.com/spf13/cobra"
)

type pingOutput struct {
	URL        string `json:"url" yaml:"url"`
	APIVersion int    `json:"api_version" yaml:"api_version"`
	LatencyMs  int64  `json:"latency_ms" yaml:"latency_ms"`
	Message    string `json:"message" yaml:"message"`
}

// pingCmd represents the `ankireview client ping` command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check AnkiConnect is reachable",
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

		start := time.Now()
		apiVersion, err := client.Version(ctx)
		if err != nil {
			return wrapTimeoutError(err)
		}
		latency := time.Since(start)

		output := pingOutput{
			URL:        client.URL(),
			APIVersion: apiVersion,
			LatencyMs:  latency.Milliseconds(),
			Message:    fmt.Sprintf("AnkiConnect API v%d reachable at %q (%v)", apiVersion, client.URL(), latency.Round(time.Millisecond)),
		}
		return render(cmd.OutOrStdout(), consoleOutputFormat, &output, func() error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), output.Message)
			return err
		})
	},
}
