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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankireview/ankireview/clients/ankiconnect"
)

var log = logrus.WithField("component", "cmd/client")

// clientViper represents the configuration of the `ankireview client` command
var clientViper = viper.New()

const (
	clientConsoleOutputFormatKey = "console_output"
	clientTimeoutKey             = "timeout"
	clientAnkiConnectURLKey      = "anki_connect_url"
	defaultClientTimeout         = 30 * time.Second
	defaultAnkiConnectURL        = "http://localhost:8765"
)

// ClientCmd represents the `ankireview client` command
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Run ankireview client",
	Args:  cobra.NoArgs,
}

func createAnkiConnectClient() (*ankiconnect.Client, error) {
	return ankiconnect.NewClient(ankiconnect.Options{
		URL:     clientViper.GetString(clientAnkiConnectURLKey),
		Timeout: clientViper.GetDuration(clientTimeoutKey),
		Observer: func(action string, duration time.Duration, err error) {
			log.WithFields(logrus.Fields{
				"action":   action,
				"duration": duration,
				"error":    err,
			}).Debug("AnkiConnect action invoked")
		},
	})
}

func contextWithClientTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), clientViper.GetDuration(clientTimeoutKey))
}

func wrapTimeoutError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timeout (%v) exceeded", clientViper.GetDuration(clientTimeoutKey))
	}
	return err
}

func init() {
	clientViper.SetDefault(clientConsoleOutputFormatKey, string(text))
	_ = clientViper.BindEnv(clientConsoleOutputFormatKey, "ANKIREVIEW_CLIENT_CONSOLE_OUTPUT")
	ClientCmd.PersistentFlags().String(
		clientConsoleOutputFormatKey,
		clientViper.GetString(clientConsoleOutputFormatKey),
		fmt.Sprintf(
			"Set console output format as one of %v",
			expectedOutputFormats,
		),
	)

	clientViper.SetDefault(clientTimeoutKey, defaultClientTimeout)
	_ = clientViper.BindEnv(clientTimeoutKey, "ANKIREVIEW_CLIENT_TIMEOUT")
	ClientCmd.PersistentFlags().Duration(
		clientTimeoutKey,
		clientViper.GetDuration(clientTimeoutKey),
		"Timeout for the operation",
	)

	clientViper.SetDefault(clientAnkiConnectURLKey, defaultAnkiConnectURL)
	_ = clientViper.BindEnv(clientAnkiConnectURLKey, "ANKI_CONNECT_URL")
	ClientCmd.PersistentFlags().String(
		clientAnkiConnectURLKey,
		clientViper.GetString(clientAnkiConnectURLKey),
		"AnkiConnect url",
	)

	// Don't sort alphabetically, keep insertion order
	ClientCmd.PersistentFlags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = clientViper.BindPFlags(ClientCmd.PersistentFlags())

	// Add the client subcommands
	ClientCmd.AddCommand(pingCmd)
	ClientCmd.AddCommand(decksCmd)
	ClientCmd.AddCommand(cardsCmd)
	ClientCmd.AddCommand(syncCmd)
	ClientCmd.AddCommand(historyCmd)
	ClientCmd.AddCommand(exportHistoryCmd)
}
