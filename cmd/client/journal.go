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
	"github.com/spf13/viper"

	"github.com/ankireview/ankireview/services/journal/backend"
	"github.com/ankireview/ankireview/services/journal/backend/bolt"
)

const (
	journalFileKey = "journal_file"
	journalFileEnv = "ANKIREVIEW_JOURNAL_FILE"
)

// The web service holds a lock on the journal file while it runs
const journalOpenTimeout = 2 * time.Second

func addJournalFileFlag(cmd *cobra.Command, cfg *viper.Viper) {
	cfg.SetDefault(journalFileKey, "")
	_ = cfg.BindEnv(journalFileKey, journalFileEnv)
	cmd.Flags().String(
		journalFileKey,
		cfg.GetString(journalFileKey),
		"File storing the answers journal of the web service",
	)
}

func openJournal(cfg *viper.Viper) (backend.Backend, error) {
	path := cfg.GetString(journalFileKey)
	if path == "" {
		return nil, fmt.Errorf("no journal file specified, use \"--%s\" or %s", journalFileKey, journalFileEnv)
	}
	journal, err := bolt.CreateBoltBackendWithOptions(path, bolt.Options{
		ReadOnly: true,
		Timeout:  journalOpenTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open the journal %q, it can't be read while the web service is running (%w)", path, err)
	}
	return journal, nil
}
