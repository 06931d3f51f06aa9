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


package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// servicesViper holds the logging configuration shared by every service
var servicesViper = viper.New()

const servicesLogLevelKey = "log_level"
const servicesLogLevelEnv = "ANKIREVIEW_LOG_LEVEL"
const servicesLogFileKey = "log_file"
const servicesLogFileEnv = "ANKIREVIEW_LOG_FILE"
const servicesLogFormatKey = "log_format"
const servicesLogFormatEnv = "ANKIREVIEW_LOG_FORMAT"

// ServicesCmd represents the services command
var ServicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Run ankireview services",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(_cmd *cobra.Command, _args []string) error {
		return configureLog(servicesViper)
	},
}

func init() {
	servicesViper.SetDefault(servicesLogLevelKey, logrus.InfoLevel.String())
	_ = servicesViper.BindEnv(servicesLogLevelKey, servicesLogLevelEnv)
	ServicesCmd.PersistentFlags().String(
		servicesLogLevelKey,
		servicesViper.GetString(servicesLogLevelKey),
		fmt.Sprintf("Minimum logging level as one of %v", expectedLogLevels),
	)

	_ = servicesViper.BindEnv(servicesLogFileKey, servicesLogFileEnv)
	ServicesCmd.PersistentFlags().String(
		servicesLogFileKey,
		"",
		"File receiving the logs, as json",
	)

	_ = servicesViper.BindEnv(servicesLogFormatKey, servicesLogFormatEnv)
	ServicesCmd.PersistentFlags().String(
		servicesLogFormatKey,
		"",
		fmt.Sprintf("Log format as one of %v, %q if empty", expectedLogFormats, text),
	)

	ServicesCmd.PersistentFlags().SortFlags = false

	_ = servicesViper.BindPFlags(ServicesCmd.PersistentFlags())

	ServicesCmd.AddCommand(webCmd)
}
