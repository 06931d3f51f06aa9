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

package internal

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankireview/ankireview/services/web"
)

// InternalCmd represents the `ankireview internal` command
var InternalCmd = &cobra.Command{
	Use:    "internal",
	Short:  "Run ankireview internal commands",
	Args:   cobra.NoArgs,
	Hidden: true,
}

var generateWebAPISpecViper = viper.New()

const generateWebAPISpecOutputKey = "output"

// generateWebAPISpecCmd represents the `ankireview internal generate_web_api_spec` command
var generateWebAPISpecCmd = &cobra.Command{
	Use:   "generate_web_api_spec",
	Short: "Generate the web service openapi spec",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		return web.GenerateOpenAPISpec(generateWebAPISpecViper.GetString(generateWebAPISpecOutputKey))
	},
}

func init() {
	generateWebAPISpecViper.SetDefault(generateWebAPISpecOutputKey, "./web-openapi.json")

	generateWebAPISpecCmd.PersistentFlags().String(
		generateWebAPISpecOutputKey,
		generateWebAPISpecViper.GetString(generateWebAPISpecOutputKey),
		"Path to the json output file",
	)

	// Don't sort alphabetically, keep insertion order
	generateWebAPISpecCmd.PersistentFlags().SortFlags = false

	_ = generateWebAPISpecViper.BindPFlags(generateWebAPISpecCmd.PersistentFlags())

	InternalCmd.AddCommand(generateWebAPISpecCmd)
}
