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

package utils

import (
	"strings"
)

const listSeparator = ","

// ParseList splits a comma separated list, trimming items and dropping empty ones.
func ParseList(str string) []string {
	result := []string{}
	for _, item := range strings.Split(str, listSeparator) {
		item = strings.TrimSpace(item)
		if len(item) > 0 {
			result = append(result, item)
		}
	}
	return result
}

// NormalizeList flattens a list whose items might themselves be comma separated lists.
//
// Viper returns a single item when a list is provided through an environment variable.
func NormalizeList(items []string) []string {
	result := []string{}
	for _, item := range items {
		result = append(result, ParseList(item)...)
	}
	return result
}

func FormatList(items []string) string {
	return strings.Join(items, listSeparator)
}
