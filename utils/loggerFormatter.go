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
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ComponentField is set by every package logger and rendered right after the level
const ComponentField = "component"

// LoggerFormatter renders entries as
// `<time> [<LEVEL>] [<component>] <message> [<field>:<value>]...`
type LoggerFormatter struct {
	DisableColors bool
}

func (f *LoggerFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}

	b.WriteString(entry.Time.Format(time.RFC3339))
	b.WriteByte(' ')

	if !f.DisableColors {
		fmt.Fprintf(b, "\x1b[%dm", colorByLevel(entry.Level))
	}
	fmt.Fprintf(b, "[%s]", strings.ToUpper(entry.Level.String())[:4])
	if component, ok := entry.Data[ComponentField]; ok {
		fmt.Fprintf(b, " [%v]", component)
	}
	if !f.DisableColors {
		b.WriteString("\x1b[0m")
	}

	b.WriteByte(' ')
	b.WriteString(strings.TrimSpace(entry.Message))

	fields := make([]string, 0, len(entry.Data))
	for field := range entry.Data {
		if field != ComponentField {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(b, " [%s:%v]", field, entry.Data[field])
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}

func colorByLevel(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return 37
	case logrus.WarnLevel:
		return 33
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return 31
	default:
		return 36
	}
}
