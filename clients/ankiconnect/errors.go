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

package ankiconnect

import (
	"errors"
	"fmt"
)

var ErrMediaNotFound = errors.New("media file not found")

// UnreachableError is returned when AnkiConnect can't be reached at all
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("AnkiConnect unreachable: %s", e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// InvalidResponseError is returned when AnkiConnect answers with something that isn't a valid response envelope
type InvalidResponseError struct {
	Reason string
	Err    error
}

func (e *InvalidResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Invalid response from AnkiConnect, %s (%s)", e.Reason, e.Err)
	}
	return fmt.Sprintf("Invalid response from AnkiConnect, %s", e.Reason)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// ActionError is an error reported by AnkiConnect itself
type ActionError struct {
	Action  string
	Message string
}

func (e *ActionError) Error() string {
	return e.Message
}
