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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "ankiconnect-client")

// APIVersion is the version of the AnkiConnect API requested by this client
const APIVersion = 6

const DefaultTimeout = 5 * time.Second

// Observer is notified after every AnkiConnect action invocation
type Observer func(action string, duration time.Duration, err error)

type Options struct {
	URL      string
	Timeout  time.Duration
	Observer Observer
}

type Client struct {
	url      string
	resty    *resty.Client
	observer Observer
}

type request struct {
	Action  string      `json:"action"`
	Params  interface{} `json:"params"`
	Version int         `json:"version"`
}

func NewClient(options Options) (*Client, error) {
	parsedURL, err := url.Parse(options.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid AnkiConnect url %q: %w", options.URL, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid AnkiConnect url %q: expecting an http or https url", options.URL)
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		url:      options.URL,
		resty:    client,
		observer: options.Observer,
	}, nil
}

func (c *Client) URL() string {
	return c.url
}

// HTTPClient exposes the underlying http client, mostly useful to mock AnkiConnect
func (c *Client) HTTPClient() *http.Client {
	return c.resty.GetClient()
}

// Invoke runs the given AnkiConnect action and decodes its result in `result` (if not nil)
func (c *Client) Invoke(ctx context.Context, action string, params interface{}, result interface{}) error {
	start := time.Now()
	err := c.invoke(ctx, action, params, result)
	duration := time.Since(start)

	entry := log.WithFields(logrus.Fields{
		"action":   action,
		"duration": duration,
	})
	if err != nil {
		entry.WithField("error", err).Debug("AnkiConnect action failed")
	} else {
		entry.Trace("AnkiConnect action succeeded")
	}

	if c.observer != nil {
		c.observer(action, duration, err)
	}
	return err
}

func (c *Client) invoke(ctx context.Context, action string, params interface{}, result interface{}) error {
	if params == nil {
		params = map[string]interface{}{}
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(request{
			Action:  action,
			Params:  params,
			Version: APIVersion,
		}).
		Post(c.url)
	if err != nil {
		return &UnreachableError{URL: c.url, Err: err}
	}

	if resp.IsError() {
		return &InvalidResponseError{Reason: fmt.Sprintf("unexpected http status %d", resp.StatusCode())}
	}

	envelope := map[string]json.RawMessage{}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return &InvalidResponseError{Reason: "response is not a json object", Err: err}
	}

	rawError, hasError := envelope["error"]
	rawResult, hasResult := envelope["result"]
	if !hasError || !hasResult {
		return &InvalidResponseError{Reason: "missing \"error\" or \"result\" field"}
	}

	if message := decodeActionError(rawError); message != "" {
		return &ActionError{Action: action, Message: message}
	}

	if result != nil {
		if err := json.Unmarshal(rawResult, result); err != nil {
			return &InvalidResponseError{Reason: fmt.Sprintf("unexpected result for action %q", action), Err: err}
		}
	}
	return nil
}

// decodeActionError returns the error message held by the "error" field, empty if there is none
func decodeActionError(rawError json.RawMessage) string {
	var message *string
	if err := json.Unmarshal(rawError, &message); err != nil {
		// Not a string, use its json representation
		return string(rawError)
	}
	if message == nil {
		return ""
	}
	return *message
}
