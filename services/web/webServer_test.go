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

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) uint {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	return uint(listener.Addr().(*net.TCPAddr).Port)
}

func validOptions() Options {
	return Options{
		Host:           "127.0.0.1",
		Port:           8000,
		AnkiConnectURL: "http://127.0.0.1:1",
		Username:       "alice",
		Password:       "correct horse",
		Secret:         "my_secret",
	}
}

func TestValidateOptions(t *testing.T) {
	options := validOptions()
	assert.NoError(t, options.Validate())
}

func TestValidateReportsEveryMissingOption(t *testing.T) {
	options := Options{Username: "alice"}

	err := options.Validate()
	require.Error(t, err)

	missingErr, ok := err.(*MissingOptionsError)
	require.True(t, ok)
	assert.Equal(t, []string{"anki_connect_url", "password", "secret"}, missingErr.Options)
	assert.Equal(t, "missing required options: anki_connect_url, password, secret", err.Error())
}

func TestRunMissingOptions(t *testing.T) {
	err := Run(context.Background(), Options{})
	assert.IsType(t, &MissingOptionsError{}, err)
}

func TestRunInvalidAnkiConnectURL(t *testing.T) {
	options := validOptions()
	options.AnkiConnectURL = "localhost:8765"

	err := Run(context.Background(), options)
	assert.Error(t, err)
}

func TestRunStopsWhenCanceled(t *testing.T) {
	options := validOptions()
	options.Port = freePort(t)
	options.JournalFile = filepath.Join(t.TempDir(), "journal.db")
	options.AnkiConnectTimeout = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() {
		runErr <- Run(ctx, options)
	}()

	// AnkiConnect is down, any answer of the health route means the service is listening
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/healthz", options.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusServiceUnavailable
	}, 10*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-runErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("the web service did not stop")
	}

	_, err := os.Stat(options.JournalFile)
	assert.NoError(t, err)
}

func TestWithDefaults(t *testing.T) {
	options, err := validOptions().withDefaults()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", options.Host)
	assert.Equal(t, uint(8000), options.Port)
	assert.Equal(t, DefaultOptions.Workers, options.Workers)
	assert.Equal(t, DefaultOptions.AnkiConnectTimeout, options.AnkiConnectTimeout)
	assert.Equal(t, DefaultOptions.SessionLifetime, options.SessionLifetime)
	assert.Equal(t, "", options.JournalFile)
	assert.Equal(t, "alice", options.Username)
}

func TestWithDefaultsMediaCacheSize(t *testing.T) {
	options := validOptions()
	options.MediaCacheSize = 0
	merged, err := options.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, 256, merged.MediaCacheSize)

	options.MediaCacheSize = 12
	merged, err = options.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, 12, merged.MediaCacheSize)

	// Negative sizes reach the reviewer untouched and disable the cache
	options.MediaCacheSize = -1
	merged, err = options.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, -1, merged.MediaCacheSize)
}

func TestWithDefaultsTrustedProxies(t *testing.T) {
	options := validOptions()
	options.TrustedProxies = nil
	merged, err := options.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1"}, merged.TrustedProxies)

	options.TrustedProxies = []string{}
	merged, err = options.withDefaults()
	require.NoError(t, err)
	assert.Empty(t, merged.TrustedProxies)
	assert.NotNil(t, merged.TrustedProxies)

	options.TrustedProxies = []string{"10.0.0.1"}
	merged, err = options.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, merged.TrustedProxies)
}

func TestGenerateOpenAPISpec(t *testing.T) {
	output := filepath.Join(t.TempDir(), "openapi.json")
	require.NoError(t, GenerateOpenAPISpec(output))

	content, err := os.ReadFile(output)
	require.NoError(t, err)

	document := struct {
		Paths map[string]interface{} `json:"paths"`
	}{}
	require.NoError(t, json.Unmarshal(content, &document))
	assert.Contains(t, document.Paths, "/getCardContent")
	assert.Contains(t, document.Paths, "/history")
	assert.NotContains(t, document.Paths, "/login")
}
