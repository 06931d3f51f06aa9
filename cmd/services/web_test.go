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
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebOptionsFromViper(t *testing.T) {
	cfg := viper.New()
	cfg.Set(webHostKey, "127.0.0.1")
	cfg.Set(webPortKey, 9000)
	cfg.Set(webWorkersKey, 2)
	cfg.Set(webAnkiConnectURLKey, "http://anki:8765")
	cfg.Set(webAnkiConnectTimeoutKey, "2s")
	cfg.Set(webUsernameKey, "alice")
	cfg.Set(webPasswordKey, "correct horse")
	cfg.Set(webSecretKey, "my_secret")
	cfg.Set(webSessionLifetimeKey, "24h")
	cfg.Set(webTrustedProxiesKey, "10.0.0.1,127.0.0.1")
	cfg.Set(webAllowedOriginsKey, []string{"https://anki.example.com"})

	options, err := webOptionsFromViper(cfg)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", options.Host)
	assert.Equal(t, uint(9000), options.Port)
	assert.Equal(t, 2, options.Workers)
	assert.Equal(t, "http://anki:8765", options.AnkiConnectURL)
	assert.Equal(t, 2*time.Second, options.AnkiConnectTimeout)
	assert.Equal(t, 24*time.Hour, options.SessionLifetime)
	assert.Equal(t, []string{"10.0.0.1", "127.0.0.1"}, options.TrustedProxies)
	assert.Equal(t, []string{"https://anki.example.com"}, options.AllowedOrigins)
}

func TestWebOptionsFromViperMissing(t *testing.T) {
	cfg := viper.New()
	cfg.Set(webWorkersKey, 4)
	cfg.Set(webUsernameKey, "alice")

	_, err := webOptionsFromViper(cfg)
	require.Error(t, err)
	assert.Equal(
		t,
		"missing required configuration: ANKI_CONNECT_URL (--anki_connect_url), APP_PASSWORD (--password), APP_SECRET_KEY (--secret)",
		err.Error(),
	)
}

func TestWebOptionsFromViperInvalidWorkers(t *testing.T) {
	cfg := viper.New()
	cfg.Set(webWorkersKey, 0)

	_, err := webOptionsFromViper(cfg)
	assert.Error(t, err)
}

func TestWebOptionsFromViperSecretFallback(t *testing.T) {
	t.Setenv(webSecretFallbackEnv, "legacy_secret")

	cfg := viper.New()
	cfg.Set(webWorkersKey, 4)
	cfg.Set(webAnkiConnectURLKey, "http://anki:8765")
	cfg.Set(webUsernameKey, "alice")
	cfg.Set(webPasswordKey, "correct horse")

	options, err := webOptionsFromViper(cfg)
	require.NoError(t, err)
	assert.Equal(t, "legacy_secret", options.Secret)

	cfg.Set(webSecretKey, "my_secret")
	options, err = webOptionsFromViper(cfg)
	require.NoError(t, err)
	assert.Equal(t, "my_secret", options.Secret)
}

func TestWebOptionsFromViperDisabledTrustedProxies(t *testing.T) {
	cfg := viper.New()
	cfg.SetDefault(webTrustedProxiesKey, []string{"127.0.0.1"})
	cfg.Set(webWorkersKey, 4)
	cfg.Set(webTrustedProxiesKey, "")

	options, _ := webOptionsFromViper(cfg)
	assert.NotNil(t, options.TrustedProxies)
	assert.Empty(t, options.TrustedProxies)
}
