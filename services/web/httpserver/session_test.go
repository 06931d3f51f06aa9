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

package httpserver

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession(t *testing.T) {
	sessionString, err := MakeAndSerializeSession("alice", "my_secret", time.Hour)
	assert.NoError(t, err)

	claims, err := ParseAndVerifySession(sessionString, "my_secret")
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, SessionIssuer, claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestSessionWithoutLifetime(t *testing.T) {
	sessionString, err := MakeAndSerializeSession("alice", "my_secret", 0)
	assert.NoError(t, err)

	claims, err := ParseAndVerifySession(sessionString, "my_secret")
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestParseBadSession(t *testing.T) {
	_, err := ParseAndVerifySession("blabla", "my_secret")
	assert.Error(t, err)
}

func TestParseSessionBadSecret(t *testing.T) {
	sessionString, err := MakeAndSerializeSession("alice", "my_secret", time.Hour)
	assert.NoError(t, err)

	_, err = ParseAndVerifySession(sessionString, "my_secret_is_wrong")
	assert.Error(t, err)
}

func TestParseExpiredSession(t *testing.T) {
	sessionString, err := MakeAndSerializeSession("alice", "my_secret", -time.Hour)
	assert.NoError(t, err)

	_, err = ParseAndVerifySession(sessionString, "my_secret")
	assert.Error(t, err)
}

func TestParseSessionBadIssuer(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
		Issuer:  "someone else",
	})
	sessionString, err := token.SignedString([]byte("my_secret"))
	require.NoError(t, err)

	_, err = ParseAndVerifySession(sessionString, "my_secret")
	assert.Error(t, err)
}
