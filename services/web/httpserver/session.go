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
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ankireview/ankireview/version"
)

var SessionIssuer = fmt.Sprintf("ankireview v%s", version.Version)

const sessionCookieName = "session"

type SessionClaims struct {
	jwt.RegisteredClaims
}

// MakeAndSerializeSession signs a session for `username`, a zero `lifetime` never expires
func MakeAndSerializeSession(username string, secret string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   SessionIssuer,
		},
	}
	if lifetime != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(lifetime))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseAndVerifySession(tokenString string, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}

		issuer, err := token.Claims.GetIssuer()
		if err != nil {
			return nil, err
		}

		if issuer != SessionIssuer {
			return nil, fmt.Errorf("Unexpected session issuer: %v", issuer)
		}

		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok {
		return claims, nil
	}
	return nil, errors.New("Unexpected session claims")
}

func (server *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, value, maxAge, "/", "", server.options.SecureCookie, true)
}

func (server *Server) openSession(c *gin.Context) error {
	session, err := MakeAndSerializeSession(server.options.Username, server.options.Secret, server.options.SessionLifetime)
	if err != nil {
		return err
	}
	server.setSessionCookie(c, session, int(server.options.SessionLifetime.Seconds()))
	return nil
}

func (server *Server) clearSession(c *gin.Context) {
	server.setSessionCookie(c, "", -1)
}

func (server *Server) hasValidSession(c *gin.Context) bool {
	session, err := c.Cookie(sessionCookieName)
	if err != nil || session == "" {
		return false
	}
	claims, err := ParseAndVerifySession(session, server.options.Secret)
	if err != nil {
		log.WithField("error", err).Debug("rejecting session")
		return false
	}
	return claims.Subject == server.options.Username
}
