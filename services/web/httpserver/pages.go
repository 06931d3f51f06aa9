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
	"crypto/subtle"
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

const htmlContentType = "text/html; charset=utf-8"

var (
	//go:embed static/login.html
	loginHTML []byte
	//go:embed static/selectDeck.html
	selectDeckHTML []byte
	//go:embed static/showCard.html
	showCardHTML []byte
)

func constantTimeEqual(a string, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (server *Server) loginPage(c *gin.Context) {
	c.Data(http.StatusOK, htmlContentType, loginHTML)
}

func (server *Server) login(c *gin.Context) {
	// Both are always compared
	usernameOk := constantTimeEqual(c.PostForm("username"), server.options.Username)
	passwordOk := constantTimeEqual(c.PostForm("password"), server.options.Password)

	if !usernameOk || !passwordOk {
		log.WithField("clientIP", c.ClientIP()).Warn("rejected login attempt")
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := server.openSession(c); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	log.WithField("clientIP", c.ClientIP()).Info("logged in")
	c.Redirect(http.StatusFound, "/")
}

func (server *Server) logout(c *gin.Context) {
	server.clearSession(c)
	c.Redirect(http.StatusFound, loginPath)
}

// decksPage synchronizes the collection before listing its decks
func (server *Server) decksPage(c *gin.Context) {
	if err := server.reviewer.Sync(c.Request.Context()); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, htmlContentType, selectDeckHTML)
}

func (server *Server) revisePage(c *gin.Context) {
	c.Data(http.StatusOK, htmlContentType, showCardHTML)
}
