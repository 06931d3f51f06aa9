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
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/sirupsen/logrus"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"
	"golang.org/x/sync/semaphore"

	"github.com/ankireview/ankireview/clients/ankiconnect"
	"github.com/ankireview/ankireview/services/journal/backend"
	"github.com/ankireview/ankireview/version"
)

var log = logrus.WithField("component", "web/httpserver")

var infos = openapi.Info{
	Title: "ankireview",
	Description: "Authenticated web front-end to review Anki cards through AnkiConnect.\n" +
		"\n" +
		"Every route of the [Review](#tag/Review) group requires a session, obtained by logging in on `/login`.",
	Version: version.Version,
}

// Reviewer is what the http server needs from the review service
type Reviewer interface {
	AnkiConnectVersion(ctx context.Context) (int, error)
	Decks(ctx context.Context) ([]string, error)
	Sync(ctx context.Context) error
	ListCards(ctx context.Context, deck string) ([]int64, error)
	NextCard(ctx context.Context, deck string) (int64, error)
	CardContent(ctx context.Context, cardID int64) ([]ankiconnect.CardInfo, error)
	Answer(ctx context.Context, cardID int64, ease int) ([]bool, error)
	History(ctx context.Context, fromEntryIdx int, count int) (backend.EntriesResult, error)
}

type Options struct {
	Host            string
	Port            uint
	Workers         int
	Username        string
	Password        string
	Secret          string
	SessionLifetime time.Duration
	SecureCookie    bool
	TrustedProxies  []string
	AllowedOrigins  []string
}

type Server struct {
	http.Server
	options  Options
	reviewer Reviewer
	metrics  *Metrics
	workers  *semaphore.Weighted

	gin  *gin.Engine
	fizz *fizz.Fizz
}

const (
	loginPath   = "/login"
	logoutPath  = "/logout"
	decksPath   = "/decks"
	revisePath  = "/revise"
	healthPath  = "/healthz"
	metricsPath = "/metrics"
)

//nolint:lll
func New(options Options, reviewer Reviewer, metrics *Metrics) (*Server, error) {
	if options.Workers <= 0 {
		return nil, fmt.Errorf("invalid number of workers [%d], expecting at least 1", options.Workers)
	}

	if metrics == nil {
		var err error
		metrics, err = NewMetrics()
		if err != nil {
			return nil, err
		}
	}

	gin.SetMode(gin.ReleaseMode)

	tonic.SetErrorHook(tonicErrorHook)

	ginEngine := gin.New()
	fizzEngine := fizz.NewFromEngine(ginEngine)

	server := &Server{
		Server: http.Server{
			Addr:              net.JoinHostPort(options.Host, strconv.FormatUint(uint64(options.Port), 10)),
			Handler:           fizzEngine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		options:  options,
		reviewer: reviewer,
		metrics:  metrics,
		workers:  semaphore.NewWeighted(int64(options.Workers)),
		gin:      ginEngine,
		fizz:     fizzEngine,
	}

	server.gin.HandleMethodNotAllowed = true

	var trustedProxies []string
	if len(options.TrustedProxies) > 0 {
		trustedProxies = options.TrustedProxies
	}
	if err := server.gin.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	if len(options.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = options.AllowedOrigins
		corsConfig.AllowCredentials = true
		if err := corsConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid allowed origins: %w", err)
		}
		server.fizz.Use(cors.New(corsConfig))
	}

	// Use a custom error handler
	server.fizz.Use(ginErrorHandlerMiddleware)

	// Use the custom logger middleware
	server.fizz.Use(ginLoggerMiddleware)

	server.fizz.Use(metrics.ginMiddleware)

	// Recovery middleware recovers from any panics and writes a 500 if there was one.
	server.fizz.Use(gin.Recovery())

	server.fizz.Use(workersLimitMiddleware(server.workers))

	server.gin.GET(loginPath, server.loginPage)
	server.gin.POST(loginPath, server.login)
	server.gin.GET(logoutPath, server.logout)
	server.gin.GET(metricsPath, gin.WrapH(metrics.Handler()))

	server.fizz.GET(healthPath, []fizz.OperationOption{
		fizz.Summary("Check the service and its AnkiConnect instance are up"),
		fizz.Response("503", "AnkiConnect is unavailable", httpError{}, nil, nil),
	}, tonic.Handler(server.getHealth, http.StatusOK))

	server.fizz.GET("/openapi.json", []fizz.OperationOption{
		fizz.Summary("Retrieve the open api specification"),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, server.fizz.OpenAPI(&infos, "json"))

	pagesGroup := server.gin.Group("/", server.requireSessionMiddleware)
	pagesGroup.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, decksPath)
	})
	pagesGroup.GET(decksPath, server.decksPage)
	pagesGroup.GET(revisePath, server.revisePage)

	reviewGroup := server.fizz.Group(
		"",
		"Review",
		"Browse the decks, review and answer their cards.",
		server.requireSessionMiddleware,
	)
	reviewGroup.GET("/getDeckNames", []fizz.OperationOption{
		fizz.Summary("List the deck names"),
		fizz.Response("500", "AnkiConnect failure", httpError{}, nil, nil),
	}, tonic.Handler(server.getDeckNames, http.StatusOK))
	reviewGroup.GET("/getCards", []fizz.OperationOption{
		fizz.Summary("List the cards to review"),
		fizz.Description("List the identifiers of the new or due cards of the deck, in review order: " +
			"overdue cards that were already reviewed first, then the others, each by due value."),
		fizz.Response("500", "AnkiConnect failure", httpError{}, nil, nil),
	}, tonic.Handler(server.getCards, http.StatusOK))
	reviewGroup.GET("/getNextCard", []fizz.OperationOption{
		fizz.Summary("Retrieve the next card to review"),
		fizz.Response("404", "No card to review in the deck", httpError{}, nil, nil),
		fizz.Response("500", "AnkiConnect failure", httpError{}, nil, nil),
	}, tonic.Handler(server.getNextCard, http.StatusOK))
	reviewGroup.GET("/getCardContent", []fizz.OperationOption{
		fizz.Summary("Retrieve a card"),
		fizz.Description("Retrieve the card information, images of the question and answer are inlined as data urls."),
		fizz.Response("400", "Invalid card identifier", httpError{}, nil, nil),
		fizz.Response("404", "Card not found", httpError{}, nil, nil),
		fizz.Response("500", "AnkiConnect failure", httpError{}, nil, nil),
	}, tonic.Handler(server.getCardContent, http.StatusOK))
	reviewGroup.GET("/answerCard", []fizz.OperationOption{
		fizz.Summary("Answer a card"),
		fizz.Description("Answer the card with the given ease, from 1 (again) to 4 (easy), and record it in the journal."),
		fizz.Response("400", "Invalid card identifier or ease", httpError{}, nil, nil),
		fizz.Response("500", "AnkiConnect failure", httpError{}, nil, nil),
	}, tonic.Handler(server.answerCard, http.StatusOK))
	reviewGroup.GET("/history", []fizz.OperationOption{
		fizz.Summary("Retrieve the answers journal"),
		fizz.Response("500", "Journal failure", httpError{}, nil, nil),
	}, tonic.Handler(server.getHistory, http.StatusOK))

	ginEngine.NoRoute(func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusNotFound, fmt.Errorf("not found"))
	})

	ginEngine.NoMethod(func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	})

	return server, nil
}

func (server *Server) GenerateOpenAPISpec(outputFile string) error {
	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	server.fizz.Generator().SetInfo(&infos)
	serializedJSON, err := json.MarshalIndent(server.fizz.Generator().API(), "", "\t")
	if err != nil {
		return err
	}
	_, err = f.Write(serializedJSON)
	return err
}

type response struct {
	Message string `json:"message" description:"Human-readable response description"`
}

type healthResponse struct {
	response
	Version            string `json:"version" description:"ankireview version"`
	AnkiConnectVersion int    `json:"anki_connect_version" description:"AnkiConnect API version"`
}

func (server *Server) getHealth(c *gin.Context) (*healthResponse, error) {
	ankiConnectVersion, err := server.reviewer.AnkiConnectVersion(c.Request.Context())
	if err != nil {
		return nil, wrapError(http.StatusServiceUnavailable, err)
	}
	return &healthResponse{
		response: response{
			Message: "ankireview is up",
		},
		Version:            version.Version,
		AnkiConnectVersion: ankiConnectVersion,
	}, nil
}

func (server *Server) getDeckNames(c *gin.Context) ([]string, error) {
	return server.reviewer.Decks(c.Request.Context())
}

type deckRequest struct {
	Query string `query:"query" description:"Name of the deck"`
}

func (server *Server) getCards(c *gin.Context, request *deckRequest) ([]int64, error) {
	return server.reviewer.ListCards(c.Request.Context(), request.Query)
}

func (server *Server) getNextCard(c *gin.Context, request *deckRequest) (int64, error) {
	return server.reviewer.NextCard(c.Request.Context(), request.Query)
}

type cardRequest struct {
	Card int64 `query:"card" validate:"required" description:"The card identifier"`
}

func (server *Server) getCardContent(c *gin.Context, request *cardRequest) ([]ankiconnect.CardInfo, error) {
	return server.reviewer.CardContent(c.Request.Context(), request.Card)
}

type answerRequest struct {
	Card int64 `query:"card" validate:"required" description:"The card identifier"`
	Ease int   `query:"ease" validate:"required" description:"The answer ease, from 1 (again) to 4 (easy)"`
}

func (server *Server) answerCard(c *gin.Context, request *answerRequest) ([]bool, error) {
	log.WithFields(logrus.Fields{
		"card_id": request.Card,
		"ease":    request.Ease,
	}).Debug("answering card")
	return server.reviewer.Answer(c.Request.Context(), request.Card, request.Ease)
}

type historyRequest struct {
	From  int `query:"from" default:"0" description:"Index of the first journal entry"`
	Count int `query:"count" default:"50" description:"Maximum number of journal entries"`
}

func (server *Server) getHistory(c *gin.Context, request *historyRequest) (*backend.EntriesResult, error) {
	if request.From < 0 {
		return nil, wrapError(http.StatusBadRequest, fmt.Errorf("invalid journal index [%d]", request.From))
	}
	result, err := server.reviewer.History(c.Request.Context(), request.From, request.Count)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
