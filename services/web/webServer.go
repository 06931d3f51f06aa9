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
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/imdario/mergo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ankireview/ankireview/clients/ankiconnect"
	"github.com/ankireview/ankireview/services/journal/backend"
	"github.com/ankireview/ankireview/services/journal/backend/bolt"
	"github.com/ankireview/ankireview/services/journal/backend/memory"
	"github.com/ankireview/ankireview/services/review"
	"github.com/ankireview/ankireview/services/web/httpserver"
)

var log = logrus.WithField("component", "web")

type Options struct {
	Host               string
	Port               uint
	Workers            int
	AnkiConnectURL     string
	AnkiConnectTimeout time.Duration
	Username           string
	Password           string
	Secret             string
	JournalFile        string
	MediaCacheSize     int
	SessionLifetime    time.Duration
	SecureCookie       bool
	TrustedProxies     []string
	AllowedOrigins     []string
}

var DefaultOptions = Options{
	Host:               "0.0.0.0",
	Port:               8000,
	Workers:            4,
	AnkiConnectTimeout: ankiconnect.DefaultTimeout,
	JournalFile:        "",
	MediaCacheSize:     256,
	SessionLifetime:    31 * 24 * time.Hour,
	SecureCookie:       false,
	TrustedProxies:     []string{"127.0.0.1"},
}

const shutdownTimeout = 5 * time.Second

// MissingOptionsError lists every required option left empty
type MissingOptionsError struct {
	Options []string
}

func (e *MissingOptionsError) Error() string {
	return fmt.Sprintf("missing required options: %s", strings.Join(e.Options, ", "))
}

func (options *Options) Validate() error {
	missing := []string{}
	required := []struct {
		name  string
		value string
	}{
		{"anki_connect_url", options.AnkiConnectURL},
		{"username", options.Username},
		{"password", options.Password},
		{"secret", options.Secret},
	}
	for _, option := range required {
		if option.value == "" {
			missing = append(missing, option.name)
		}
	}
	if len(missing) > 0 {
		return &MissingOptionsError{Options: missing}
	}
	return nil
}

// withDefaults replaces the zero values by the defaults.
//
// A non nil empty list of trusted proxies is kept, it disables the trust of every proxy.
func (options Options) withDefaults() (Options, error) {
	trustedProxies := options.TrustedProxies
	if err := mergo.Merge(&options, DefaultOptions); err != nil {
		return options, err
	}
	if trustedProxies != nil {
		options.TrustedProxies = trustedProxies
	}
	return options, nil
}

func createJournal(journalFile string) (backend.Backend, error) {
	if journalFile == "" {
		log.Debug("keeping the answers journal in memory")
		return memory.CreateMemoryBackend()
	}
	log.WithField("journal_file", journalFile).Debug("keeping the answers journal in a file")
	return bolt.CreateBoltBackend(journalFile)
}

func Run(ctx context.Context, options Options) error {
	if err := options.Validate(); err != nil {
		return err
	}

	options, err := options.withDefaults()
	if err != nil {
		return err
	}

	metrics, err := httpserver.NewMetrics()
	if err != nil {
		return err
	}

	ankiConnect, err := ankiconnect.NewClient(ankiconnect.Options{
		URL:      options.AnkiConnectURL,
		Timeout:  options.AnkiConnectTimeout,
		Observer: metrics.ObserveAnkiConnect,
	})
	if err != nil {
		return err
	}

	journal, err := createJournal(options.JournalFile)
	if err != nil {
		return err
	}

	reviewer, err := review.NewReviewer(ankiConnect, journal, options.MediaCacheSize)
	if err != nil {
		journal.Destroy()
		return err
	}

	httpServer, err := httpserver.New(httpserver.Options{
		Host:            options.Host,
		Port:            options.Port,
		Workers:         options.Workers,
		Username:        options.Username,
		Password:        options.Password,
		Secret:          options.Secret,
		SessionLifetime: options.SessionLifetime,
		SecureCookie:    options.SecureCookie,
		TrustedProxies:  options.TrustedProxies,
		AllowedOrigins:  options.AllowedOrigins,
	}, reviewer, metrics)
	if err != nil {
		journal.Destroy()
		return err
	}

	ankiConnectVersion, err := reviewer.AnkiConnectVersion(ctx)
	if err != nil {
		log.WithFields(logrus.Fields{
			"anki_connect_url": options.AnkiConnectURL,
			"error":            err,
		}).Warn("AnkiConnect is not reachable yet")
	} else {
		log.WithField("anki_connect_version", ankiConnectVersion).Debug("AnkiConnect is reachable")
	}

	group, ctx := errgroup.WithContext(ctx)

	// Start the http server
	group.Go(func() error {
		log.WithFields(logrus.Fields{
			"address": httpServer.Addr,
			"workers": options.Workers,
		}).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("unexpected error while serving http routes: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("Gracefully stopping")

		log.Debug("Stopping the http server")
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(stopCtx)
		if err != nil {
			log.WithField("error", err).Warning("Error while stopping")
		}

		log.Debug("Destroying the journal")
		journal.Destroy()

		return ctx.Err()
	})

	return group.Wait()
}

// GenerateOpenAPISpec writes the OpenAPI document of the web service json routes to `outputFile`
func GenerateOpenAPISpec(outputFile string) error {
	httpServer, err := httpserver.New(httpserver.Options{
		Host:    DefaultOptions.Host,
		Port:    DefaultOptions.Port,
		Workers: DefaultOptions.Workers,
	}, nil, nil)
	if err != nil {
		return err
	}
	return httpServer.GenerateOpenAPISpec(outputFile)
}
