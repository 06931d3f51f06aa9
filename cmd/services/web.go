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
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankireview/ankireview/cmd/services/utils"
	"github.com/ankireview/ankireview/services/web"
	rootUtils "github.com/ankireview/ankireview/utils"
	"github.com/ankireview/ankireview/version"
)

// webViper represents the configuration of the web command
var webViper = viper.New()

const webHostKey = "host"
const webHostEnv = "ANKIREVIEW_HOST"
const webPortKey = "port"
const webPortEnv = "ANKIREVIEW_PORT"
const webWorkersKey = "workers"
const webWorkersEnv = "ANKIREVIEW_WORKERS"
const webAnkiConnectURLKey = "anki_connect_url"
const webAnkiConnectURLEnv = "ANKI_CONNECT_URL"
const webAnkiConnectTimeoutKey = "anki_connect_timeout"
const webAnkiConnectTimeoutEnv = "ANKIREVIEW_ANKI_CONNECT_TIMEOUT"
const webUsernameKey = "username"
const webUsernameEnv = "APP_USERNAME"
const webPasswordKey = "password"
const webPasswordEnv = "APP_PASSWORD"
const webSecretKey = "secret"
const webSecretEnv = "APP_SECRET_KEY"

// webSecretFallbackEnv is read when webSecretEnv is not set, it is the variable of the former deployments
const webSecretFallbackEnv = "FLASK_SECRET_KEY"
const webJournalFileKey = "journal_file"
const webJournalFileEnv = "ANKIREVIEW_JOURNAL_FILE"
const webMediaCacheSizeKey = "media_cache_size"
const webMediaCacheSizeEnv = "ANKIREVIEW_MEDIA_CACHE_SIZE"
const webSessionLifetimeKey = "session_lifetime"
const webSessionLifetimeEnv = "ANKIREVIEW_SESSION_LIFETIME"
const webSecureCookieKey = "secure_cookie"
const webSecureCookieEnv = "ANKIREVIEW_SECURE_COOKIE"
const webTrustedProxiesKey = "trusted_proxies"
const webTrustedProxiesEnv = "ANKIREVIEW_TRUSTED_PROXIES"
const webAllowedOriginsKey = "allowed_origins"
const webAllowedOriginsEnv = "ANKIREVIEW_ALLOWED_ORIGINS"

var webRequiredEnvs = map[string]string{
	webAnkiConnectURLKey: webAnkiConnectURLEnv,
	webUsernameKey:       webUsernameEnv,
	webPasswordKey:       webPasswordEnv,
	webSecretKey:         webSecretEnv,
}

func secretFromViper(cfg *viper.Viper) string {
	if secret := cfg.GetString(webSecretKey); secret != "" {
		return secret
	}
	return os.Getenv(webSecretFallbackEnv)
}

func webOptionsFromViper(cfg *viper.Viper) (web.Options, error) {
	options := web.Options{
		Host:               cfg.GetString(webHostKey),
		Port:               cfg.GetUint(webPortKey),
		Workers:            cfg.GetInt(webWorkersKey),
		AnkiConnectURL:     cfg.GetString(webAnkiConnectURLKey),
		AnkiConnectTimeout: cfg.GetDuration(webAnkiConnectTimeoutKey),
		Username:           cfg.GetString(webUsernameKey),
		Password:           cfg.GetString(webPasswordKey),
		Secret:             secretFromViper(cfg),
		JournalFile:        cfg.GetString(webJournalFileKey),
		MediaCacheSize:     cfg.GetInt(webMediaCacheSizeKey),
		SessionLifetime:    cfg.GetDuration(webSessionLifetimeKey),
		SecureCookie:       cfg.GetBool(webSecureCookieKey),
		TrustedProxies:     rootUtils.NormalizeList(cfg.GetStringSlice(webTrustedProxiesKey)),
		AllowedOrigins:     rootUtils.NormalizeList(cfg.GetStringSlice(webAllowedOriginsKey)),
	}

	if options.Workers <= 0 {
		return options, fmt.Errorf("invalid argument \"--%s\" specified, expected a strictly positive number", webWorkersKey)
	}

	err := options.Validate()
	var missingErr *web.MissingOptionsError
	if errors.As(err, &missingErr) {
		missing := []string{}
		for _, key := range missingErr.Options {
			missing = append(missing, fmt.Sprintf("%s (--%s)", webRequiredEnvs[key], key))
		}
		return options, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return options, err
}

// webCmd represents the web command
var webCmd = &cobra.Command{
	Use:     "web",
	Aliases: []string{"serve"},
	Short:   "Run the web review service",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _args []string) error {
		options, err := webOptionsFromViper(webViper)
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"version":          version.Version,
			"hash":             version.Hash,
			"anki_connect_url": options.AnkiConnectURL,
			"trusted_proxies":  rootUtils.FormatList(options.TrustedProxies),
		}).Info("starting the web review service")

		ctx, stop := utils.ContextWithUserTermination(context.Background())
		defer stop()

		err = web.Run(ctx, options)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("interrupted by user")
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	webViper.SetDefault(webHostKey, web.DefaultOptions.Host)
	_ = webViper.BindEnv(webHostKey, webHostEnv)
	webCmd.Flags().String(
		webHostKey,
		webViper.GetString(webHostKey),
		"The address to listen on",
	)

	webViper.SetDefault(webPortKey, web.DefaultOptions.Port)
	_ = webViper.BindEnv(webPortKey, webPortEnv)
	webCmd.Flags().Uint(
		webPortKey,
		webViper.GetUint(webPortKey),
		"The http port to listen on",
	)

	webViper.SetDefault(webWorkersKey, web.DefaultOptions.Workers)
	_ = webViper.BindEnv(webWorkersKey, webWorkersEnv)
	webCmd.Flags().Int(
		webWorkersKey,
		webViper.GetInt(webWorkersKey),
		"Maximum number of requests handled concurrently",
	)

	_ = webViper.BindEnv(webAnkiConnectURLKey, webAnkiConnectURLEnv)
	webCmd.Flags().String(
		webAnkiConnectURLKey,
		webViper.GetString(webAnkiConnectURLKey),
		"AnkiConnect url (required)",
	)

	webViper.SetDefault(webAnkiConnectTimeoutKey, web.DefaultOptions.AnkiConnectTimeout)
	_ = webViper.BindEnv(webAnkiConnectTimeoutKey, webAnkiConnectTimeoutEnv)
	webCmd.Flags().Duration(
		webAnkiConnectTimeoutKey,
		webViper.GetDuration(webAnkiConnectTimeoutKey),
		"Timeout of the AnkiConnect requests",
	)

	_ = webViper.BindEnv(webUsernameKey, webUsernameEnv)
	webCmd.Flags().String(
		webUsernameKey,
		webViper.GetString(webUsernameKey),
		"Login username (required)",
	)

	_ = webViper.BindEnv(webPasswordKey, webPasswordEnv)
	webCmd.Flags().String(
		webPasswordKey,
		webViper.GetString(webPasswordKey),
		"Login password (required)",
	)

	_ = webViper.BindEnv(webSecretKey, webSecretEnv)
	webCmd.Flags().String(
		webSecretKey,
		webViper.GetString(webSecretKey),
		fmt.Sprintf("Secret used to sign the sessions, %s is also read (required)", webSecretFallbackEnv),
	)

	webViper.SetDefault(webJournalFileKey, web.DefaultOptions.JournalFile)
	_ = webViper.BindEnv(webJournalFileKey, webJournalFileEnv)
	webCmd.Flags().String(
		webJournalFileKey,
		webViper.GetString(webJournalFileKey),
		"File storing the answers journal, kept in memory if empty",
	)

	webViper.SetDefault(webMediaCacheSizeKey, web.DefaultOptions.MediaCacheSize)
	_ = webViper.BindEnv(webMediaCacheSizeKey, webMediaCacheSizeEnv)
	webCmd.Flags().Int(
		webMediaCacheSizeKey,
		webViper.GetInt(webMediaCacheSizeKey),
		"Number of media files kept in cache, a negative value disables the cache",
	)

	webViper.SetDefault(webSessionLifetimeKey, web.DefaultOptions.SessionLifetime)
	_ = webViper.BindEnv(webSessionLifetimeKey, webSessionLifetimeEnv)
	webCmd.Flags().Duration(
		webSessionLifetimeKey,
		webViper.GetDuration(webSessionLifetimeKey),
		"Lifetime of the sessions",
	)

	webViper.SetDefault(webSecureCookieKey, web.DefaultOptions.SecureCookie)
	_ = webViper.BindEnv(webSecureCookieKey, webSecureCookieEnv)
	webCmd.Flags().Bool(
		webSecureCookieKey,
		webViper.GetBool(webSecureCookieKey),
		"Only send the session cookie over https",
	)

	webViper.SetDefault(webTrustedProxiesKey, web.DefaultOptions.TrustedProxies)
	_ = webViper.BindEnv(webTrustedProxiesKey, webTrustedProxiesEnv)
	webCmd.Flags().StringSlice(
		webTrustedProxiesKey,
		webViper.GetStringSlice(webTrustedProxiesKey),
		"Comma separated list of the proxies trusted to report the client address",
	)

	webViper.SetDefault(webAllowedOriginsKey, []string{})
	_ = webViper.BindEnv(webAllowedOriginsKey, webAllowedOriginsEnv)
	webCmd.Flags().StringSlice(
		webAllowedOriginsKey,
		webViper.GetStringSlice(webAllowedOriginsKey),
		"Comma separated list of the origins allowed to make cross origin requests, cors is disabled if empty",
	)

	// Don't sort alphabetically, keep insertion order
	webCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = webViper.BindPFlags(webCmd.Flags())
}
