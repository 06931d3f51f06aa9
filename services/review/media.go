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

package review

import (
	"context"
	"errors"
	"fmt"
	"html"
	"mime"
	"path"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/ankireview/ankireview/clients/ankiconnect"
)

var imgTagPattern = regexp.MustCompile(`<img[^>]+src="([^"]+)"[^>]*>`)

const defaultMediaType = "image/jpeg"

type MediaFetcher interface {
	RetrieveMediaFile(ctx context.Context, filename string) (string, error)
}

// MediaInliner replaces the images referenced by card content with data URIs,
// the browser can't access the Anki media folder directly.
type MediaInliner struct {
	fetcher MediaFetcher
	cache   *lru.Cache
}

// NewMediaInliner creates an inliner caching up to `cacheSize` media files, a non positive size disables the cache
func NewMediaInliner(fetcher MediaFetcher, cacheSize int) (*MediaInliner, error) {
	inliner := &MediaInliner{
		fetcher: fetcher,
	}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("unable to create the media cache: %w", err)
		}
		inliner.cache = cache
	}
	return inliner, nil
}

func mediaType(filename string) string {
	mediaType := mime.TypeByExtension(strings.ToLower(path.Ext(filename)))
	if mediaType == "" {
		return defaultMediaType
	}
	mediaType, _, err := mime.ParseMediaType(mediaType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return defaultMediaType
	}
	return mediaType
}

func (m *MediaInliner) retrieve(ctx context.Context, filename string) (string, error) {
	if m.cache != nil {
		if data, ok := m.cache.Get(filename); ok {
			return data.(string), nil
		}
	}

	data, err := m.fetcher.RetrieveMediaFile(ctx, filename)
	if err != nil {
		return "", err
	}

	if m.cache != nil {
		m.cache.Add(filename, data)
	}
	return data, nil
}

// Inline returns `content` where every image tag is replaced by a tag embedding the image data
func (m *MediaInliner) Inline(ctx context.Context, content string) (string, error) {
	matches := imgTagPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	b := strings.Builder{}
	lastIdx := 0
	for _, match := range matches {
		tagStart, tagEnd := match[0], match[1]
		filename := html.UnescapeString(content[match[2]:match[3]])

		b.WriteString(content[lastIdx:tagStart])
		lastIdx = tagEnd

		data, err := m.retrieve(ctx, filename)
		if err != nil {
			if errors.Is(err, ankiconnect.ErrMediaNotFound) {
				log.WithField("filename", filename).Warn("media file not found, keeping the original image tag")
				b.WriteString(content[tagStart:tagEnd])
				continue
			}
			return "", err
		}

		log.WithFields(logrus.Fields{
			"filename": filename,
			"size":     len(data),
		}).Trace("inlining media file")
		fmt.Fprintf(&b, `<img src="data:%s;base64,%s" />`, mediaType(filename), data)
	}
	b.WriteString(content[lastIdx:])

	return b.String(), nil
}
