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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/png", mediaType("diagram.png"))
	assert.Equal(t, "image/png", mediaType("DIAGRAM.PNG"))
	assert.Equal(t, "image/gif", mediaType("anim.gif"))
	assert.Equal(t, "image/jpeg", mediaType("photo.jpg"))
	assert.Equal(t, "image/jpeg", mediaType("no_extension"))
	assert.Equal(t, "image/jpeg", mediaType("page.html"))
}

func TestInlineWithoutImages(t *testing.T) {
	fake := newFakeAnkiConnect()
	inliner, err := NewMediaInliner(fake, 0)
	require.NoError(t, err)

	content, err := inliner.Inline(context.Background(), "<div>no image here</div>")
	assert.NoError(t, err)
	assert.Equal(t, "<div>no image here</div>", content)
	assert.Empty(t, fake.mediaRequests)
}

func TestInlineImages(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.media["cat.jpg"] = "Y2F0"
	fake.media["dog & co.png"] = "ZG9n"

	inliner, err := NewMediaInliner(fake, 0)
	require.NoError(t, err)

	content, err := inliner.Inline(
		context.Background(),
		`<div>A <img class="big" src="cat.jpg"> and <img src="dog &amp; co.png" alt="dog"/>!</div>`,
	)
	assert.NoError(t, err)
	assert.Equal(
		t,
		`<div>A <img src="data:image/jpeg;base64,Y2F0" /> and <img src="data:image/png;base64,ZG9n" />!</div>`,
		content,
	)
}

func TestInlineMissingImageKeepsTag(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.media["cat.jpg"] = "Y2F0"

	inliner, err := NewMediaInliner(fake, 0)
	require.NoError(t, err)

	content, err := inliner.Inline(
		context.Background(),
		`<img src="missing.jpg"><img src="cat.jpg">`,
	)
	assert.NoError(t, err)
	assert.Equal(t, `<img src="missing.jpg"><img src="data:image/jpeg;base64,Y2F0" />`, content)
}

func TestInlineError(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.err = errAnkiDown

	inliner, err := NewMediaInliner(fake, 0)
	require.NoError(t, err)

	_, err = inliner.Inline(context.Background(), `<img src="cat.jpg">`)
	assert.ErrorIs(t, err, errAnkiDown)
}

func TestInlineCache(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.media["cat.jpg"] = "Y2F0"

	inliner, err := NewMediaInliner(fake, 2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := inliner.Inline(context.Background(), `<img src="cat.jpg"><img src="cat.jpg">`)
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, fake.mediaRequests["cat.jpg"])
}

func TestInlineWithoutCache(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.media["cat.jpg"] = "Y2F0"

	inliner, err := NewMediaInliner(fake, -1)
	require.NoError(t, err)

	_, err = inliner.Inline(context.Background(), `<img src="cat.jpg"><img src="cat.jpg">`)
	assert.NoError(t, err)
	assert.Equal(t, 2, fake.mediaRequests["cat.jpg"])
}
