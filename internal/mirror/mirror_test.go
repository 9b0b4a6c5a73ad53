package mirror

import (
	"testing"

	"blogsync/internal/models"

	"github.com/stretchr/testify/assert"
)

const (
	signedA = "https://prod-files-secure.s3.us-west-2.amazonaws.com/7B2C9E1A-0000-4000-8000-AAAAAAAAAAAA/pic.png?X-Amz-Signature=one&X-Amz-Expires=3600"
	signedB = "https://prod-files-secure.s3.us-west-2.amazonaws.com/7b2c9e1a-0000-4000-8000-aaaaaaaaaaaa/pic.png?X-Amz-Signature=two"
	edited  = "https://prod-files-secure.s3.us-west-2.amazonaws.com/11111111-2222-4333-8444-555555555555/pic.png?X-Amz-Signature=one"
)

func TestPublicID_Idempotent(t *testing.T) {
	first := PublicID("page1", "block1", signedA)
	second := PublicID("page1", "block1", signedA)
	assert.Equal(t, first, second)

	// подпись и регистр UUID не влияют на ключ
	assert.Equal(t, first, PublicID("page1", "block1", signedB))
	assert.Regexp(t, `^page1/block1_[0-9a-f]{8}$`, first)
}

func TestPublicID_ContentSensitive(t *testing.T) {
	assert.NotEqual(t, PublicID("page1", "block1", signedA), PublicID("page1", "block1", edited))

	plainA := "https://example.com/img/a.png?w=100"
	plainB := "https://example.com/img/b.png?w=100"
	assert.NotEqual(t, PublicID("p", "b", plainA), PublicID("p", "b", plainB))
	assert.Equal(t, PublicID("p", "b", plainA), PublicID("p", "b", "https://example.com/img/a.png"))
}

func TestContentFragment(t *testing.T) {
	assert.Equal(t, "7b2c9e1a-0000-4000-8000-aaaaaaaaaaaa", ContentFragment(signedA))
	assert.Equal(t, "https://example.com/a.png", ContentFragment("https://example.com/a.png?x=1"))
	assert.Len(t, ContentHash(signedA), 8)
	assert.Equal(t, "page1/cover_"+ContentHash(signedA), CoverPublicID("page1", signedA))
}

func TestReplaceURLs(t *testing.T) {
	src := NormalizeURL(signedA)
	m := BuildMapping([]models.ImageAsset{
		{SourceURL: src, MirrorURL: "https://res.cloudinary.com/demo/image/upload/blog/page1/block1_abc.png", Mirrored: true},
		{SourceURL: "https://example.com/failed.png", MirrorURL: "https://example.com/failed.png?sig=1", Mirrored: false},
	})
	assert.Len(t, m, 1)

	md := "![a](" + signedA + ")\n\n![b](" + src + ")\n\n![c](https://example.com/failed.png?sig=1)"
	out := ReplaceURLs(md, m)

	assert.Equal(t,
		"![a](https://res.cloudinary.com/demo/image/upload/blog/page1/block1_abc.png)\n\n"+
			"![b](https://res.cloudinary.com/demo/image/upload/blog/page1/block1_abc.png)\n\n"+
			"![c](https://example.com/failed.png?sig=1)",
		out)

	html := `<img src="` + signedA + `" alt="">`
	assert.Equal(t, `<img src="https://res.cloudinary.com/demo/image/upload/blog/page1/block1_abc.png" alt="">`, ReplaceURLs(html, m))
}

func TestReplaceURLs_Empty(t *testing.T) {
	assert.Equal(t, "text", ReplaceURLs("text", nil))
	assert.Equal(t, "", ReplaceURLs("", Mapping{"a": "b"}))
}

func TestIsHTTPURL(t *testing.T) {
	assert.True(t, IsHTTPURL("https://x"))
	assert.True(t, IsHTTPURL("http://x"))
	assert.False(t, IsHTTPURL("/local/pic.png"))
	assert.False(t, IsHTTPURL("data:image/png;base64,AA"))
}
