package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrendingKeyword(t *testing.T) {
	k, err := NewTrendingKeyword("  sofa da  ", nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "sofa da", k.Keyword)

	_, err = NewTrendingKeyword("   ", nil, 0)
	assert.Error(t, err)
}

func TestUSPApply(t *testing.T) {
	u, err := NewUSP("truck", "Giao hàng miễn phí", "Nội thành HCM", 1)
	require.NoError(t, err)

	order := 3
	require.NoError(t, u.Apply(USPPatch{DisplayOrder: &order}))
	assert.Equal(t, 3, u.DisplayOrder)
	assert.Equal(t, "Giao hàng miễn phí", u.Title)

	empty := ""
	assert.Error(t, u.Apply(USPPatch{Title: &empty}))
	assert.Equal(t, "Giao hàng miễn phí", u.Title)
}

func TestNewThemeConfig(t *testing.T) {
	c, err := NewThemeConfig(ThemeKeyHomepageHero, json.RawMessage(`{"title":"Sale"}`))
	require.NoError(t, err)
	assert.Equal(t, "homepage_hero", c.Key)

	_, err = NewThemeConfig("", json.RawMessage(`{}`))
	assert.Error(t, err)

	_, err = NewThemeConfig("colors", json.RawMessage(`{broken`))
	assert.Error(t, err)
}

func TestSitePage(t *testing.T) {
	p, err := NewSitePage("", "Chính sách đổi trả", "<p>30 ngày</p>", true)
	require.NoError(t, err)
	assert.Equal(t, "chinh-sach-doi-tra", p.Slug)

	require.NoError(t, p.Update("returns", "Returns", "", false))
	assert.Equal(t, "returns", p.Slug)
	assert.False(t, p.IsPublished)

	assert.Error(t, p.Update("x", "", "", true))
}
