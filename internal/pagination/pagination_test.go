package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefaults(t *testing.T) {
	p := Parse("", "")
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Skip)

	p = Parse("garbage", "-5")
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Skip)
}

func TestParseClampsLimit(t *testing.T) {
	p := Parse("500", "40")
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 40, p.Skip)
}

func TestResolveFullPage(t *testing.T) {
	page := Resolve(Params{Limit: 20, Skip: 0}, 20, 53)
	assert.Equal(t, int64(53), page.Total)
	assert.True(t, page.HasMore)
	assert.Equal(t, 20, page.NextSkip)
}

func TestResolveShortPageAdvancesByReturnedCount(t *testing.T) {
	// Backend handed back 13 items for a 20-item request: skip advances
	// by 13, not 20.
	page := Resolve(Params{Limit: 20, Skip: 40}, 13, 53)
	assert.False(t, page.HasMore)
	assert.Equal(t, 53, page.NextSkip)
}

func TestResolveEmptyPage(t *testing.T) {
	page := Resolve(Params{Limit: 20, Skip: 0}, 0, 0)
	assert.False(t, page.HasMore)
	assert.Equal(t, 0, page.NextSkip)
}
