package controllers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListCacheKeyDeterministic(t *testing.T) {
	a := url.Values{}
	a.Set("propertyId", "64f1b2a3c4d5e6f708192a3b")
	a.Set("sort", "name")

	b := url.Values{}
	b.Set("sort", "name")
	b.Set("propertyId", "64f1b2a3c4d5e6f708192a3b")

	assert.Equal(t, listCacheKey(roomCachePrefix, a), listCacheKey(roomCachePrefix, b))
}

func TestListCacheKeyVariesByQueryAndPrefix(t *testing.T) {
	empty := url.Values{}
	withFilter := url.Values{}
	withFilter.Set("propertyId", "64f1b2a3c4d5e6f708192a3b")

	assert.NotEqual(t, listCacheKey(roomCachePrefix, empty), listCacheKey(roomCachePrefix, withFilter))
	assert.NotEqual(t, listCacheKey(roomCachePrefix, empty), listCacheKey(propertyCachePrefix, empty))
}
