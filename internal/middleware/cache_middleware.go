package middleware

import (
	"github.com/Abdisalan-Osman/evently/internal/cache"
	"github.com/gin-gonic/gin"
)

func CacheMiddleware(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("cache", store)
		c.Next()
	}
}

func GetCacheStore(c *gin.Context) *cache.Store {
	store, exists := c.Get("cache")
	if !exists {
		return nil
	}
	return store.(*cache.Store)
}
