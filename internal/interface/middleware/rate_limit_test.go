package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit_NoRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, do(r, "/", nil).Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	var keys []string
	r := gin.New()
	r.GET("/products/:id", func(c *gin.Context) {
		c.Set(CtxRealIPKey, "10.0.0.7")
		keys = append(keys, KeyByIP()(c), KeyByIPAndPath()(c), KeyByUserID()(c))
		c.Set(CtxUserIDKey, "user-1")
		keys = append(keys, KeyByUserID()(c))
	})
	do(r, "/products/abc", nil)

	assert.Equal(t, []string{
		"rl:ip:10.0.0.7",
		"rl:path:/products/:id:ip:10.0.0.7",
		"rl:user:anon:ip:10.0.0.7",
		"rl:user:user-1",
	}, keys)
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	c.Set(CtxRealIPKey, "192.168.1.10")
	assert.True(t, allow(c))
	c.Set(CtxRealIPKey, "8.8.8.8")
	assert.False(t, allow(c))
}
