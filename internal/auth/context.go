package auth

import "github.com/gin-gonic/gin"

// ContextAuthenticated is the gin context key for the per-request auth flag.
const ContextAuthenticated = "authenticated"

// Context resolves the auth flag for every request from the session
// cookie. The cache policy and the admin/scrape gates both read the
// flag instead of touching the cookie themselves, so the storage
// mechanism stays swappable.
func Context(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		authed := false
		if token, err := c.Cookie(CookieName); err == nil {
			authed = sessions.Valid(c.Request.Context(), token)
		}
		c.Set(ContextAuthenticated, authed)
		c.Next()
	}
}

// IsAuthenticated reports the auth flag resolved by Context.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(ContextAuthenticated)
}
