package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// cookieWriter sets the two auth cookies with their independent lifetimes:
// the access cookie lives window*5 minutes, the refresh cookie window*7
// days, so the refresh cookie always far outlives the access cookie.
type cookieWriter struct {
	window int
}

func (w cookieWriter) accessMaxAge() int {
	return int((time.Duration(w.window) * 5 * time.Minute).Seconds())
}

func (w cookieWriter) refreshMaxAge() int {
	return int((time.Duration(w.window) * 7 * 24 * time.Hour).Seconds())
}

func (w cookieWriter) set(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(accessTokenCookie, accessToken, w.accessMaxAge(), "/", "", true, true)
	if refreshToken != "" {
		c.SetCookie(refreshTokenCookie, refreshToken, w.refreshMaxAge(), "/", "", true, true)
	}
}

func (w cookieWriter) clear(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", true, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", true, true)
}
