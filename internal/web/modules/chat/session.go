package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie names the cookie that keys a browser's conversation
const SessionCookie = "ta_session"

// sessionID returns the browser's session id, issuing a new session cookie when
// none (or a malformed one) was sent. The cookie has no max age, so the
// conversation ends with the browser session
func sessionID(c *gin.Context) string {
	if id, err := c.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	return id
}
