package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/config"
)

const sessionName = "orderbot_session"

// Auth gates the dashboard API behind a shared access key exchanged
// for a session cookie.
type Auth struct {
	store     *sessions.CookieStore
	accessKey string
	logger    *zap.Logger
}

// NewAuth creates session-backed auth.
func NewAuth(cfg config.WebConfig, logger *zap.Logger) *Auth {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Auth{store: store, accessKey: cfg.AdminAccessKey, logger: logger}
}

type loginRequest struct {
	AccessKey string `json:"access_key" binding:"required"`
}

// Login handles POST /login.
func (a *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "access_key is required"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AccessKey), []byte(a.accessKey)) != 1 {
		a.logger.Warn("Dashboard login rejected", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid access key"})
		return
	}

	session, _ := a.store.Get(c.Request, sessionName)
	session.Values["admin"] = true
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// Logout handles POST /logout.
func (a *Auth) Logout(c *gin.Context) {
	session, _ := a.store.Get(c.Request, sessionName)
	session.Options.MaxAge = -1
	_ = session.Save(c.Request, c.Writer)
	c.JSON(http.StatusOK, Response{Success: true})
}

// Required rejects requests without an admin session.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := a.store.Get(c.Request, sessionName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
			return
		}
		if admin, ok := session.Values["admin"].(bool); !ok || !admin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "authentication required"})
			return
		}
		c.Next()
	}
}
