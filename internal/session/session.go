// Package session moves access tokens between the server and the client.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/Hamzabaloch08/taskApp-backend/internal/config"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie holding the access token.
const CookieName = "token"

// Transport extracts tokens from requests and hands new ones to clients.
type Transport interface {
	// Token returns the raw token carried by the request, if any.
	Token(c *gin.Context) (string, bool)
	// Issue delivers token to the client. A non-nil return value is added to
	// the response body.
	Issue(c *gin.Context, token string, expiresAt time.Time) any
	// Clear tells the client to drop its token.
	Clear(c *gin.Context)
}

// New returns the transport configured for the deployment.
func New(cfg *config.Config) Transport {
	if cfg.TokenTransport == config.TransportBearer {
		return BearerTransport{}
	}
	return NewCookieTransport(cfg.JWTTTL, cfg.CookieCrossSite)
}

type CookieTransport struct {
	maxAge   time.Duration
	secure   bool
	sameSite http.SameSite
}

// NewCookieTransport builds a cookie transport. Cross-site deployments need
// Secure and SameSite=None, everything else gets Lax.
func NewCookieTransport(maxAge time.Duration, crossSite bool) *CookieTransport {
	t := &CookieTransport{maxAge: maxAge, sameSite: http.SameSiteLaxMode}
	if crossSite {
		t.secure = true
		t.sameSite = http.SameSiteNoneMode
	}
	return t
}

func (t *CookieTransport) Token(c *gin.Context) (string, bool) {
	v, err := c.Cookie(CookieName)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (t *CookieTransport) Issue(c *gin.Context, token string, _ time.Time) any {
	http.SetCookie(c.Writer, t.cookie(token, int(t.maxAge/time.Second)))
	return nil
}

func (t *CookieTransport) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, t.cookie("", -1))
}

func (t *CookieTransport) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: t.sameSite,
	}
}

// BearerTransport reads "Authorization: Bearer <token>" and returns new
// tokens in the response body. Logout is up to the client.
type BearerTransport struct{}

// BearerToken is the body payload returned on login.
type BearerToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (BearerTransport) Token(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(h[7:])
	return token, token != ""
}

func (BearerTransport) Issue(_ *gin.Context, token string, expiresAt time.Time) any {
	return BearerToken{Token: token, ExpiresAt: expiresAt}
}

func (BearerTransport) Clear(*gin.Context) {}
