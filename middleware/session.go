package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/rscollections/storefront/models"
)

const (
	sessionCookie = "storefront_session"
	sessionKey    = "session"
)

// SessionManager mints and verifies the signed session cookie. Guests get a
// session lazily on first request; login swaps the cookie for one carrying
// the customer identity while keeping the same session ID, so state written
// as a guest survives the promotion.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Middleware resolves the caller's session from the cookie, minting a guest
// session when the cookie is missing or invalid.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := m.parse(c)
		if !ok {
			sess = models.Session{ID: uuid.NewString(), Role: models.RoleGuest}
			m.setCookie(c, sess)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// Promote re-issues the cookie for the same session ID with the verified
// identity attached.
func (m *SessionManager) Promote(c *gin.Context, email, role string) models.Session {
	sess := FromContext(c)
	sess.Email = email
	sess.Role = role
	m.setCookie(c, sess)
	c.Set(sessionKey, sess)
	return sess
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", m.secure, true)
}

// RequireCustomer rejects guests with the login-required contract the client
// keys its login modal off.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := FromContext(c)
		if !sess.Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":          "Please log in to continue",
				"login_required": true,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin gates the admin surface.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := FromContext(c)
		if sess.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// FromContext returns the session placed by Middleware. Handlers outside the
// session chain get a zero guest session.
func FromContext(c *gin.Context) models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(models.Session); ok {
			return sess
		}
	}
	return models.Session{Role: models.RoleGuest}
}

func (m *SessionManager) parse(c *gin.Context) (models.Session, bool) {
	raw, err := c.Cookie(sessionCookie)
	if err != nil || raw == "" {
		return models.Session{}, false
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Session{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Session{}, false
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return models.Session{}, false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleGuest
	}
	return models.Session{ID: sid, Email: email, Role: role}, true
}

func (m *SessionManager) setCookie(c *gin.Context, sess models.Session) {
	claims := jwt.MapClaims{
		"sid":   sess.ID,
		"email": sess.Email,
		"role":  sess.Role,
		"exp":   time.Now().Add(m.ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return
	}
	c.SetCookie(sessionCookie, signed, int(m.ttl.Seconds()), "/", "", m.secure, true)
}
