package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/GTDGit/vendor_console/internal/session"
	"github.com/GTDGit/vendor_console/internal/utils"
)

// OperatorAuth guards the local console with HTTP Basic credentials checked
// against a bcrypt hash. An empty hash disables the check and every request
// runs as operator.
type OperatorAuth struct {
	operator     string
	passwordHash []byte
}

// NewOperatorAuth constructs a new OperatorAuth.
func NewOperatorAuth(operator, passwordHash string) *OperatorAuth {
	return &OperatorAuth{operator: operator, passwordHash: []byte(passwordHash)}
}

// Enabled reports whether Basic credentials are required.
func (m *OperatorAuth) Enabled() bool {
	return len(m.passwordHash) > 0
}

// Handle returns a Gin middleware function that enforces operator credentials.
func (m *OperatorAuth) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Set("operator", m.operator)
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != m.operator || bcrypt.CompareHashAndPassword(m.passwordHash, []byte(pass)) != nil {
			c.Header("WWW-Authenticate", `Basic realm="vendor-console"`)
			utils.Error(c, 401, utils.ErrUnauthorized.Error(), "Invalid operator credentials")
			c.Abort()
			return
		}

		c.Set("operator", user)
		c.Next()
	}
}

// RequireSession rejects requests while no live backend session is stored.
// The session's user is exposed as user_id and email in the context.
func RequireSession(creds *session.Credentials) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := creds.Current(c.Request.Context())
		if err != nil {
			utils.Error(c, 401, session.ErrNoToken.Error(), "Log in to the vendor API first")
			c.Abort()
			return
		}

		c.Set("user_id", s.UserID)
		c.Set("email", s.Email)
		c.Next()
	}
}
