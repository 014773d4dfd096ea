package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

// Authenticator exchanges operator credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*vendoractivo.LoginResponse, error)
}

// LoginResult is what the operator sees after a successful login.
type LoginResult struct {
	Session *Session `json:"session"`
	Landing string   `json:"landing"`
}

// LoginService issues and clears operator sessions.
type LoginService struct {
	auth  Authenticator
	store Store
}

func NewLoginService(auth Authenticator, store Store) *LoginService {
	return &LoginService{auth: auth, store: store}
}

// Login authenticates against the backend and stores the issued token.
func (s *LoginService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log.Debug().Str("email", email).Msg("Login attempt")

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		var reqErr *vendoractivo.RequestError
		if errors.As(err, &reqErr) && (reqErr.StatusCode == http.StatusUnauthorized || reqErr.StatusCode == http.StatusBadRequest) {
			log.Warn().Str("email", email).Int("status", reqErr.StatusCode).Msg("Login rejected")
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("email", email).Msg("Login request failed")
		return nil, err
	}
	if !resp.Success || resp.Token == "" {
		log.Warn().Str("email", email).Msg("Login rejected")
		return nil, ErrInvalidCredentials
	}

	sess := &Session{
		Token:  resp.Token,
		UserID: resp.User.ID,
		Name:   resp.User.Name,
		Email:  resp.User.Email,
		Role:   resp.User.Role,
	}
	if claims, err := ParseClaims(resp.Token); err == nil {
		if claims.ExpiresAt != nil {
			sess.ExpiresAt = claims.ExpiresAt.Time.UTC()
		}
		if sess.UserID == "" {
			sess.UserID = claims.UserID
		}
	} else {
		log.Debug().Err(err).Msg("Token is opaque, no expiry known")
	}
	if sess.Email == "" {
		sess.Email = email
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	log.Info().Str("email", sess.Email).Str("role", string(sess.Role)).Msg("Login successful")
	return &LoginResult{Session: sess, Landing: LandingPath(sess)}, nil
}

// Logout clears the stored session.
func (s *LoginService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// LandingPath is where an operator goes after login: admins and vendors to
// their dashboard, everyone else to the storefront.
func LandingPath(s *Session) string {
	switch s.Role {
	case vendoractivo.RoleAdmin, vendoractivo.RoleVendor:
		return "/dashboard/" + s.UserID
	default:
		return "/"
	}
}
