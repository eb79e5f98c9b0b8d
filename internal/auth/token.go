package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

// ErrNoToken means the provider has nothing to hand out. This is a hard
// precondition failure for every authenticated call; retrying does not help.
var ErrNoToken = errors.New("no auth token available")

// TokenProvider is the boundary to the external auth collaborator. The job
// client holds no long-term token reference; it asks per request and forces
// a refresh exactly once when the server reports unauthorized.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// IssueFunc obtains a fresh token from wherever tokens come from.
type IssueFunc func(ctx context.Context) (string, error)

// CachedProvider caches an issued token until it expires. Tokens that parse
// as JWTs have their exp claim inspected so an expired token is replaced
// before it is ever sent. Refresh is cheap and idempotent, so it is not
// strictly serialized against concurrent Token calls.
type CachedProvider struct {
	mu     sync.Mutex
	issue  IssueFunc
	token  string
	logger *logger_i.Logger
}

func NewCachedProvider(issue IssueFunc) *CachedProvider {
	return &CachedProvider{
		issue:  issue,
		logger: logger_i.NewLogger("TokenProvider"),
	}
}

// NewEnvProvider reads TRADEDOCS_AUTH_TOKEN on demand. Suits deployments
// where an agent rotates the token in the environment.
func NewEnvProvider() *CachedProvider {
	return NewCachedProvider(func(ctx context.Context) (string, error) {
		token := config.AuthToken()
		if token == "" {
			return "", ErrNoToken
		}
		return token, nil
	})
}

func (p *CachedProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" && !Expired(p.token) {
		return p.token, nil
	}
	return p.refreshLocked(ctx)
}

func (p *CachedProvider) Refresh(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger.Debug("Forced token refresh")
	return p.refreshLocked(ctx)
}

func (p *CachedProvider) refreshLocked(ctx context.Context) (string, error) {
	token, err := p.issue(ctx)
	if err != nil {
		p.token = ""
		return "", err
	}
	if token == "" {
		p.token = ""
		return "", ErrNoToken
	}
	if Expired(token) {
		p.logger.Warn("Issued token is already expired")
	}
	p.token = token
	return token, nil
}

// Expired reports whether a token is a JWT whose exp claim has passed.
// Opaque tokens never report expired; the server's 401 drives refresh then.
func Expired(token string) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
