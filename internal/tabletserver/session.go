package tabletserver

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	queryv1 "github.com/tabletdb/tabletd/api/queryv1"
	apperrors "github.com/tabletdb/tabletd/internal/platform/errors"
	"github.com/tabletdb/tabletd/internal/platform/id"
)

const sessionKeySize = 32

// sessionClaims binds a session to the tablet target it was issued for.
type sessionClaims struct {
	jwt.RegisteredClaims
	Keyspace string `json:"keyspace"`
	Shard    string `json:"shard"`
}

// SessionSigner issues and verifies session ids. A session id is an
// HMAC-signed token naming the keyspace and shard it was issued for; any
// tablet restart rotates the key, so stale session ids fail verification
// instead of silently addressing the wrong tablet.
type SessionSigner struct {
	key    []byte
	target queryv1.Target
	clock  func() time.Time
}

// NewSessionSigner creates a signer for the given target. When key is empty
// a random per-process key is generated.
func NewSessionSigner(key []byte, target queryv1.Target) (*SessionSigner, error) {
	if len(key) == 0 {
		key = make([]byte, sessionKeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
	}
	return &SessionSigner{
		key:    key,
		target: target,
		clock:  time.Now,
	}, nil
}

// Issue returns a new session id bound to the signer's target.
func (s *SessionSigner) Issue() (string, error) {
	jti, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	now := s.clock().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       jti,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Keyspace: s.target.Keyspace,
		Shard:    s.target.Shard,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session id: %w", err)
	}
	return token, nil
}

// Verify checks that sessionID was issued by this tablet for its current
// target.
func (s *SessionSigner) Verify(sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return apperrors.New(apperrors.CodeSessionRequired, "session id is required")
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(sessionID, &claims, func(token *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeSessionInvalid, "session id is not valid for this tablet", err)
	}

	if claims.Keyspace != s.target.Keyspace || claims.Shard != s.target.Shard {
		return apperrors.WithMetadata(apperrors.CodeSessionWrongTarget, "session targets another keyspace or shard", map[string]string{
			"session_keyspace": claims.Keyspace,
			"session_shard":    claims.Shard,
			"tablet_keyspace":  s.target.Keyspace,
			"tablet_shard":     s.target.Shard,
		})
	}
	return nil
}
