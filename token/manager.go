package token

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mhallsworth/sessiongate/session"
)

// SigningMethod selects the token signature algorithm.
type SigningMethod string

const (
	// MethodHS256 signs with a shared secret. Key must be at least 32 bytes.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 keypair, raw or PEM-encoded.
	MethodEd25519 SigningMethod = "ed25519"
)

// ErrTokenInvalid is returned by [Manager.Parse] for any token that fails
// signature or shape checks. Callers treat it as "no session".
var ErrTokenInvalid = errors.New("token: invalid session token")

// Config holds the signing material for session tokens.
type Config struct {
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte // ed25519 only
	Issuer        string
}

// Manager signs session records into compact tamper-evident tokens and
// recovers records from them. It is the transport-level collaborator the
// guard relies on: the guard never sees the wire form, the transport never
// judges validity.
type Manager struct {
	config Config
}

type recordClaims struct {
	Persistent bool `json:"per,omitempty"`
	jwt.RegisteredClaims
}

// NewManager validates the signing configuration and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) < 32 {
			return nil, errors.New("token: hs256 requires a key of at least 32 bytes")
		}
	case MethodEd25519:
		if _, err := edPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if _, err := edPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("token: unsupported signing method")
	}
	return &Manager{config: cfg}, nil
}

// Sign serializes rec into a signed token. The record's own timestamps become
// the token's iat and exp claims; Sign adds a fresh jti so renewals of the
// same login remain distinguishable in transport logs.
func (m *Manager) Sign(rec *session.Record) (string, error) {
	if rec == nil || rec.Username == "" {
		return "", errors.New("token: record carries no username")
	}

	claims := recordClaims{
		Persistent: rec.Persistent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.Username,
			IssuedAt:  jwt.NewNumericDate(rec.IssuedAt.UTC()),
			ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt.UTC()),
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
		},
	}

	tok := jwt.NewWithClaims(m.method(), claims)

	key, err := m.signKey()
	if err != nil {
		return "", err
	}
	return tok.SignedString(key)
}

// Parse verifies the token signature and recovers the session record. Parse
// deliberately skips time-based claim validation: judging expiry and
// staleness belongs to the guard, which needs the record even when it is
// already past its lifetime. When an issuer is configured, tokens carrying
// any other issuer are rejected.
func (m *Manager) Parse(raw string) (*session.Record, error) {
	// WithoutClaimsValidation disables the whole claims validator, so the
	// issuer is compared by hand below instead of via WithIssuer.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	tok, err := parser.ParseWithClaims(raw, &recordClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method().Alg() {
			return nil, fmt.Errorf("token: unexpected algorithm %s", t.Method.Alg())
		}
		return m.verifyKey()
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := tok.Claims.(*recordClaims)
	if !ok || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	if m.config.Issuer != "" && claims.Issuer != m.config.Issuer {
		return nil, ErrTokenInvalid
	}

	rec := &session.Record{
		Username:   claims.Subject,
		Persistent: claims.Persistent,
	}
	if claims.IssuedAt != nil {
		rec.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		rec.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return rec, nil
}

func (m *Manager) method() jwt.SigningMethod {
	if m.config.SigningMethod == MethodHS256 {
		return jwt.SigningMethodHS256
	}
	return jwt.SigningMethodEdDSA
}

func (m *Manager) signKey() (interface{}, error) {
	if m.config.SigningMethod == MethodHS256 {
		return m.config.PrivateKey, nil
	}
	return edPrivateKey(m.config.PrivateKey)
}

func (m *Manager) verifyKey() (interface{}, error) {
	if m.config.SigningMethod == MethodHS256 {
		return m.config.PrivateKey, nil
	}
	return edPublicKey(m.config.PublicKey)
}

func edPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("token: invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("token: invalid ed25519 private key type")
	}
	return edKey, nil
}

func edPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("token: invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("token: invalid ed25519 public key type")
	}
	return edKey, nil
}
