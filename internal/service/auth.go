package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"staffchat/internal/logger"
	"staffchat/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier checks a username/password pair. Implementations can be
// swapped for a real identity provider without touching call sites.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (string, bool)
}

// StaticVerifier holds an in-memory credential table. Entries that look like
// bcrypt hashes are compared with bcrypt; anything else is treated as a
// plaintext demo password and compared constant-time.
type StaticVerifier struct {
	users map[string]string
}

// demo users; overridden by auth.users in the config file.
var defaultUsers = map[string]string{
	"admin":  "secret",
	"demo":   "demo",
	"ramsha": "pass123",
}

func NewStaticVerifier(users map[string]string) *StaticVerifier {
	if len(users) == 0 {
		users = defaultUsers
	}
	return &StaticVerifier{users: users}
}

func (v *StaticVerifier) Verify(_ context.Context, username, password string) (string, bool) {
	stored, ok := v.users[username]
	if !ok {
		return "", false
	}
	if strings.HasPrefix(stored, "$2") {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) != nil {
			return "", false
		}
		return username, true
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return "", false
	}
	return username, true
}

// AuthService signs users in: verify credentials, open a fresh conversation,
// issue a bearer token.
type AuthService struct {
	verifier CredentialVerifier
	convs    *ConversationStore
	secret   []byte
}

func NewAuthService(verifier CredentialVerifier, convs *ConversationStore, secret []byte) *AuthService {
	return &AuthService{verifier: verifier, convs: convs, secret: secret}
}

func (s *AuthService) SignIn(ctx context.Context, username, password string) (*model.SignInResponse, error) {
	uid, ok := s.verifier.Verify(ctx, username, password)
	if !ok {
		logger.Warn("signin failed", "username", username)
		return nil, ErrNotFound
	}

	cid, err := s.convs.Create(uid)
	if err != nil {
		return nil, err
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uid,
		"exp": time.Now().Add(7 * 24 * time.Hour).Unix(),
	}).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	logger.Info("signin ok", "user", uid, "conversation", cid)
	return &model.SignInResponse{ID: uid, Username: uid, ConversationID: cid, Token: token}, nil
}
