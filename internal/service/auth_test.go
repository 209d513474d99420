package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticVerifierDefaults(t *testing.T) {
	v := NewStaticVerifier(nil)

	uid, ok := v.Verify(context.Background(), "demo", "demo")
	if !ok || uid != "demo" {
		t.Errorf("Verify(demo) = %q, %v", uid, ok)
	}
	if _, ok := v.Verify(context.Background(), "demo", "wrong"); ok {
		t.Error("wrong password accepted")
	}
	if _, ok := v.Verify(context.Background(), "nobody", "demo"); ok {
		t.Error("unknown user accepted")
	}
}

func TestStaticVerifierBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	v := NewStaticVerifier(map[string]string{"ops": string(hash)})

	if _, ok := v.Verify(context.Background(), "ops", "s3cret"); !ok {
		t.Error("bcrypt match rejected")
	}
	if _, ok := v.Verify(context.Background(), "ops", "nope"); ok {
		t.Error("bcrypt mismatch accepted")
	}
}

func TestSignIn(t *testing.T) {
	convs := testStore(t)
	secret := []byte("test-secret")
	auth := NewAuthService(NewStaticVerifier(nil), convs, secret)

	resp, err := auth.SignIn(context.Background(), "ramsha", "pass123")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if resp.Username != "ramsha" || len(resp.ConversationID) != 32 {
		t.Errorf("response = %+v", resp)
	}

	// A conversation is opened for the user as part of sign-in.
	if _, err := convs.Get("ramsha", resp.ConversationID); err != nil {
		t.Errorf("conversation not created: %v", err)
	}

	tok, err := jwt.Parse(resp.Token, func(*jwt.Token) (any, error) { return secret, nil })
	if err != nil || !tok.Valid {
		t.Fatalf("token parse: %v", err)
	}
	sub, _ := tok.Claims.GetSubject()
	if sub != "ramsha" {
		t.Errorf("token subject = %q", sub)
	}
}

func TestSignInRejected(t *testing.T) {
	auth := NewAuthService(NewStaticVerifier(nil), testStore(t), []byte("k"))
	if _, err := auth.SignIn(context.Background(), "admin", "wrong"); err == nil {
		t.Error("bad credentials should error")
	}
}
