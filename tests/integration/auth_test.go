//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	resp := doPost(t, "/api/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "integration-pass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", resp.StatusCode)
	}
	u := decodeData[userResponse](t, resp)
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q", u.Email)
	}
	if u.ID == "" {
		t.Error("empty user id")
	}

	resp = doPost(t, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "integration-pass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}
	sess := decodeData[sessionResponse](t, resp)
	if sess.Token == "" {
		t.Error("empty token")
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	resp := doPost(t, "/api/auth/register", "", map[string]string{
		"email": "  Bob@Example.COM ", "password": "integration-pass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", resp.StatusCode)
	}
	u := decodeData[userResponse](t, resp)
	if u.Email != "bob@example.com" {
		t.Errorf("email = %q, want bob@example.com", u.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	creds := map[string]string{"email": "carol@example.com", "password": "integration-pass"}

	resp := doPost(t, "/api/auth/register", "", creds)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doPost(t, "/api/auth/register", "", creds)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: status %d, want 409", resp.StatusCode)
	}
	if msg := decodeError(t, resp); msg == "" {
		t.Error("empty error message")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	registerUser(t, "dave@example.com")

	resp := doPost(t, "/api/auth/login", "", map[string]string{
		"email": "dave@example.com", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("login: status %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutInvalidatesSession(t *testing.T) {
	token := registerUser(t, "erin@example.com")

	resp := doPost(t, "/api/auth/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doGet(t, "/api/cart", token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("cart after logout: status %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}
