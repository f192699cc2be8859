package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marketsquare/account-system/internal/core/ports"
)

func TestHTTPClient_SignIn_Success(t *testing.T) {
	var gotOrigin string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/sign-in/email" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotOrigin = r.Header.Get("Origin")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Add("Set-Cookie", "account_session=tok; Path=/; HttpOnly")
		w.Header().Add("Set-Cookie", "csrf=abc; Path=/")
		fmt.Fprint(w, `{"user":{"uuid":"u1","email":"jane@example.com"}}`)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, nil)
	result, err := client.SignIn(context.Background(), ports.ProviderSignIn{
		Email:    "jane@example.com",
		Password: "pw",
		Origin:   "http://localhost:4200",
	})
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	if gotOrigin != "http://localhost:4200" {
		t.Fatalf("Origin not forwarded, got %q", gotOrigin)
	}
	if gotBody["email"] != "jane@example.com" {
		t.Fatalf("unexpected payload: %v", gotBody)
	}
	if result.User == nil || result.User.UUID != "u1" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	// Every Set-Cookie header survives, in order and verbatim.
	if len(result.SetCookie) != 2 || result.SetCookie[0] != "account_session=tok; Path=/; HttpOnly" {
		t.Fatalf("cookies not captured verbatim: %v", result.SetCookie)
	}
}

func TestHTTPClient_SignIn_ErrorBody(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"error field", `{"error":"Origin not trusted"}`, "Origin not trusted"},
		{"empty body", ``, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			client := NewHTTPClient(srv.URL, nil)
			_, err := client.SignIn(context.Background(), ports.ProviderSignIn{Email: "a@b.com", Password: "x"})

			var pe *ports.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if pe.StatusCode != http.StatusUnauthorized || pe.Message != tc.want {
				t.Fatalf("unexpected provider error: %+v", pe)
			}
		})
	}
}
