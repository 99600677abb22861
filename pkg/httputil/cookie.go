package httputil

import (
	"errors"
	"net/http"
	"strings"
)

// AuthCookieName lets browser websocket clients, which cannot set headers
// on the upgrade request, present a service token.
const AuthCookieName = "bot_token"

// GetTokenFromCookie extracts the JWT token from the auth cookie
func GetTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return "", errors.New("auth cookie not found")
	}

	if cookie.Value == "" {
		return "", errors.New("auth cookie is empty")
	}

	return cookie.Value, nil
}

func GetTokenFromRequest(r *http.Request) (string, error) {
	// Support "Bearer <token>" format
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token), nil
		}
		return authHeader, nil
	}

	token, err := GetTokenFromCookie(r)
	if err == nil && token != "" {
		return token, nil
	}

	return "", errors.New("no auth token found in header or cookie")
}
