package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAuth(keys []string, path, authorization string) *httptest.ResponseRecorder {
	handler := BearerAuthMiddleware(keys)(okHandler())
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		if rr := serveAuth(keys, "/v1/views", ""); rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	keys := []string{"key1", "key2"}
	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/v1/views", "", http.StatusUnauthorized},
		{"basic scheme", "/v1/views", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"empty token", "/v1/views", "Bearer ", http.StatusUnauthorized},
		{"wrong key", "/v1/views", "Bearer wrong-key", http.StatusUnauthorized},
		{"prefix of key", "/v1/views", "Bearer key", http.StatusUnauthorized},
		{"first key", "/v1/views", "Bearer key1", http.StatusOK},
		{"second key", "/v1/views/places/records", "Bearer key2", http.StatusOK},
		{"lowercase scheme", "/v1/views", "bearer key1", http.StatusOK},
		{"health exempt", "/health", "", http.StatusOK},
		{"metrics exempt", "/metrics", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveAuth(keys, tt.path, tt.header)
			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorCodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, ErrorCodeUnauthorized)
			}
		})
	}
}

func TestAuthMiddleware_ChallengeHeader(t *testing.T) {
	rr := serveAuth([]string{"secret"}, "/v1/views", "")
	if got := rr.Header().Get("WWW-Authenticate"); got == "" {
		t.Error("missing WWW-Authenticate header")
	}
}
