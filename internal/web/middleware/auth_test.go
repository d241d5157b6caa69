package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const secret = "unit-test-secret"

func mint(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, issuer, header string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()

	var (
		gotID uuid.UUID
		gotOK bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	BearerAuth(secret, issuer)(next).ServeHTTP(rec, req)
	return rec, gotID, gotOK
}

func TestBearerAuth_ValidToken(t *testing.T) {
	subject := uuid.New()
	token := mint(t, jwt.MapClaims{
		"sub": subject.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}, secret)

	rec, gotID, gotOK := runAuth(t, "", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !gotOK || gotID != subject {
		t.Errorf("subject = %v (ok=%v), want %v", gotID, gotOK, subject)
	}
}

func TestBearerAuth_Rejections(t *testing.T) {
	subject := uuid.NewString()
	expired := mint(t, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, secret)
	wrongKey := mint(t, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}, "other-secret")
	noSubject := mint(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}, secret)
	badSubject := mint(t, jwt.MapClaims{
		"sub": "practitioner-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, secret)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no subject", "Bearer " + noSubject},
		{"non-uuid subject", "Bearer " + badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, gotOK := runAuth(t, "", tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if gotOK {
				t.Error("handler should not have seen a subject")
			}

			var body struct {
				Error string `json:"error"`
				Code  string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("401 body is not valid JSON: %v: %s", err, rec.Body.String())
			}
			if body.Code != "AUTH_REQUIRED" {
				t.Errorf("code = %q, want AUTH_REQUIRED", body.Code)
			}
		})
	}
}

func TestBearerAuth_IssuerCheck(t *testing.T) {
	subject := uuid.NewString()
	right := mint(t, jwt.MapClaims{
		"sub": subject,
		"iss": "dentalops",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, secret)
	wrong := mint(t, jwt.MapClaims{
		"sub": subject,
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, secret)

	if rec, _, _ := runAuth(t, "dentalops", "Bearer "+right); rec.Code != http.StatusOK {
		t.Errorf("matching issuer: status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec, _, _ := runAuth(t, "dentalops", "Bearer "+wrong); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong issuer: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
