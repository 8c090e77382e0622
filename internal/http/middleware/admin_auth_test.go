package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signStaffToken(t *testing.T, secret, subject string) string {
	t.Helper()
	claims := StaffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAdminJWT(t *testing.T) {
	const secret = "gym_secret"

	var gotStaff string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if staff, ok := StaffFromContext(r.Context()); ok {
			gotStaff = staff.Subject
		}
		w.WriteHeader(http.StatusOK)
	})
	guarded := AdminJWT(secret)(next)

	t.Run("valid token reaches handler with staff claims", func(t *testing.T) {
		gotStaff = ""
		req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
		req.Header.Set("Authorization", "Bearer "+signStaffToken(t, secret, "front-desk"))
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotStaff != "front-desk" {
			t.Fatalf("staff subject = %q, want front-desk", gotStaff)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
		req.Header.Set("Authorization", "Basic abc123")
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("token signed with wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
		req.Header.Set("Authorization", "Bearer "+signStaffToken(t, "other_secret", "front-desk"))
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		claims := StaffClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "front-desk",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("empty secret closes the surface", func(t *testing.T) {
		closed := AdminJWT("")(next)
		req := httptest.NewRequest(http.MethodGet, "/admin/conversations", nil)
		req.Header.Set("Authorization", "Bearer "+signStaffToken(t, secret, "front-desk"))
		w := httptest.NewRecorder()
		closed.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestStaffFromContextAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := StaffFromContext(req.Context()); ok {
		t.Fatal("expected no staff claims on a bare context")
	}
}
