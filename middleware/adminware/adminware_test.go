package adminware_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"

	"github.com/dkportfolio/go-admin-auth/middleware/adminware"
)

type stubClaims struct {
	id        string
	role      string
	tokenType string
}

func (c stubClaims) AdminID() string    { return c.id }
func (c stubClaims) Role() string       { return c.role }
func (c stubClaims) IsAdminToken() bool { return c.tokenType == "admin" }
func (c stubClaims) IsSuperAdmin() bool { return c.role == "superadmin" }

func stubVerifier(t *testing.T, want string, claims adminware.Claims) adminware.Verifier {
	t.Helper()
	return func(token string) (adminware.Claims, error) {
		if token != want {
			return nil, errors.New("invalid authentication token")
		}
		return claims, nil
	}
}

func runMiddleware(mw router.MiddlewareFunc, ctx router.Context) error {
	handler := mw(func(c router.Context) error {
		return c.Next()
	})
	return handler(ctx)
}

func TestAdminware_BasicHeaderExtraction(t *testing.T) {
	claims := stubClaims{id: "12345", role: "admin", tokenType: "admin"}

	cfg := adminware.Config{
		Verifier: stubVerifier(t, "valid-token", claims),
		ErrorHandler: func(ctx router.Context, err error) error {
			return err
		},
		// it will look for Authorization: Bearer <token>
	}

	middleware := adminware.New(cfg)

	// Test with valid token
	ctx := router.NewMockContext()
	ctx.HeadersM["Authorization"] = "Bearer valid-token"
	ctx.On("GetString", "Authorization", "").Return("Bearer valid-token")
	ctx.On("Locals", "admin", mock.Anything).Return(nil)

	err := runMiddleware(middleware, ctx)
	if err != nil {
		t.Fatalf("unexpected error for valid token: %v", err)
	}
	if !ctx.NextCalled {
		t.Errorf("expected NextCalled to be true, but got false")
	}

	// Test with missing token
	ctx = router.NewMockContext()
	ctx.On("GetString", "Authorization", "").Return("")
	err = runMiddleware(middleware, ctx)
	if err == nil {
		t.Fatal("expected error for missing token, got nil")
	}
	if !strings.Contains(err.Error(), adminware.ErrJWTMissingOrMalformed.Error()) {
		t.Errorf("expected missing token error, got: %v", err)
	}

	// Test with rejected token
	ctx = router.NewMockContext()
	ctx.HeadersM["Authorization"] = "Bearer forged-token"
	ctx.On("GetString", "Authorization", "").Return("Bearer forged-token")
	err = runMiddleware(middleware, ctx)
	if err == nil {
		t.Fatal("expected error for rejected token, got nil")
	}
	if !strings.Contains(err.Error(), "invalid authentication token") {
		t.Errorf("expected verifier rejection, got: %v", err)
	}
}

func TestAdminware_RejectsNonAdminToken(t *testing.T) {
	claims := stubClaims{id: "12345", role: "admin", tokenType: "refresh"}

	cfg := adminware.Config{
		Verifier: stubVerifier(t, "valid-token", claims),
		ErrorHandler: func(ctx router.Context, err error) error {
			return err
		},
	}
	middleware := adminware.New(cfg)

	ctx := router.NewMockContext()
	ctx.HeadersM["Authorization"] = "Bearer valid-token"
	ctx.On("GetString", "Authorization", "").Return("Bearer valid-token")

	err := runMiddleware(middleware, ctx)
	if err == nil {
		t.Fatal("expected error for non admin token, got nil")
	}
	if !strings.Contains(err.Error(), "admin token required") {
		t.Errorf("expected admin token error, got: %v", err)
	}
	if ctx.NextCalled {
		t.Error("expected handler chain to stop")
	}
}

func TestAdminware_RequireSuperAdmin(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		wantErr bool
	}{
		{"regular admin rejected", "admin", true},
		{"superadmin accepted", "superadmin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := stubClaims{id: "12345", role: tt.role, tokenType: "admin"}

			cfg := adminware.Config{
				Verifier:          stubVerifier(t, "valid-token", claims),
				RequireSuperAdmin: true,
				ErrorHandler: func(ctx router.Context, err error) error {
					return err
				},
			}
			middleware := adminware.New(cfg)

			ctx := router.NewMockContext()
			ctx.HeadersM["Authorization"] = "Bearer valid-token"
			ctx.On("GetString", "Authorization", "").Return("Bearer valid-token")
			ctx.On("Locals", "admin", mock.Anything).Return(nil)

			err := runMiddleware(middleware, ctx)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "super admin role required") {
					t.Errorf("expected super admin error, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ctx.NextCalled {
				t.Error("expected NextCalled to be true")
			}
		})
	}
}

func TestAdminware_Filter(t *testing.T) {
	cfg := adminware.Config{
		Verifier: func(token string) (adminware.Claims, error) {
			t.Fatal("verifier must not run for filtered requests")
			return nil, nil
		},
		Filter: func(ctx router.Context) bool {
			return true
		},
	}
	middleware := adminware.New(cfg)

	ctx := router.NewMockContext()
	if err := runMiddleware(middleware, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.NextCalled {
		t.Error("filtered request should pass through")
	}
}

func TestAdminware_CustomTokenLookup(t *testing.T) {
	claims := stubClaims{id: "12345", role: "admin", tokenType: "admin"}

	cfg := adminware.Config{
		Verifier:    stubVerifier(t, "valid-token", claims),
		TokenLookup: "query:token",
		ErrorHandler: func(ctx router.Context, err error) error {
			return err
		},
	}
	middleware := adminware.New(cfg)

	ctx := router.NewMockContext()
	ctx.QueriesM["token"] = "valid-token"
	ctx.On("Locals", "admin", mock.Anything).Return(nil)

	if err := runMiddleware(middleware, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.NextCalled {
		t.Error("expected NextCalled to be true")
	}
}

func TestGetExtractors(t *testing.T) {
	extractors := adminware.GetExtractors("header:Authorization,query:auth,cookie:jwt")
	if len(extractors) != 3 {
		t.Fatalf("expected 3 extractors, got %d", len(extractors))
	}

	extractors = adminware.GetExtractors("")
	if len(extractors) != 0 {
		t.Fatalf("expected no extractors for empty lookup, got %d", len(extractors))
	}
}
