package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"customderiv/internal/domain"
)

type TokenClaims struct {
	Sub      string          `json:"sub"`
	Role     domain.UserRole `json:"role"`
	Exp      int64           `json:"exp"`
	Issuer   string          `json:"iss"`
	Audience string          `json:"aud"`
}

type claimsKey struct{}

func SignJWT(secret string, claims TokenClaims) (string, error) {
	if secret == "" {
		return "", errors.New("empty secret")
	}
	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, _ := json.Marshal(header)
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	headerEnc := base64.RawURLEncoding.EncodeToString(headerJSON)
	payloadEnc := base64.RawURLEncoding.EncodeToString(payloadJSON)
	data := headerEnc + "." + payloadEnc
	return data + "." + hmacSign(secret, data), nil
}

func hmacSign(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func VerifyJWT(secret, token string) (*TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid token")
	}
	expected := hmacSign(secret, parts[0]+"."+parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil, errors.New("invalid signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, err
	}
	var claims TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	if claims.Exp != 0 && time.Now().Unix() > claims.Exp {
		return nil, errors.New("token expired")
	}
	return &claims, nil
}

// AuthOptions configures Authenticate.
type AuthOptions struct {
	Secret string
	// LocalAdmin treats every request as an admin when Secret is empty.
	// Without it an empty secret leaves every request anonymous.
	LocalAdmin bool
	// DeferRejection stores a bad token's error in the context instead of
	// answering 401, for handlers that report failures themselves.
	DeferRejection bool
}

type authErrorKey struct{}

// ErrInvalidToken marks a request whose bearer token was rejected.
var ErrInvalidToken = errors.New("invalid token")

// Authenticate attaches the bearer token claims to the request context.
// Requests without a token continue anonymously; an invalid token is
// rejected unless DeferRejection is set.
func Authenticate(opts AuthOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Secret == "" {
				if opts.LocalAdmin {
					ctx := ContextWithClaims(r.Context(), &TokenClaims{Sub: "local", Role: domain.UserRoleAdmin})
					r = r.WithContext(ctx)
				}
				next.ServeHTTP(w, r)
				return
			}
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			reject := func(msg string) {
				if opts.DeferRejection {
					ctx := context.WithValue(r.Context(), authErrorKey{}, fmt.Errorf("%w: %s", ErrInvalidToken, msg))
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				http.Error(w, msg, http.StatusUnauthorized)
			}
			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				reject("invalid authorization")
				return
			}
			claims, err := VerifyJWT(opts.Secret, strings.TrimSpace(token))
			if err != nil {
				reject("invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// AuthErrorFromContext returns the deferred token error, if any.
func AuthErrorFromContext(ctx context.Context) error {
	if err, ok := ctx.Value(authErrorKey{}).(error); ok {
		return err
	}
	return nil
}

// RequireAdmin rejects requests whose claims do not carry the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			http.Error(w, "missing authorization", http.StatusUnauthorized)
			return
		}
		if !claims.Role.IsAdmin() {
			http.Error(w, "admin only", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ClaimsFromContext(ctx context.Context) *TokenClaims {
	if v, ok := ctx.Value(claimsKey{}).(*TokenClaims); ok {
		return v
	}
	return nil
}

func ContextWithClaims(ctx context.Context, claims *TokenClaims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, claimsKey{}, claims)
}

// IsAdmin reports whether the request context belongs to an admin.
func IsAdmin(ctx context.Context) bool {
	claims := ClaimsFromContext(ctx)
	return claims != nil && claims.Role.IsAdmin()
}
