package api

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"growyourdough/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/patrickmn/go-cache"
)

const (
	userIDKey      = "userID"
	userEmailKey   = "userEmail"
	userDisplayKey = "userDisplayName"
)

// IdentityClaims is the subset of the identity token the api relies on
type IdentityClaims struct {
	Subject   string  `json:"sub"`
	Email     *string `json:"email"`
	Name      string  `json:"name"`
	Issuer    string  `json:"iss"`
	ExpiresAt int64   `json:"exp"`
	IssuedAt  int64   `json:"iat"`
}

type jwksResponse struct {
	Keys []jwkKey `json:"keys"`
}

type jwkKey struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	Kid string `json:"kid"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

var (
	// keyed by jwksURL + "|" + kid
	jwksKeyCache = cache.New(12*time.Hour, time.Hour)
	jwksClient   = &http.Client{Timeout: 5 * time.Second}
)

func base64URLDecodeToBigInt(s string) (*big.Int, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

func getES256PublicKey(jwksURL string, kid string) (*ecdsa.PublicKey, error) {
	cacheKey := jwksURL + "|" + kid
	if k, ok := jwksKeyCache.Get(cacheKey); ok {
		return k.(*ecdsa.PublicKey), nil
	}

	resp, err := jwksClient.Get(jwksURL) // #nosec G107 - issuer derived url
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch JWKS: http %d", resp.StatusCode)
	}

	var jwks jwksResponse
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	for _, k := range jwks.Keys {
		if k.Kid != kid {
			continue
		}
		if k.Kty != "EC" || k.Crv != "P-256" {
			return nil, fmt.Errorf("unsupported JWK key type/curve: kty=%s crv=%s", k.Kty, k.Crv)
		}
		x, err := base64URLDecodeToBigInt(k.X)
		if err != nil {
			return nil, fmt.Errorf("failed to decode JWK x: %w", err)
		}
		y, err := base64URLDecodeToBigInt(k.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to decode JWK y: %w", err)
		}
		pub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}
		jwksKeyCache.SetDefault(cacheKey, pub)

		return pub, nil
	}

	return nil, fmt.Errorf("kid not found in JWKS: %s", kid)
}

func decodeUnverified(jwtStr string) (map[string]any, *IdentityClaims, error) {
	parts := strings.Split(jwtStr, ".")
	if len(parts) < 2 {
		return nil, nil, fmt.Errorf("invalid JWT format")
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT header: %w", err)
	}
	var header map[string]any
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JWT header: %w", err)
	}

	claimsBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode JWT claims: %w", err)
	}
	claims := &IdentityClaims{}
	if err := json.Unmarshal(claimsBytes, claims); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JWT claims: %w", err)
	}

	return header, claims, nil
}

// parseIdentityJWT verifies an HS256 token against the shared secret, falling
// back to ES256 with the issuer's published keys
func parseIdentityJWT(jwtStr string, decodeToken string, now time.Time) (*IdentityClaims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if decodeToken == "" {
			return nil, errors.New("no shared secret configured")
		}
		return []byte(decodeToken), nil
	})

	if err != nil {
		header, unverified, decodeErr := decodeUnverified(jwtStr)
		if decodeErr != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
		alg, _ := header["alg"].(string)
		if alg != "ES256" {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
		kid, _ := header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("failed to parse token: missing kid")
		}
		if unverified.Issuer == "" {
			return nil, fmt.Errorf("failed to parse token: missing iss")
		}

		jwksURL := strings.TrimRight(unverified.Issuer, "/") + "/.well-known/jwks.json"
		token, err = jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return getES256PublicKey(jwksURL, kid)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to parse token: %w", err)
		}
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse claims")
	}
	claimsJSON, err := json.Marshal(mapClaims)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claims: %w", err)
	}
	claims := &IdentityClaims{}
	if err := json.Unmarshal(claimsJSON, claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claims: %w", err)
	}

	if claims.ExpiresAt == 0 || now.Unix() > claims.ExpiresAt {
		return nil, fmt.Errorf("jwt is expired")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("jwt is missing sub")
	}

	return claims, nil
}

func (m ApiHandler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	jwtStr, found := strings.CutPrefix(header, "Bearer ")
	if !found || jwtStr == "" {
		returnErrorJsonCode(errors.New("missing bearer token"), c, 401)
		return
	}

	claims, err := parseIdentityJWT(jwtStr, m.JwtDecodeToken, time.Now().UTC())
	if err != nil {
		returnErrorJsonCode(err, c, 401)
		return
	}

	c.Set(userIDKey, claims.Subject)
	if claims.Email != nil {
		c.Set(userEmailKey, *claims.Email)
	}
	c.Set(userDisplayKey, claims.Name)

	ctx := c.Request.Context()
	log := logger.FromContext(ctx).With("userID", claims.Subject)
	c.Request = c.Request.WithContext(logger.WithLogger(ctx, log))

	c.Next()
}
