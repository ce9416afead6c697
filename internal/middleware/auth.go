package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CheckAuth validates the bearer token and injects id/username/role claims
// into the context.
func CheckAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token, authorization denied"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is not valid"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is not valid"})
			return
		}

		userID, _ := claims["id"].(string)
		if strings.TrimSpace(userID) == "" {
			log.Println("[AUTH] [ERROR] id claim missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is not valid"})
			return
		}

		role, _ := claims["role"].(string)
		username, _ := claims["username"].(string)

		c.Set("claims", claims)
		c.Set("userId", userID)
		c.Set("username", username)
		c.Set("role", role)
		c.Next()
	}
}

// CheckAdmin allows both back-office roles through, matching the original
// admin check (Admin or Manager). Must run after CheckAuth.
func CheckAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		name, _ := role.(string)
		if name != "Admin" && name != "Manager" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied, admin privileges required"})
			return
		}
		c.Next()
	}
}
