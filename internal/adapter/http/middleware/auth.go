package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/core/authz"
	"taskboard/pkg/apierrors"
)

const authContextKey = "authz"

// AccessClaims is the token payload: the subject is the user id and the
// permission list carries the gate names the user may pass.
type AccessClaims struct {
	jwt.RegisteredClaims
	Permissions []string `json:"permissions"`
}

// AuthMiddleware authenticates the bearer token and stores an explicit
// authorization context for the handlers. Authorization itself happens in
// the service layer against that context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := GetLang(c)

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthenticated, lang),
			)
			return
		}

		claims := AccessClaims{}
		parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthenticated, lang),
			)
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || userID == 0 {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthenticated, lang),
			)
			return
		}

		c.Set(authContextKey, authz.NewContext(userID, claims.Permissions))
		c.Next()
	}
}

func GetAuth(c *gin.Context) authz.Context {
	if value, exists := c.Get(authContextKey); exists {
		if actx, ok := value.(authz.Context); ok {
			return actx
		}
	}
	return authz.Context{}
}

func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}
