package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/booknest/library-api/pkg/helpers"
	"github.com/booknest/library-api/pkg/response"
)

// Auth validates the access token and checks that the session it was minted
// under is still the active one in Redis. On success it sets userID,
// userName and userEmail in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing access token")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid access token")
			return
		}

		key := "user:session:" + strconv.FormatInt(claims.UserID, 10)
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.AbortError(c, http.StatusUnauthorized, "session not found")
			return
		}
		// A refresh rotates the session id; tokens minted before the
		// rotation stop working here.
		if data["sid"] != claims.SessionID {
			response.AbortError(c, http.StatusUnauthorized, "session expired")
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userName", data["name"])
		c.Set("userEmail", data["email"])
		c.Next()
	}
}
