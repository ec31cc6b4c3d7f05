package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// MsgOriginNotAllowed is returned to browsers calling from an unlisted origin.
const MsgOriginNotAllowed = "Origin tidak diizinkan."

// CORS returns middleware that only admits browser calls from allowedOrigins.
// Requests from any other origin are rejected with 403. Requests without an
// Origin header are not browser cross-origin calls and pass through. Preflight
// requests are answered here and never reach the handlers.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization", idempotencyHeader, RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
	})

	return func(ctx *gin.Context) {
		if ctx.GetHeader("Origin") != "" && !c.OriginAllowed(ctx.Request) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": MsgOriginNotAllowed})
			return
		}

		c.HandlerFunc(ctx.Writer, ctx.Request)

		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != "" {
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
