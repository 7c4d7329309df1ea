// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a permissive CORS middleware. The API serves scraped
// public data, so cross-origin reads are allowed by default.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Content-Length",
			"Accept",
			"Accept-Encoding",
			"Origin",
			"Cache-Control",
		},
		MaxAge: 12 * time.Hour,
	})
}
