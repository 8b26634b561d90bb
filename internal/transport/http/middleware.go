package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/liaison-server/internal/auth"
	"github.com/vovakirdan/liaison-server/internal/utils"
)

const (
	// ContextKeyClaim is the context key for storing the caller claim.
	ContextKeyClaim = "claim"
	// ContextKeyRequestID is the context key for storing the request id.
	ContextKeyRequestID = "request_id"

	headerRequestID = "X-Request-ID"
)

// ClaimMiddleware decodes the userType/userName headers.
// Requests without a decodable claim never reach the handlers.
func ClaimMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claim, err := auth.ClaimFromHeaders(c.Request.Header)
		if err != nil {
			logger.Debug().Err(err).Str(ContextKeyRequestID, c.GetString(ContextKeyRequestID)).Msg("rejected claim")
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid identity headers"})
			return
		}

		c.Set(ContextKeyClaim, claim)
		c.Next()
	}
}

// claimFrom returns the claim stored by ClaimMiddleware.
func claimFrom(c *gin.Context) (auth.Claim, bool) {
	v, exists := c.Get(ContextKeyClaim)
	if !exists {
		return auth.Claim{}, false
	}
	claim, ok := v.(auth.Claim)
	return claim, ok
}

// RequestIDMiddleware tags every request with an id echoed in X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := utils.RequestIDOrNew(c.GetHeader(headerRequestID))
		c.Set(ContextKeyRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = logger.Error()
		}

		// Log after request
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str(ContextKeyRequestID, c.GetString(ContextKeyRequestID)).
			Msg("http request")
	}
}

// CORSMiddleware answers preflight requests and sets allow headers for the
// configured origins. "*" allows any origin.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAny := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAny = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	allowHeaders := strings.Join([]string{
		"Content-Type",
		auth.HeaderUserType,
		auth.HeaderUserName,
		headerRequestID,
	}, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			switch {
			case allowAny:
				c.Header("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			c.Header("Access-Control-Allow-Headers", allowHeaders)
			c.Header("Access-Control-Expose-Headers", headerRequestID)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
