package security

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"agritrack/internal/rate_limiter"
	"agritrack/internal/repository"

	"github.com/gin-gonic/gin"
)

type LoginHandler struct {
	repo        *repository.Repository
	rateLimiter *rate_limiter.RateLimiter
}

func NewLoginHandler(r *repository.Repository) *LoginHandler {
	return &LoginHandler{
		repo:        r,
		rateLimiter: rate_limiter.NewRateLimiter(10, 5*time.Minute), // 10 attempts per 5 minutes
	}
}

func (l *LoginHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/auth", l.Login())
}

func (l *LoginHandler) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.GetHeader("X-Forwarded-For")
		if clientIP == "" {
			clientIP = c.GetHeader("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = c.ClientIP()
		}

		// X-Forwarded-For may carry a chain, take the first hop
		if strings.Contains(clientIP, ",") {
			clientIP = strings.Split(clientIP, ",")[0]
		}

		if !l.rateLimiter.IsAllowed(clientIP) {
			remaining := l.rateLimiter.GetRemainingRequests(clientIP)
			c.Header("X-RateLimit-Limit", "10")
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
			c.Header("X-RateLimit-Reset", time.Now().Add(5*time.Minute).Format(time.RFC3339))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many login attempts. Try again later.",
				"remaining": remaining,
				"reset_at":  time.Now().Add(5 * time.Minute).Format(time.RFC3339),
			})
			return
		}

		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		user, err := AuthenticateUser(req.Username, req.Password, l.repo)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		token, err := GenerateJWT(user.ID, user.Role, user.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
