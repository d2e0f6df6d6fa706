package security

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"agritrack/internal/repository"
	"agritrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	secretOnce sync.Once
	secret     []byte
	secretErr  error
)

func jwtSecret() ([]byte, error) {
	secretOnce.Do(func() {
		value := os.Getenv("JWT_SECRET")
		if value == "" {
			if err := godotenv.Load(); err == nil {
				value = os.Getenv("JWT_SECRET")
			}
		}
		if value == "" {
			secretErr = fmt.Errorf("JWT_SECRET environment variable is not set")
			return
		}
		secret = []byte(value)
	})

	return secret, secretErr
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "username", "fullname", "password_hash", "role").
		From("users").
		Where(goqu.Ex{"username": username})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("unknown user: %s", username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID int, role string, username string) (string, error) {
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"userID":   strconv.Itoa(userID),
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 120).Unix(), // 5 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// GetUserIDFromContext returns the authenticated user id set by JWTMiddleware.
func GetUserIDFromContext(c *gin.Context) (int, error) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, fmt.Errorf("no authenticated user in context")
	}

	raw, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("userID is not a string")
	}

	userID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid userID claim: %w", err)
	}

	return userID, nil
}
