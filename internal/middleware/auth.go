package middleware

import (
	"baggage_quiz_backend/internal/config"
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/repository"
	"baggage_quiz_backend/internal/util"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 解析令牌并加载完整账号。
// 账号每次请求都从库里读，封禁和删除立即生效，不用等令牌过期。
func AuthMiddleware(cfg *config.Config, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.ErrorCode(c, http.StatusUnauthorized, util.CodeMissingAuthHeader, "authorization required")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, util.ErrTokenExpired) {
				util.ErrorCode(c, http.StatusUnauthorized, util.CodeTokenExpired, "token expired")
			} else {
				util.ErrorCode(c, http.StatusUnauthorized, util.CodeInvalidToken, "invalid token")
			}
			c.Abort()
			return
		}

		account, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			util.ErrorCode(c, http.StatusUnauthorized, util.CodeUserNotFound, "account no longer exists")
			c.Abort()
			return
		}

		if account.IsBlocked() {
			util.ErrorCode(c, http.StatusForbidden, util.CodeAccountBlocked, "account is blocked")
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Set("account", account)
		c.Next()
	}
}

// RoleMiddleware 角色闸门，管理员直接放行
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			if user.Role == model.RoleAdmin {
				hasRole = true
				break
			}
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.ErrorCode(c, http.StatusForbidden, util.CodeAdminRequired, "admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ApprovalMiddleware 学员功能要求账号已批准，管理员始终视为已批准
func ApprovalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := util.GetAccountFromContext(c)
		if account == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if !account.IsApproved() {
			util.ErrorCode(c, http.StatusForbidden, util.CodeApprovalRequired, "account pending approval")
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(userID uint) error
}

func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			// 异步更新，不阻塞主流程
			go repo.UpdateLastSeen(claims.UserID)
		}
		c.Next()
	}
}
