package middleware

import (
	"net/http"

	"onlypans/internal/core/account"
	"onlypans/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserIDHeader 客戶端帶入身分的標頭
	UserIDHeader = "X-User-ID"
	// ContextUserIDKey gin context 中的使用者 ID 鍵
	ContextUserIDKey = "user_id"
	// ContextUserKey gin context 中的使用者實體鍵
	ContextUserKey = "current_user"
)

// Identity 解析 X-User-ID 標頭並載入使用者
// 標頭缺漏或無效時不中斷請求，僅保持匿名狀態
func Identity(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			c.Next()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			c.Next()
			return
		}

		user, err := accounts.GetUserByID(c.Request.Context(), id)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserIDKey, user.ID.String())
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireUser 要求已識別的使用者，匿名請求回傳 401
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserKey); !exists {
			appErr := common.ErrUnauthorized
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": appErr.Message,
				"code":  appErr.Code,
			})
			return
		}
		c.Next()
	}
}
