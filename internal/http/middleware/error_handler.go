package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/logger"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
)

// ErrorHandler trata erros de forma centralizada: erros de aplicação viram
// o status e a mensagem que carregam; o resto é mascarado como erro interno.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("erro na requisição")
		}

		if appErr, ok := apperror.As(err.Err); ok {
			c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message, "code": appErr.Code})
			return
		}

		message := "erro interno do servidor"
		if msg := err.Error(); msg != "" && !containsInternalKeywords(msg) {
			message = msg
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

// containsInternalKeywords impede que detalhes de infraestrutura vazem
// para o cliente.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"pq:",
		"dial",
		"timeout",
	}
	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
