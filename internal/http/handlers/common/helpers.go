package common

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/middleware"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/pkg/apperror"
)

var (
	// ErrUserNotInContext indica que o AuthMiddleware não populou o contexto.
	ErrUserNotInContext = errors.New("usuário não encontrado no contexto")

	// ErrInvalidUUID indica falha de parse de UUID.
	ErrInvalidUUID = errors.New("formato de UUID inválido")
)

// CurrentUserID extrai o ID do usuário autenticado do contexto.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotInContext
	}
	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotInContext
	}
	return userID, nil
}

// CurrentUserRole extrai o papel do usuário autenticado do contexto.
func CurrentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", ErrUserNotInContext
	}
	role, ok := raw.(string)
	if !ok {
		return "", ErrUserNotInContext
	}
	return role, nil
}

// ParseUUIDParam lê um UUID de um parâmetro de rota.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, ErrInvalidUUID
	}
	id, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return id, nil
}

// ParsePagination lê limit e offset da query string com limites sãos.
func ParsePagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// RespondError traduz o erro para a resposta HTTP: erros de aplicação
// carregam status e mensagem; o resto vira 500 genérico.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno do servidor"})
}
