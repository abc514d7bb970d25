package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeSelfAction   ErrorCode = "SELF_ACTION"
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	ErrCodeUpstream     ErrorCode = "UPSTREAM_ERROR"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeSelfAction:
		return http.StatusUnprocessableEntity
	case ErrCodeConflict, ErrCodeInvalidState:
		return http.StatusConflict
	case ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// As extrai o *AppError de uma cadeia de erros, se houver.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool     { return hasCode(err, ErrCodeNotFound) }
func IsForbidden(err error) bool    { return hasCode(err, ErrCodeForbidden) }
func IsValidation(err error) bool   { return hasCode(err, ErrCodeValidation) }
func IsSelfAction(err error) bool   { return hasCode(err, ErrCodeSelfAction) }
func IsInvalidState(err error) bool { return hasCode(err, ErrCodeInvalidState) }
func IsUpstream(err error) bool     { return hasCode(err, ErrCodeUpstream) }

var (
	ErrUserNotFound         = New(ErrCodeNotFound, "usuário não encontrado")
	ErrListingNotFound      = New(ErrCodeNotFound, "anúncio não encontrado")
	ErrConversationNotFound = New(ErrCodeNotFound, "conversa não encontrada")
	ErrProposalNotFound     = New(ErrCodeNotFound, "proposta não encontrada")
	ErrReportNotFound       = New(ErrCodeNotFound, "denúncia não encontrada")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "autenticação necessária")
	ErrForbidden            = New(ErrCodeForbidden, "permissão insuficiente")
	ErrInvalidCredentials   = New(ErrCodeUnauthorized, "credenciais inválidas")
	ErrSelfNegotiation      = New(ErrCodeSelfAction, "você não pode negociar com você mesmo")
	ErrSelfReview           = New(ErrCodeSelfAction, "você não pode avaliar a si mesmo")
	ErrProposalResolved     = New(ErrCodeInvalidState, "a proposta já foi resolvida")
	ErrConversationClosed   = New(ErrCodeInvalidState, "a conversa está encerrada")
)
