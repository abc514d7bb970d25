package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Logger é a interface mínima para registrar panics recuperados.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler executa goroutines com recuperação de panic.
type RecoveryHandler struct {
	logger Logger
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo inicia uma goroutine que nunca deixa um panic derrubar o processo.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("panic em goroutine: %v\nstack:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoWithContext inicia uma goroutine com contexto e recuperação de panic.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				rh.logger.Errorf("panic em goroutine (com contexto): %v\nstack:\n%s", r, debug.Stack())
			}
		}()
		fn(ctx)
	}()
}

// SimpleLogger registra no stdout quando nenhum logger foi configurado.
type SimpleLogger struct{}

func (l *SimpleLogger) Errorf(format string, args ...interface{}) {
	fmt.Printf("[ERROR] "+format+"\n", args...)
}

// DefaultRecoveryHandler é o handler global com logging simples.
var DefaultRecoveryHandler = NewRecoveryHandler(&SimpleLogger{})

// SafeGo é o atalho para o handler global.
func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

// SafeGoWithContext é o atalho com contexto para o handler global.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
