package validation

import (
	"fmt"
	"unicode"
)

// ValidatePassword verifica os requisitos mínimos de senha:
// ao menos 8 caracteres, uma maiúscula, uma minúscula e um número.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("a senha deve ter no mínimo 8 caracteres")
	}

	var (
		hasUpper  = false
		hasLower  = false
		hasNumber = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("a senha deve conter ao menos uma letra maiúscula")
	}
	if !hasLower {
		return fmt.Errorf("a senha deve conter ao menos uma letra minúscula")
	}
	if !hasNumber {
		return fmt.Errorf("a senha deve conter ao menos um número")
	}

	return nil
}
