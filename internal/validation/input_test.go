package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("maria@exemplo.com"))
	assert.NoError(t, ValidateEmail("Maria.Silva+promo@Exemplo.com.br"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("sem-arroba.com"))
	assert.Error(t, ValidateEmail("duas@arrobas@exemplo.com"))
	assert.Error(t, ValidateEmail("maria@semdominio"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("maria_silva"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("maria silva"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", MaxUsernameLength+1)))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("SenhaForte123"))
	assert.Error(t, ValidatePassword("curta1A"))
	assert.Error(t, ValidatePassword("semnumeros"))
	assert.Error(t, ValidatePassword("SEMMINUSCULA1"))
	assert.Error(t, ValidatePassword("semmaiuscula1"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "olá", TruncateRunes("olá", 10))
	assert.Equal(t, "ação", TruncateRunes("açãoação", 4))
	assert.Equal(t, "", TruncateRunes("", 5))
}
