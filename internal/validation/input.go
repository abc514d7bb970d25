package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limites de validação
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 30
	MinDisplayNameLength = 2
	MaxDisplayNameLength = 100

	MinListingTitleLength       = 3
	MaxListingTitleLength       = 200
	MinListingDescriptionLength = 10
	MaxListingDescriptionLength = 5000

	// Mensagens do chat e avisos administrativos compartilham o mesmo teto.
	MaxMessageLength = 1000

	MinProposalDescriptionLength = 10
	MaxProposalDescriptionLength = 2000

	MaxReviewCommentLength = 500

	MinReportReasonLength = 5
	MaxReportReasonLength = 200

	MaxBioLength   = 1000
	MaxCityLength  = 100
	MaxPrice       = 100000000.0
)

// ValidateLength verifica o comprimento da string em runas.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s deve ter no mínimo %d caracteres", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s deve ter no máximo %d caracteres", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty verifica que a string não é vazia nem só espaços.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s não pode ficar em branco", fieldName)
	}
	return nil
}

// TruncateRunes corta a string no limite de runas informado.
func TruncateRunes(value string, max int) string {
	if utf8.RuneCountInString(value) <= max {
		return value
	}
	runes := []rune(value)
	return string(runes[:max])
}

// ValidateEmail verifica o formato do email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email é obrigatório")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("formato de email inválido")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("a parte local do email deve ter entre 1 e 64 caracteres")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("o domínio do email deve ter entre 1 e 255 caracteres")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("a parte local do email contém caracteres inválidos")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("o domínio do email tem formato inválido")
	}

	return nil
}

// ValidateUsername verifica o nome de usuário.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("nome de usuário é obrigatório")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("nome de usuário", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("nome de usuário só pode conter letras, números e sublinhado")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("nome de usuário não pode começar com número")
	}

	return nil
}

// ValidateDisplayName verifica o nome de exibição.
func ValidateDisplayName(displayName string) error {
	if displayName == "" {
		return fmt.Errorf("nome de exibição é obrigatório")
	}

	displayName = strings.TrimSpace(displayName)

	if err := ValidateLength("nome de exibição", displayName, MinDisplayNameLength, MaxDisplayNameLength); err != nil {
		return err
	}

	displayNameRegex := regexp.MustCompile(`^[\p{L}0-9\s\-_.,!?()]+$`)
	if !displayNameRegex.MatchString(displayName) {
		return fmt.Errorf("nome de exibição contém caracteres inválidos")
	}

	return nil
}

// ValidateListingTitle verifica o título do anúncio.
func ValidateListingTitle(title string) error {
	if err := ValidateNonEmpty("título", title); err != nil {
		return err
	}
	return ValidateLength("título", strings.TrimSpace(title), MinListingTitleLength, MaxListingTitleLength)
}

// ValidateListingDescription verifica a descrição do anúncio.
func ValidateListingDescription(description string) error {
	if err := ValidateNonEmpty("descrição", description); err != nil {
		return err
	}
	return ValidateLength("descrição", strings.TrimSpace(description), MinListingDescriptionLength, MaxListingDescriptionLength)
}

// ValidatePrice verifica um preço opcional.
func ValidatePrice(price *float64) error {
	if price == nil {
		return nil
	}
	if *price < 0 {
		return fmt.Errorf("preço não pode ser negativo")
	}
	if *price > MaxPrice {
		return fmt.Errorf("preço não pode ultrapassar %.0f", MaxPrice)
	}
	return nil
}

// ValidateProposalDescription verifica a descrição de uma proposta.
func ValidateProposalDescription(description string) error {
	if err := ValidateNonEmpty("descrição da proposta", description); err != nil {
		return err
	}
	return ValidateLength("descrição da proposta", strings.TrimSpace(description), MinProposalDescriptionLength, MaxProposalDescriptionLength)
}

// ValidateReviewComment verifica o comentário opcional de uma avaliação.
func ValidateReviewComment(comment *string) error {
	if comment == nil || *comment == "" {
		return nil
	}
	return ValidateLength("comentário", strings.TrimSpace(*comment), 0, MaxReviewCommentLength)
}

// ValidateBio verifica a biografia opcional.
func ValidateBio(bio *string) error {
	if bio != nil && *bio != "" {
		return ValidateLength("biografia", strings.TrimSpace(*bio), 0, MaxBioLength)
	}
	return nil
}

// ValidateCity verifica a cidade opcional.
func ValidateCity(city *string) error {
	if city != nil && *city != "" {
		return ValidateLength("cidade", strings.TrimSpace(*city), 0, MaxCityLength)
	}
	return nil
}
