// Package lead implements the pure lead-intake logic: validation of raw
// form fields and normalization into the restricted-procedure argument
// bundle. Nothing in this package performs I/O or keeps state between calls.
package lead

import (
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/types"
)

var (
	// emailRe matches the standard local@domain.tld shape.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// phoneRe matches an optional leading country-code digit (7 or 8)
	// followed by exactly 10 digits. Applied after stripping non-digits.
	phoneRe = regexp.MustCompile(`^(7|8)?\d{10}$`)
	// forbiddenNameRe rejects digits and Latin letters in contact-form
	// names; the field accepts Cyrillic letters, spaces and hyphens only.
	forbiddenNameRe = regexp.MustCompile(`[0-9a-zA-Z]`)
	nonDigitRe      = regexp.MustCompile(`\D`)
)

// Form carries the raw, untrusted fields of a single lead submission.
type Form struct {
	Kind          types.LeadKind
	Name          string
	Phone         string
	Email         string
	Message       string
	EquipmentID   string
	EquipmentName string
	ConsentGiven  bool
}

// Validated is the normalized field set produced by a successful
// validation pass.
type Validated struct {
	Kind          types.LeadKind
	Name          string
	PhoneDigits   string // empty when no phone was submitted
	Email         string // empty when no email was submitted
	Message       *string
	EquipmentName *string
	EquipmentLink *string
}

// StripPhone removes every non-digit character from a phone string.
func StripPhone(phone string) string {
	return nonDigitRe.ReplaceAllString(phone, "")
}

// Validate checks the form against the intake rules in fixed order and
// returns either the normalized field set or the first failing rule as a
// human-readable validation error. No partial state survives between calls.
func Validate(in Form) (*Validated, *apperrors.AppError) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	email := strings.TrimSpace(in.Email)
	message := strings.TrimSpace(in.Message)
	equipmentID := strings.TrimSpace(in.EquipmentID)
	equipmentName := strings.TrimSpace(in.EquipmentName)

	// 1. Name required.
	if name == "" {
		if in.Kind == types.LeadKindContact {
			return nil, apperrors.ValidationFailed("Пожалуйста, укажите ваше ФИО.", "")
		}
		return nil, apperrors.ValidationFailed("Пожалуйста, укажите ваше имя.", "")
	}

	// 2. Name length, counted in runes: Cyrillic names are multi-byte.
	if utf8.RuneCountInString(name) < 2 {
		if in.Kind == types.LeadKindContact {
			return nil, apperrors.ValidationFailed("ФИО должно содержать не менее 2 символов.", "")
		}
		return nil, apperrors.ValidationFailed("Имя должно содержать не менее 2 символов.", "")
	}

	// 3. Contact-form names are restricted to the native alphabet.
	if in.Kind == types.LeadKindContact && forbiddenNameRe.MatchString(name) {
		return nil, apperrors.ValidationFailed("ФИО может содержать только русские буквы, пробелы и дефисы.", "")
	}

	// 4. At least one way to reach the submitter.
	phoneDigits := StripPhone(phone)
	hasPhone := phoneDigits != ""
	hasEmail := email != ""
	if !hasPhone && !hasEmail {
		return nil, apperrors.ValidationFailed("Необходимо указать номер телефона или Email для связи.", "")
	}

	// 5. Email format, only when present.
	if hasEmail && !emailRe.MatchString(email) {
		return nil, apperrors.ValidationFailed("Некорректный формат Email. Пожалуйста, проверьте правильность ввода.", "")
	}

	// 6. Phone format, only when present.
	if hasPhone && !phoneRe.MatchString(phoneDigits) {
		return nil, apperrors.ValidationFailed("Некорректный формат телефона. Пожалуйста, введите 10 цифр после кода страны.", "")
	}

	// 7. Consent to personal data processing.
	if !in.ConsentGiven {
		return nil, apperrors.ValidationFailed("Для отправки заявки необходимо согласие на обработку персональных данных.", "")
	}

	// 8. Equipment leads must reference a catalog item.
	if in.Kind == types.LeadKindEquipment && equipmentID == "" {
		return nil, apperrors.ValidationFailed("Отсутствует идентификатор запрошенной техники. Пожалуйста, обновите страницу.", "")
	}

	out := &Validated{
		Kind:        in.Kind,
		Name:        name,
		PhoneDigits: phoneDigits,
		Email:       email,
	}
	if message != "" {
		out.Message = &message
	}
	if in.Kind == types.LeadKindEquipment {
		out.EquipmentLink = &equipmentID
		if equipmentName != "" {
			out.EquipmentName = &equipmentName
		}
	}
	return out, nil
}
