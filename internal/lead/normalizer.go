package lead

import (
	"github.com/business-partner/leads-backend/types"
)

// ContactInfo builds the canonical contact string from the normalized
// phone digits and email. Order is fixed: phone first, comma-separated
// when both are present. At least one of the two is guaranteed non-empty
// by validation, so the result is never empty.
func ContactInfo(phoneDigits, email string) string {
	switch {
	case phoneDigits != "" && email != "":
		return "Телефон: " + phoneDigits + ", Email: " + email
	case phoneDigits != "":
		return "Телефон: " + phoneDigits
	default:
		return "Email: " + email
	}
}

// Normalize turns a validated field set into the persistence argument
// bundle for the restricted procedure. Pure transformation; the input is
// not mutated.
func Normalize(v *Validated) types.LeadSubmission {
	sub := types.LeadSubmission{
		Name:        v.Name,
		ContactInfo: ContactInfo(v.PhoneDigits, v.Email),
		Message:     v.Message,
	}
	if v.Kind == types.LeadKindEquipment {
		sub.EquipmentName = v.EquipmentName
		sub.EquipmentLink = v.EquipmentLink
		sub.RequestType = types.RequestTypePriceQuote
	}
	return sub
}
