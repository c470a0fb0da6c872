package types

import "time"

// ContactRequest is a lead submitted through the contact form. Immutable
// after creation except for Status.
type ContactRequest struct {
	ID          int64         `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	Name        string        `json:"name"`
	ContactInfo string        `json:"contact_info"`
	Message     *string       `json:"message,omitempty"`
	Status      RequestStatus `json:"status"`
}

// EquipmentRequest is a lead submitted from a catalog item page. Same shape
// as ContactRequest plus the equipment reference fields; EquipmentLink is
// the stable slug of the requested item and is always present.
type EquipmentRequest struct {
	ID            int64         `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	Name          string        `json:"name"`
	ContactInfo   string        `json:"contact_info"`
	EquipmentName *string       `json:"equipment_name,omitempty"`
	EquipmentLink *string       `json:"equipment_link,omitempty"`
	RequestType   string        `json:"request_type"`
	Message       *string       `json:"message,omitempty"`
	Status        RequestStatus `json:"status"`
}

// LeadKind distinguishes the two lead collections.
type LeadKind string

const (
	LeadKindContact   LeadKind = "contact"
	LeadKindEquipment LeadKind = "equipment"
)

// Valid reports whether k names a known collection.
func (k LeadKind) Valid() bool {
	return k == LeadKindContact || k == LeadKindEquipment
}

// RequestTypePriceQuote is the fixed classification tag written on every
// equipment lead.
const RequestTypePriceQuote = "Запрос цены/консультации"

// SubmissionInput carries the raw form fields of a lead submission exactly
// as posted, before any validation.
type SubmissionInput struct {
	EquipmentID   string `form:"equipmentId" json:"equipmentId"`
	EquipmentName string `form:"equipmentName" json:"equipmentName"`
	CustomerName  string `form:"customerName" json:"customerName"`
	Phone         string `form:"phone" json:"phone"`
	Email         string `form:"email" json:"email"`
	Comment       string `form:"comment" json:"comment"`
	ConsentGiven  bool   `form:"isPrivacyPolicyAccepted" json:"isPrivacyPolicyAccepted"`
}

// LeadSubmission is the argument bundle for the restricted database
// procedure, the only sanctioned write path for untrusted input.
type LeadSubmission struct {
	Name          string  `json:"p_name"`
	ContactInfo   string  `json:"p_contact_info"`
	EquipmentName *string `json:"p_equipment_name"`
	EquipmentLink *string `json:"p_equipment_link"`
	RequestType   string  `json:"p_request_type"`
	Message       *string `json:"p_message"`
}
