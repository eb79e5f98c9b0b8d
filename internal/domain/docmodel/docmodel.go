package docmodel

type DocType string
type Language string
type JobStatus string

const (
	DocTypeProformaInvoice   DocType = "proforma-invoice"
	DocTypeInvoice           DocType = "invoice"
	DocTypePackingList       DocType = "packing-list"
	DocTypeCreditNote        DocType = "credit-note"
	DocTypeDebitNote         DocType = "debit-note"
	DocTypeOrderConfirmation DocType = "order-confirmation"
	DocTypeSiparis           DocType = "siparis"
	DocTypePriceOffer        DocType = "price-offer"
	DocTypeFabricTechnical   DocType = "fabric-technical"
	DocTypeHangersShipment   DocType = "hangers-shipment"
	DocTypeQualityControl    DocType = "quality-control"

	LanguageTurkish Language = "tr"
	LanguageEnglish Language = "en"

	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

var knownDocTypes = map[DocType]bool{
	DocTypeProformaInvoice:   true,
	DocTypeInvoice:           true,
	DocTypePackingList:       true,
	DocTypeCreditNote:        true,
	DocTypeDebitNote:         true,
	DocTypeOrderConfirmation: true,
	DocTypeSiparis:           true,
	DocTypePriceOffer:        true,
	DocTypeFabricTechnical:   true,
	DocTypeHangersShipment:   true,
	DocTypeQualityControl:    true,
}

// Known reports whether the document type is a recognized member of the
// supported set. Unknown types still generate, through the generic path.
func (d DocType) Known() bool {
	return knownDocTypes[d]
}

func AllDocTypes() []DocType {
	types := make([]DocType, 0, len(knownDocTypes))
	for t := range knownDocTypes {
		types = append(types, t)
	}
	return types
}

// Terminal reports whether the status ends the polling loop.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// FormData is the opaque field mapping collected by the data-entry forms.
// Keys are document-specific field names, values are strings, numbers or
// nested lists. The client never interprets it beyond filename hints.
type FormData map[string]any

// Job is the client-side view of a server-tracked rendering job. It lives
// only for the duration of the active request; nothing is persisted.
type Job struct {
	ID      string
	Status  JobStatus
	Error   string
	Details string
}

type GenerationRequest struct {
	DocType  DocType  `json:"docType" validate:"required"`
	FormData FormData `json:"formData" validate:"required"`
	Language Language `json:"language" validate:"required,oneof=tr en"`
}
