// Package filename derives deterministic, filesystem-safe artifact names
// from the document type and the salient form fields.
package filename

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
)

type suffix struct {
	tr string
	en string
}

var suffixes = map[docmodel.DocType]suffix{
	docmodel.DocTypeProformaInvoice:   {tr: "Proforma-Fatura", en: "Proforma-Invoice"},
	docmodel.DocTypeInvoice:           {tr: "Fatura", en: "Invoice"},
	docmodel.DocTypePackingList:       {tr: "Ceki-Listesi", en: "Packing-List"},
	docmodel.DocTypeCreditNote:        {tr: "Alacak-Dekontu", en: "Credit-Note"},
	docmodel.DocTypeDebitNote:         {tr: "Borc-Dekontu", en: "Debit-Note"},
	docmodel.DocTypeOrderConfirmation: {tr: "Siparis-Onayi", en: "Order-Confirmation"},
	docmodel.DocTypeSiparis:           {tr: "Siparis-Formu", en: "Order-Form"},
	docmodel.DocTypePriceOffer:        {tr: "Fiyat-Teklifi", en: "Price-Offer"},
	docmodel.DocTypeFabricTechnical:   {tr: "Kumas-Teknik-Foyu", en: "Fabric-Technical-Sheet"},
	docmodel.DocTypeHangersShipment:   {tr: "Aski-Sevkiyati", en: "Hangers-Shipment"},
	docmodel.DocTypeQualityControl:    {tr: "Kalite-Kontrol", en: "Quality-Control"},
}

var genericSuffix = suffix{tr: "Belge", en: "Document"}

// form field name fragments that identify the document number and the
// recipient company across the different document forms
var numberKeys = []string{"invoice no", "proforma no", "fatura no", "belge no", "document no", "order no", "sipariş no", "siparis no", "offer no", "teklif no"}
var recipientKeys = []string{"şirket", "sirket", "company", "firma", "recipient", "alıcı", "alici", "müşteri", "musteri"}

// Build produces "<number>-<recipient>-<suffix>.pdf" from whatever salient
// fields exist, sanitized to [A-Za-z0-9_-]. Names differ between tr and en
// for every document type, the generic fallback included.
func Build(docType docmodel.DocType, form docmodel.FormData, lang docmodel.Language) string {
	parts := make([]string, 0, 3)
	if number := salientValue(form, numberKeys); number != "" {
		parts = append(parts, number)
	}
	if recipient := salientValue(form, recipientKeys); recipient != "" {
		parts = append(parts, recipient)
	}
	parts = append(parts, suffixFor(docType, lang))

	sanitized := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := Sanitize(p); s != "" {
			sanitized = append(sanitized, s)
		}
	}
	return strings.Join(sanitized, "-") + ".pdf"
}

func suffixFor(docType docmodel.DocType, lang docmodel.Language) string {
	s, ok := suffixes[docType]
	if !ok {
		s = genericSuffix
	}
	if lang == docmodel.LanguageTurkish {
		return s.tr
	}
	return s.en
}

// keys are scanned in sorted order so repeated submissions of the same
// form always produce the same name
func salientValue(form docmodel.FormData, fragments []string) string {
	keys := make([]string, 0, len(form))
	for key := range form {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		lowered := strings.ToLower(key)
		for _, fragment := range fragments {
			if strings.Contains(lowered, fragment) {
				return stringify(form[key])
			}
		}
	}
	return ""
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

var turkishASCII = map[rune]rune{
	'ş': 's', 'Ş': 'S',
	'ı': 'i', 'İ': 'I',
	'ğ': 'g', 'Ğ': 'G',
	'ü': 'u', 'Ü': 'U',
	'ö': 'o', 'Ö': 'O',
	'ç': 'c', 'Ç': 'C',
}

// Sanitize collapses whitespace runs to single hyphens, transliterates
// Turkish letters, strips everything outside [A-Za-z0-9_-] and collapses
// hyphen runs.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := false
	for _, r := range s {
		if mapped, ok := turkishASCII[r]; ok {
			r = mapped
		}
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen && b.Len() > 0 {
				b.WriteRune('-')
				lastHyphen = true
			}
		case r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			// dropped
		}
	}
	return strings.TrimRight(b.String(), "-")
}
