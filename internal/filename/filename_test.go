package filename_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/filename"
)

var safeName = regexp.MustCompile(`^[A-Za-z0-9_-]+\.pdf$`)

func TestBuildProducesSafeLocalizedNames(t *testing.T) {
	form := docmodel.FormData{
		"Invoice No":          "INV 2024/001",
		"RECIPIENT Şirket Adı": "Açme Tekstil Ltd. Şti.",
	}

	for _, docType := range docmodel.AllDocTypes() {
		tr := filename.Build(docType, form, docmodel.LanguageTurkish)
		en := filename.Build(docType, form, docmodel.LanguageEnglish)

		assert.Regexp(t, safeName, tr, "docType %s (tr)", docType)
		assert.Regexp(t, safeName, en, "docType %s (en)", docType)
		assert.NotEqual(t, tr, en, "tr and en names must differ for %s", docType)
	}
}

func TestBuildGenericFallbackForUnknownType(t *testing.T) {
	form := docmodel.FormData{"Company": "Acme"}
	tr := filename.Build(docmodel.DocType("mystery-doc"), form, docmodel.LanguageTurkish)
	en := filename.Build(docmodel.DocType("mystery-doc"), form, docmodel.LanguageEnglish)

	assert.Equal(t, "Acme-Belge.pdf", tr)
	assert.Equal(t, "Acme-Document.pdf", en)
}

func TestBuildComposesNumberRecipientAndSuffix(t *testing.T) {
	form := docmodel.FormData{
		"Invoice No": "INV 2024/001",
		"Company":    "Acme",
	}
	name := filename.Build(docmodel.DocTypeInvoice, form, docmodel.LanguageEnglish)
	assert.Equal(t, "INV-2024001-Acme-Invoice.pdf", name)
}

func TestBuildIsDeterministic(t *testing.T) {
	form := docmodel.FormData{
		"RECIPIENT Company": "Acme",
		"Buyer Company":     "Globex",
	}
	first := filename.Build(docmodel.DocTypePackingList, form, docmodel.LanguageEnglish)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, filename.Build(docmodel.DocTypePackingList, form, docmodel.LanguageEnglish))
	}
}

func TestBuildWithoutSalientFieldsStillNames(t *testing.T) {
	name := filename.Build(docmodel.DocTypeQualityControl, docmodel.FormData{}, docmodel.LanguageEnglish)
	assert.Equal(t, "Quality-Control.pdf", name)
}

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Açme Tekstil Ltd. Şti.": "Acme-Tekstil-Ltd-Sti",
		"  spaced   out  ":       "spaced-out",
		"under_score-kept":       "under_score-kept",
		"çğıöşü ÇĞİÖŞÜ":          "cgiosu-CGIOSU",
		"%&/()=?":                "",
	}
	for input, want := range cases {
		assert.Equal(t, want, filename.Sanitize(input), "input %q", input)
	}
}

func TestNamesContainRecipient(t *testing.T) {
	form := docmodel.FormData{"RECIPIENT Şirket Adı": "Acme"}
	name := filename.Build(docmodel.DocTypeInvoice, form, docmodel.LanguageEnglish)
	assert.Contains(t, name, "Acme")
	assert.True(t, strings.HasSuffix(name, "Invoice.pdf"), "got %s", name)
}
