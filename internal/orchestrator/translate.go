package orchestrator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tradedocs/pdfgen/internal/domain/docmodel"
	"github.com/tradedocs/pdfgen/internal/httpclient"
	"github.com/tradedocs/pdfgen/internal/pdfjob"
)

// ServiceUnavailableError means the pre-flight health check failed and no
// submission was ever attempted.
type ServiceUnavailableError struct {
	Cause error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("rendering service unavailable: %v", e.Cause)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Cause }

// UserFacingError is the only cosmetic error in the stack. Message is what
// the end user sees; the full diagnostic chain stays reachable via Unwrap.
type UserFacingError struct {
	Message string
	Cause   error
}

func (e *UserFacingError) Error() string { return e.Message }

func (e *UserFacingError) Unwrap() error { return e.Cause }

type userMessage struct {
	tr string
	en string
}

func (m userMessage) in(lang docmodel.Language) string {
	if lang == docmodel.LanguageTurkish {
		return m.tr
	}
	return m.en
}

var (
	msgUnavailable = userMessage{
		tr: "Belge servisine şu anda ulaşılamıyor. Lütfen biraz sonra tekrar deneyin.",
		en: "The document service is currently unreachable. Please try again shortly.",
	}
	msgTimeout = userMessage{
		tr: "Belge hazırlama beklenenden uzun sürdü. Lütfen tekrar deneyin.",
		en: "Preparing the document took longer than expected. Please try again.",
	}
	msgNotFound = userMessage{
		tr: "İstenen belge kaydı bulunamadı.",
		en: "The requested document record could not be found.",
	}
	msgInternal = userMessage{
		tr: "Belge şablonunda bir sorun oluştu. Lütfen destek ekibine bildirin.",
		en: "Something went wrong in the document template. Please report this to support.",
	}
	msgGenericPrefix = userMessage{
		tr: "Belge oluşturulamadı",
		en: "Document generation failed",
	}
)

// Translate maps low-level failures to the non-technical message the end
// user sees. Typed errors are matched first; the substring table at the
// bottom only categorizes raw server-supplied text and is known debt until
// the server grows a structured error code field.
func Translate(err error, lang docmodel.Language) *UserFacingError {
	wrap := func(m userMessage) *UserFacingError {
		return &UserFacingError{Message: m.in(lang), Cause: err}
	}

	var unavailable *ServiceUnavailableError
	if errors.As(err, &unavailable) {
		return wrap(msgUnavailable)
	}
	var timeout *pdfjob.TimeoutError
	if errors.As(err, &timeout) {
		return wrap(msgTimeout)
	}
	var network *httpclient.NetworkError
	if errors.As(err, &network) {
		return wrap(msgUnavailable)
	}
	var empty *pdfjob.EmptyArtifactError
	if errors.As(err, &empty) {
		return wrap(msgInternal)
	}

	if status, ok := httpStatusOf(err); ok {
		switch {
		case status == http.StatusNotFound:
			return wrap(msgNotFound)
		case status >= 500:
			return wrap(msgUnavailable)
		}
	}

	switch lowered := strings.ToLower(err.Error()); {
	case strings.Contains(lowered, "is not a function"),
		strings.Contains(lowered, "template"),
		strings.Contains(lowered, "internal"):
		return wrap(msgInternal)
	case strings.Contains(lowered, "load failed"),
		strings.Contains(lowered, "unreachable"):
		return wrap(msgUnavailable)
	case strings.Contains(lowered, "not found"):
		return wrap(msgNotFound)
	case strings.Contains(lowered, "timed out"),
		strings.Contains(lowered, "timeout"):
		return wrap(msgTimeout)
	}

	return &UserFacingError{
		Message: fmt.Sprintf("%s: %v", msgGenericPrefix.in(lang), err),
		Cause:   err,
	}
}

func httpStatusOf(err error) (int, bool) {
	var server *httpclient.ServerError
	if errors.As(err, &server) {
		return server.Status, true
	}
	var submission *pdfjob.SubmissionError
	if errors.As(err, &submission) {
		return submission.Status, true
	}
	var status *pdfjob.StatusError
	if errors.As(err, &status) {
		return status.Status, true
	}
	var download *pdfjob.DownloadError
	if errors.As(err, &download) {
		return download.Status, true
	}
	return 0, false
}
