package command

import (
	"fmt"

	"github.com/go-faster/errors"
)

type Kind int

const (
	KindUnclassified Kind = iota
	KindInvalidParameter
	KindWarning
	KindDanger
)

func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindWarning:
		return "warning"
	case KindDanger:
		return "danger"
	default:
		return "unclassified"
	}
}

// Failure - классифицированная ошибка обработчика. Message показывается пользователю.
type Failure struct {
	Kind    Kind
	Message string
	cause   error
}

func (f *Failure) Error() string {
	if f.cause != nil && f.cause.Error() != f.Message {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.cause)
	}

	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.cause
}

func (f *Failure) Format(s fmt.State, verb rune) {
	errors.FormatError(f, s, verb)
}

func (f *Failure) FormatError(p errors.Printer) error {
	p.Printf("%s: %s", f.Kind, f.Message)

	return f.cause
}

func newFailure(kind Kind, message string, cause error) *Failure {
	if cause == nil {
		cause = errors.New(message)
	}

	return &Failure{Kind: kind, Message: message, cause: cause}
}

func InvalidParameter(format string, args ...any) error {
	return newFailure(KindInvalidParameter, fmt.Sprintf(format, args...), nil)
}

func Warning(format string, args ...any) error {
	return newFailure(KindWarning, fmt.Sprintf(format, args...), nil)
}

func Danger(format string, args ...any) error {
	return newFailure(KindDanger, fmt.Sprintf(format, args...), nil)
}

// WrapDanger сохраняет исходную ошибку для логов, пользователю уходит только общий текст.
func WrapDanger(err error, message string) error {
	return newFailure(KindDanger, message, errors.Wrap(err, message))
}

// Classify возвращает вид ошибки, для неклассифицированных ошибок - KindUnclassified.
func Classify(err error) (Kind, *Failure) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind, failure
	}

	return KindUnclassified, nil
}
