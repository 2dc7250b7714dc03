package lookup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"calibration-report/internal/storage"
)

var validate = validator.New()

// documentRules are the validator tags each document type must satisfy.
var documentRules = map[string]string{
	storage.DocumentRUC: "required,number,len=11",
	storage.DocumentDNI: "required,number,len=8",
	storage.DocumentCE:  "required,alphanum,max=12",
}

var (
	// ErrInvalidDocument is returned for a number that does not fit its document type.
	ErrInvalidDocument = errors.New("invalid document number")
	ErrInvalidEmail    = errors.New("invalid email")
)

// ValidateDocument checks the shape of a client's identity document.
func ValidateDocument(docType, number string) error {
	const op = "lookup.ValidateDocument"

	number = strings.TrimSpace(number)

	rule, ok := documentRules[strings.ToUpper(docType)]
	if !ok {
		return fmt.Errorf("%s: unknown document type %q: %w", op, docType, ErrInvalidDocument)
	}

	if err := validate.Var(number, rule); err != nil {
		return fmt.Errorf("%s: %s %q: %w", op, docType, number, ErrInvalidDocument)
	}
	return nil
}

// ValidEmail accepts a bare address such as "ana@empresa.pe".
func ValidEmail(s string) bool {
	if err := validate.Var(s, "required,email"); err != nil {
		return false
	}
	at := strings.LastIndex(s, "@")
	return strings.Contains(s[at+1:], ".")
}

// ValidateClient checks the document and, when given, the email of a client.
func ValidateClient(c storage.Client) error {
	const op = "lookup.ValidateClient"

	if err := ValidateDocument(c.DocumentType, c.DocumentNumber); err != nil {
		return err
	}
	if c.Email != "" && !ValidEmail(c.Email) {
		return fmt.Errorf("%s: email %q: %w", op, c.Email, ErrInvalidEmail)
	}
	return nil
}

// DocumentHint is the expected format shown next to the document field.
func DocumentHint(docType string) string {
	switch strings.ToUpper(docType) {
	case storage.DocumentRUC:
		return "RUC debe tener 11 dígitos"
	case storage.DocumentDNI:
		return "DNI debe tener 8 dígitos"
	case storage.DocumentCE:
		return "Carnet de Extranjería: hasta 12 caracteres"
	}
	return "Tipo de documento no válido"
}
