// Package lookup resolves Peruvian tax (RUC) and national (DNI) identifiers into
// client data through apis.net.pe.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"calibration-report/internal/storage"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrTooManyRequests = errors.New("too many requests")
	ErrConnection      = errors.New("lookup provider unreachable")
	ErrUnsupported     = errors.New("document type has no lookup")
	ErrUpstream        = errors.New("lookup provider error")
)

// Record is the provider answer reduced to what the client form needs.
type Record struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	ClientName     string `json:"client_name"`
	Address        string `json:"address"`
	Status         string `json:"status"`
	Condition      string `json:"condition,omitempty"`
}

// Active reports whether a RUC is registered as active.
func (r Record) Active() bool {
	return strings.Contains(strings.ToLower(r.Status), "activo")
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Client struct {
	http *resty.Client
}

func New(cfg Config) *Client {
	c := resty.New()
	c.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.Token != "" {
		c.SetAuthToken(cfg.Token)
	}

	return &Client{http: c}
}

type rucResponse struct {
	RazonSocial     string `json:"razonSocial"`
	NumeroDocumento string `json:"numeroDocumento"`
	Direccion       string `json:"direccion"`
	Estado          string `json:"estado"`
	Condicion       string `json:"condicion"`
}

type dniResponse struct {
	Nombres         string `json:"nombres"`
	ApellidoPaterno string `json:"apellidoPaterno"`
	ApellidoMaterno string `json:"apellidoMaterno"`
	NumeroDocumento string `json:"numeroDocumento"`
}

// Lookup validates the number and asks the provider for it. CE numbers cannot be
// looked up.
func (c *Client) Lookup(ctx context.Context, docType, number string) (Record, error) {
	docType = strings.ToUpper(docType)
	number = strings.TrimSpace(number)

	if err := ValidateDocument(docType, number); err != nil {
		return Record{}, err
	}

	switch docType {
	case storage.DocumentRUC:
		return c.RUC(ctx, number)
	case storage.DocumentDNI:
		return c.DNI(ctx, number)
	}
	return Record{}, fmt.Errorf("lookup.Lookup: %s: %w", docType, ErrUnsupported)
}

func (c *Client) RUC(ctx context.Context, number string) (Record, error) {
	const op = "lookup.RUC"

	var out rucResponse
	if err := c.get(ctx, "/v2/sunat/ruc", number, &out); err != nil {
		return Record{}, fmt.Errorf("%s: %w", op, err)
	}
	if out.RazonSocial == "" {
		return Record{}, fmt.Errorf("%s: empty answer: %w", op, ErrNotFound)
	}

	doc := out.NumeroDocumento
	if doc == "" {
		doc = number
	}

	return Record{
		DocumentType:   storage.DocumentRUC,
		DocumentNumber: doc,
		ClientName:     out.RazonSocial,
		Address:        out.Direccion,
		Status:         out.Estado,
		Condition:      out.Condicion,
	}, nil
}

func (c *Client) DNI(ctx context.Context, number string) (Record, error) {
	const op = "lookup.DNI"

	var out dniResponse
	if err := c.get(ctx, "/v2/reniec/dni", number, &out); err != nil {
		return Record{}, fmt.Errorf("%s: %w", op, err)
	}
	if out.Nombres == "" {
		return Record{}, fmt.Errorf("%s: empty answer: %w", op, ErrNotFound)
	}

	name := strings.Join(strings.Fields(out.Nombres+" "+out.ApellidoPaterno+" "+out.ApellidoMaterno), " ")

	return Record{
		DocumentType:   storage.DocumentDNI,
		DocumentNumber: number,
		ClientName:     name,
	}, nil
}

func (c *Client) get(ctx context.Context, path, number string, result any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("numero", number).
		SetResult(result).
		ForceContentType("application/json").
		Get(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return ErrTooManyRequests
	case code >= http.StatusBadRequest:
		return fmt.Errorf("%w: status %d", ErrUpstream, code)
	}

	return nil
}

// Message is the text shown to the technician when a lookup fails.
func Message(err error, docType string) string {
	docType = strings.ToUpper(docType)

	switch {
	case errors.Is(err, ErrInvalidDocument):
		return DocumentHint(docType)
	case errors.Is(err, ErrNotFound):
		return docType + " no encontrado"
	case errors.Is(err, ErrTooManyRequests):
		return "Demasiadas consultas. Espere."
	case errors.Is(err, ErrConnection):
		return "Error de conexión. Verifique su internet."
	case errors.Is(err, ErrUnsupported):
		return "La consulta no está disponible para este tipo de documento"
	case docType == storage.DocumentDNI:
		return "Error al consultar RENIEC"
	default:
		return "Error al consultar SUNAT"
	}
}
