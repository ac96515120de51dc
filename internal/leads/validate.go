package leads

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/localnerve/jam-build-landing/internal/documents"
)

// Input is a contact form submission
type Input struct {
	Name         string `json:"nome"`
	Phone        string `json:"whatsapp"`
	TaxID        string `json:"temCnpj"`
	StoreType    string `json:"tipoLoja"`
	Source       string `json:"origem"`
	Location     string `json:"localizacao"`
	TimeOnPage   int    `json:"tempoNaPagina"`
	PagesVisited int    `json:"paginasVisitadas"`
	UserAgent    string `json:"-"`
}

// ValidationError lists the rejected fields by JSON name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid lead: " + strings.Join(parts, "; ")
}

// PhoneDigits strips everything but digits
func PhoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// Validate checks a submission. requireTaxID rejects the "nao" answer.
func Validate(in Input, requireTaxID bool) error {
	fields := map[string]string{}

	if strings.TrimSpace(in.Name) == "" {
		fields["nome"] = "is required"
	}

	if n := len(PhoneDigits(in.Phone)); n < 10 || n > 11 {
		fields["whatsapp"] = "must have 10 or 11 digits"
	}

	if in.StoreType != "" && !documents.IsStoreType(in.StoreType) {
		fields["tipoLoja"] = "is not a known store type"
	}

	switch in.TaxID {
	case "", documents.TaxIDYes:
	case documents.TaxIDNo:
		if requireTaxID {
			fields["temCnpj"] = "a CNPJ is required"
		}
	default:
		fields["temCnpj"] = "must be sim or nao"
	}

	if in.TimeOnPage < 0 {
		fields["tempoNaPagina"] = "must not be negative"
	}
	if in.PagesVisited < 0 {
		fields["paginasVisitadas"] = "must not be negative"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
