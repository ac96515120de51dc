package documents

import (
	"encoding/json"
	"time"

	"github.com/localnerve/jam-build-landing/internal/types"
)

// LeadStatus is the delivery state of a lead
type LeadStatus string

const (
	StatusPending LeadStatus = "pendente"
	StatusSent    LeadStatus = "enviado"
	StatusError   LeadStatus = "erro"
	StatusSuccess LeadStatus = "sucesso"
	// StatusSkipped is terminal, the webhook was inactive when the lead arrived
	StatusSkipped LeadStatus = "ignorado"
)

// Statuses lists every status in display order
func Statuses() []LeadStatus {
	return []LeadStatus{StatusPending, StatusSent, StatusSuccess, StatusError, StatusSkipped}
}

// Tax id answers, empty means unanswered
const (
	TaxIDYes = "sim"
	TaxIDNo  = "nao"
)

// StoreType is an answer to "what kind of store do you have"
type StoreType struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StoreTypes lists the accepted store type answers
func StoreTypes() []StoreType {
	return []StoreType{
		{"fisica", "Loja Física"},
		{"online", "Loja Online"},
		{"ambas", "Física e Online"},
		{"iniciante", "Quero começar"},
		{"nao_tenho", "Não tenho loja ainda"},
	}
}

// IsStoreType reports whether value is an accepted store type
func IsStoreType(value string) bool {
	for _, st := range StoreTypes() {
		if st.Value == value {
			return true
		}
	}
	return false
}

// StoreTypeLabel returns the display label for value, or value itself
func StoreTypeLabel(value string) string {
	for _, st := range StoreTypes() {
		if st.Value == value {
			return st.Label
		}
	}
	return value
}

// Lead is a captured contact form submission
type Lead struct {
	ID            string           `json:"id"`
	Name          string           `json:"nome"`
	Phone         string           `json:"whatsapp"`
	TaxID         string           `json:"temCnpj"`
	StoreType     string           `json:"tipoLoja"`
	SubmittedAt   time.Time        `json:"dataEnvio"`
	Status        LeadStatus       `json:"status"`
	Attempts      int              `json:"tentativas"`
	LastAttemptAt *time.Time       `json:"ultimaTentativa,omitempty"`
	Response      *WebhookResponse `json:"webhookResponse,omitempty"`
	Source        string           `json:"origem,omitempty"`
	Device        string           `json:"dispositivo,omitempty"`
	Browser       string           `json:"navegador,omitempty"`
	Location      string           `json:"localizacao,omitempty"`
	TimeOnPage    int              `json:"tempoNaPagina,omitempty"`
	PagesVisited  int              `json:"paginasVisitadas,omitempty"`
}

// WebhookResponse is what the last delivery attempt returned
type WebhookResponse struct {
	RemoteID   *types.FlexString `json:"id_lead"`
	HTTPStatus int               `json:"status"`
	Raw        json.RawMessage   `json:"response"`
	Error      string            `json:"error,omitempty"`
}

// HasTaxID is the boolean sent to the webhook
func (l Lead) HasTaxID() bool {
	return l.TaxID == TaxIDYes
}

// LeadList is the array stored under leads-data
type LeadList []Lead

// UnmarshalJSON replaces the receiver with a stored array, anything else keeps it.
// A lead with a mistyped field is kept with the fields that decoded.
func (l *LeadList) UnmarshalJSON(data []byte) error {
	leads, err := decodeList[Lead](data)
	if leads != nil {
		*l = leads
	}
	return err
}

// Index returns the position of the lead with id, or -1
func (l LeadList) Index(id string) int {
	for i, lead := range l {
		if lead.ID == id {
			return i
		}
	}
	return -1
}

// Clone copies the list
func (l LeadList) Clone() LeadList {
	out := make(LeadList, len(l))
	copy(out, l)
	return out
}

func DefaultLeads() LeadList {
	return LeadList{}
}
