package documents

// Section is one entry of the page section registry
type Section struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Component   string `json:"component"`
	Enabled     bool   `json:"enabled"`
	Order       int    `json:"order"`
	Description string `json:"description"`
}

// Section component keys understood by the page composer
const (
	ComponentHeader       = "HeaderSection"
	ComponentCompany      = "EmpresaSection"
	ComponentShowroom     = "ShowroomSection"
	ComponentGallery      = "GaleriaSection"
	ComponentTestimonials = "DepoimentosSection"
	ComponentReseller     = "RevendaSection"
	ComponentFAQ          = "FAQSection"
	ComponentContact      = "ContatoSection"
)

// SectionRegistry is the ordered list stored under sections-config
type SectionRegistry []Section

// UnmarshalJSON replaces the receiver with a stored array, anything else keeps it
func (r *SectionRegistry) UnmarshalJSON(data []byte) error {
	sections, err := decodeList[Section](data)
	if sections != nil {
		*r = sections
	}
	return err
}

// Find returns the index of the section with id, or -1
func (r SectionRegistry) Find(id string) int {
	for i, s := range r {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Clone copies the registry
func (r SectionRegistry) Clone() SectionRegistry {
	out := make(SectionRegistry, len(r))
	copy(out, r)
	return out
}

// DefaultSections is the registry of a fresh install
func DefaultSections() SectionRegistry {
	return SectionRegistry{
		{ID: "header", Name: "Header/Cabeçalho", Component: ComponentHeader, Enabled: true, Order: 0,
			Description: "Cabeçalho com logo, frase e imagem de fundo"},
		{ID: "empresa", Name: "Sobre a Empresa", Component: ComponentCompany, Enabled: true, Order: 1,
			Description: "Seção com informações sobre a empresa e história"},
		{ID: "showroom", Name: "Showroom", Component: ComponentShowroom, Enabled: true, Order: 2,
			Description: "Galeria de produtos em destaque"},
		{ID: "galeria", Name: "Galeria", Component: ComponentGallery, Enabled: true, Order: 3,
			Description: "Galeria completa de imagens dos produtos"},
		{ID: "depoimentos", Name: "Depoimentos", Component: ComponentTestimonials, Enabled: true, Order: 4,
			Description: "Avaliações e depoimentos de clientes"},
		{ID: "revenda", Name: "Seja Revendedor", Component: ComponentReseller, Enabled: true, Order: 5,
			Description: "Informações sobre programa de revenda"},
		{ID: "faq", Name: "Perguntas Frequentes", Component: ComponentFAQ, Enabled: true, Order: 6,
			Description: "Dúvidas mais comuns dos clientes"},
		{ID: "contato", Name: "Contato", Component: ComponentContact, Enabled: true, Order: 7,
			Description: "Formulário de contato e informações"},
	}
}
