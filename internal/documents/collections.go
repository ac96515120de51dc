package documents

import (
	"encoding/json"
)

// Item is one entry of a content collection
type Item interface {
	ItemID() string
	// ListKey names the JSON array the items are stored under
	ListKey() string
}

// CollectionConfig is the section level settings shared by every collection
type CollectionConfig struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Active   bool   `json:"active"`
}

// Collection is a list of items plus its section config.
// It is stored as {"<list key>": [...], "config": {...}}.
type Collection[T Item] struct {
	Items  []T
	Config CollectionConfig
}

func (c Collection[T]) MarshalJSON() ([]byte, error) {
	var zero T
	items := c.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(map[string]any{
		zero.ListKey(): items,
		"config":       c.Config,
	})
}

// UnmarshalJSON merges onto the receiver. An item list that is missing or not
// an array leaves the current items in place. Items with a mistyped field are
// kept and the first such error is returned after the whole document is read.
func (c *Collection[T]) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var first error
	var zero T
	if raw, ok := fields[zero.ListKey()]; ok {
		items, err := decodeList[T](raw)
		if items != nil {
			c.Items = items
		}
		first = err
	}

	if raw, ok := fields["config"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &c.Config); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Index returns the position of the item with id, or -1
func (c Collection[T]) Index(id string) int {
	for i, item := range c.Items {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

// Clone copies the item slice so transforms never alias the loaded document
func (c Collection[T]) Clone() Collection[T] {
	items := make([]T, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

type FAQItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (f FAQItem) ItemID() string { return f.ID }
func (FAQItem) ListKey() string { return "faqs" }

type Testimonial struct {
	ID      string `json:"id"`
	Name    string `json:"nome"`
	Role    string `json:"cargo"`
	Company string `json:"empresa"`
	Quote   string `json:"depoimento"`
	Avatar  string `json:"avatar"`
}

func (t Testimonial) ItemID() string { return t.ID }
func (Testimonial) ListKey() string { return "depoimentos" }

type GalleryItem struct {
	ID          string `json:"id"`
	Image       string `json:"imagem"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
}

func (g GalleryItem) ItemID() string { return g.ID }
func (GalleryItem) ListKey() string { return "galeria" }

type (
	FAQDocument         = Collection[FAQItem]
	TestimonialDocument = Collection[Testimonial]
	GalleryDocument     = Collection[GalleryItem]
)

// NewFAQItem is the placeholder appended by "add"
func NewFAQItem(id string) FAQItem {
	return FAQItem{ID: id, Question: "Nova pergunta", Answer: "Nova resposta"}
}

func NewTestimonial(id string) Testimonial {
	return Testimonial{
		ID:      id,
		Name:    "Nome do Cliente",
		Role:    "Cargo",
		Company: "Empresa",
		Quote:   "Depoimento do cliente...",
		Avatar:  "/diverse-avatars.png",
	}
}

func NewGalleryItem(id string) GalleryItem {
	return GalleryItem{
		ID:          id,
		Image:       "/placeholder.svg?height=400&width=300",
		Title:       "Nova Imagem",
		Description: "Descrição da imagem",
	}
}

func DefaultFAQ() FAQDocument {
	return FAQDocument{
		Items: []FAQItem{
			{ID: "1", Question: "Como funciona o processo de contratação?",
				Answer: "Nosso processo é simples e transparente. Após o primeiro contato, realizamos uma consulta gratuita para entender suas necessidades, apresentamos uma proposta personalizada e, após aprovação, iniciamos o projeto com acompanhamento constante."},
			{ID: "2", Question: "Qual é o prazo médio de entrega dos projetos?",
				Answer: "O prazo varia conforme a complexidade do projeto. Projetos simples podem ser entregues em 1-2 semanas, enquanto projetos mais complexos podem levar de 4-8 semanas."},
			{ID: "3", Question: "Vocês oferecem suporte após a entrega?",
				Answer: "Sim! Oferecemos 30 dias de suporte gratuito após a entrega para ajustes e correções. Também temos planos de manutenção mensal para atualizações contínuas."},
			{ID: "4", Question: "É possível fazer alterações durante o desenvolvimento?",
				Answer: "Claro! Trabalhamos de forma colaborativa e flexível. Pequenos ajustes são inclusos no projeto. Para mudanças significativas, avaliamos o impacto no prazo e orçamento."},
			{ID: "5", Question: "Quais formas de pagamento vocês aceitam?",
				Answer: "Aceitamos PIX, transferência bancária, cartão de crédito (até 12x) e boleto bancário. Para projetos maiores, oferecemos parcelamento personalizado."},
			{ID: "6", Question: "Vocês trabalham com empresas de todos os tamanhos?",
				Answer: "Sim! Atendemos desde pequenos empreendedores até grandes corporações. Nossos serviços são escaláveis e adaptamos nossa abordagem conforme cada cliente."},
		},
		Config: CollectionConfig{
			Title:    "FAQ",
			Subtitle: "Respostas para suas principais dúvidas",
			Active:   true,
		},
	}
}

func DefaultTestimonials() TestimonialDocument {
	return TestimonialDocument{
		Items: []Testimonial{
			{ID: "1", Name: "Maria Silva", Role: "CEO", Company: "TechStart Solutions",
				Quote:  "Trabalhar com esta equipe foi uma experiência incrível. Eles entenderam perfeitamente nossa visão e entregaram um produto que superou nossas expectativas. Recomendo sem hesitação!",
				Avatar: "/professional-woman-avatar.png"},
			{ID: "2", Name: "João Santos", Role: "Diretor de Marketing", Company: "Inovação Digital",
				Quote:  "O profissionalismo e a qualidade do trabalho são excepcionais. Nosso projeto foi entregue no prazo e com uma qualidade impressionante. Já estamos planejando novos projetos juntos.",
				Avatar: "/professional-man-avatar.png"},
			{ID: "3", Name: "Ana Costa", Role: "Fundadora", Company: "Creative Agency",
				Quote:  "A atenção aos detalhes e o suporte contínuo fazem toda a diferença. Nossa empresa cresceu significativamente após implementarmos as soluções desenvolvidas por eles.",
				Avatar: "/professional-woman-avatar.png"},
			{ID: "4", Name: "Carlos Oliveira", Role: "CTO", Company: "DataFlow Systems",
				Quote:  "Equipe técnica de alto nível! Conseguiram resolver problemas complexos de forma elegante e eficiente. O resultado final foi exatamente o que precisávamos para escalar nosso negócio.",
				Avatar: "/professional-man-avatar.png"},
		},
		Config: CollectionConfig{
			Title:    "Depoimentos",
			Subtitle: "O que nossos clientes dizem sobre nós",
			Active:   true,
		},
	}
}

func DefaultGallery() GalleryDocument {
	return GalleryDocument{
		Items: []GalleryItem{
			{ID: "1", Image: "/elegant-modern-fashion.png", Title: "Elegância Moderna", Description: "Peças sofisticadas para o dia a dia"},
			{ID: "2", Image: "/urban-street-style.png", Title: "Street Style", Description: "Estilo urbano e despojado"},
			{ID: "3", Image: "/vibrant-summer-fashion.png", Title: "Verão Vibrante", Description: "Cores e estampas para o verão"},
			{ID: "4", Image: "/minimalist-fashion.png", Title: "Minimalismo", Description: "Simplicidade e elegância"},
			{ID: "5", Image: "/elegant-formal-dress.png", Title: "Formal Elegante", Description: "Para ocasiões especiais"},
			{ID: "6", Image: "/comfortable-chic-fashion.png", Title: "Conforto Chique", Description: "Estilo e conforto unidos"},
		},
		Config: CollectionConfig{
			Title:    "Nova Coleção",
			Subtitle: "Descubra as últimas tendências da moda",
			Active:   true,
		},
	}
}
