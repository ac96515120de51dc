package documents

import "fmt"

// GlobalConfig holds the visual theme tokens
type GlobalConfig struct {
	Fonts   Fonts        `json:"fonts"`
	Colors  ColorPalette `json:"colors"`
	Spacing Spacing      `json:"spacing"`
	Footer  Footer       `json:"footer"`
}

type Fonts struct {
	Primary   string    `json:"primary"`
	Secondary string    `json:"secondary"`
	Sizes     FontSizes `json:"sizes"`
}

type FontSizes struct {
	Small  string `json:"small"`
	Base   string `json:"base"`
	Large  string `json:"large"`
	XLarge string `json:"xlarge"`
}

type ColorPalette struct {
	Primary           string     `json:"primary"`
	Secondary         string     `json:"secondary"`
	Accent            string     `json:"accent"`
	Background        string     `json:"background"`
	BackgroundSection string     `json:"backgroundSection"`
	BackgroundCard    string     `json:"backgroundCard"`
	Text              TextColors `json:"text"`
	Success           string     `json:"success"`
	Warning           string     `json:"warning"`
	Error             string     `json:"error"`
}

type TextColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Muted     string `json:"muted"`
}

type Spacing struct {
	Section   string `json:"section"`
	Container string `json:"container"`
}

type Footer struct {
	Text      string `json:"text"`
	Company   string `json:"company"`
	ShowHeart bool   `json:"showHeart"`
}

// DefaultGlobalConfig is the theme used until an admin saves one
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Fonts: Fonts{
			Primary:   "Inter, system-ui, sans-serif",
			Secondary: "Georgia, serif",
			Sizes: FontSizes{
				Small:  "0.875rem",
				Base:   "1rem",
				Large:  "1.25rem",
				XLarge: "2rem",
			},
		},
		Colors: ColorPalette{
			Primary:           "#dc2626",
			Secondary:         "#1f2937",
			Accent:            "#f59e0b",
			Background:        "#ffffff",
			BackgroundSection: "#f9fafb",
			BackgroundCard:    "#ffffff",
			Text: TextColors{
				Primary:   "#111827",
				Secondary: "#6b7280",
				Muted:     "#9ca3af",
			},
			Success: "#10b981",
			Warning: "#f59e0b",
			Error:   "#ef4444",
		},
		Spacing: Spacing{
			Section:   "5rem",
			Container: "1200px",
		},
		Footer: Footer{
			Text:      "Desenvolvido com ❤️ por",
			Company:   "Sua Empresa",
			ShowHeart: true,
		},
	}
}

// ColorPreset is a named partial palette
type ColorPreset struct {
	Name              string `json:"name"`
	Primary           string `json:"primary"`
	Secondary         string `json:"secondary"`
	Accent            string `json:"accent"`
	Background        string `json:"background"`
	BackgroundSection string `json:"backgroundSection"`
	BackgroundCard    string `json:"backgroundCard"`
}

// ColorPresets lists the palettes offered in the theme editor
func ColorPresets() []ColorPreset {
	return []ColorPreset{
		{"Vermelho Clássico", "#dc2626", "#1f2937", "#f59e0b", "#ffffff", "#fef2f2", "#ffffff"},
		{"Azul Corporativo", "#2563eb", "#1e40af", "#06b6d4", "#ffffff", "#eff6ff", "#ffffff"},
		{"Verde Moderno", "#059669", "#047857", "#10b981", "#ffffff", "#ecfdf5", "#ffffff"},
		{"Roxo Criativo", "#7c3aed", "#5b21b6", "#a855f7", "#ffffff", "#f5f3ff", "#ffffff"},
		{"Rosa Elegante", "#e11d48", "#be185d", "#f43f5e", "#ffffff", "#fdf2f8", "#ffffff"},
		{"Tema Escuro", "#f59e0b", "#d97706", "#fbbf24", "#111827", "#1f2937", "#374151"},
	}
}

// ApplyPreset overlays the named palette, text and status colors are kept
func (g GlobalConfig) ApplyPreset(name string) (GlobalConfig, error) {
	for _, p := range ColorPresets() {
		if p.Name != name {
			continue
		}
		g.Colors.Primary = p.Primary
		g.Colors.Secondary = p.Secondary
		g.Colors.Accent = p.Accent
		g.Colors.Background = p.Background
		g.Colors.BackgroundSection = p.BackgroundSection
		g.Colors.BackgroundCard = p.BackgroundCard
		return g, nil
	}
	return g, fmt.Errorf("unknown color preset %q", name)
}

// CSSVariables maps the theme onto the custom properties the page stylesheet reads
func (g GlobalConfig) CSSVariables() map[string]string {
	return map[string]string{
		"--font-primary":             g.Fonts.Primary,
		"--font-secondary":           g.Fonts.Secondary,
		"--font-size-small":          g.Fonts.Sizes.Small,
		"--font-size-base":           g.Fonts.Sizes.Base,
		"--font-size-large":          g.Fonts.Sizes.Large,
		"--font-size-xlarge":         g.Fonts.Sizes.XLarge,
		"--color-primary":            g.Colors.Primary,
		"--color-secondary":          g.Colors.Secondary,
		"--color-accent":             g.Colors.Accent,
		"--color-background":         g.Colors.Background,
		"--color-background-section": g.Colors.BackgroundSection,
		"--color-background-card":    g.Colors.BackgroundCard,
		"--color-text-primary":       g.Colors.Text.Primary,
		"--color-text-secondary":     g.Colors.Text.Secondary,
		"--color-text-muted":         g.Colors.Text.Muted,
		"--color-success":            g.Colors.Success,
		"--color-warning":            g.Colors.Warning,
		"--color-error":              g.Colors.Error,
		"--spacing-section":          g.Spacing.Section,
		"--spacing-container":        g.Spacing.Container,
	}
}
