package system

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

// Catalog is the read-only registry of language-model providers and speech models
type Catalog struct {
	providers    []entities.Provider
	speechModels []string
}

// catalogFile is the YAML layout accepted by LoadCatalog
type catalogFile struct {
	Providers    []entities.Provider `yaml:"providers" validate:"required,min=1,dive"`
	SpeechModels []string            `yaml:"speech_models" validate:"required,min=1,dive,required"`
}

// DefaultCatalog returns the built-in providers and speech models
func DefaultCatalog() *Catalog {
	return &Catalog{
		providers: []entities.Provider{
			{ID: "ollama", Name: "Ollama (local)", Models: []string{"llama3.2", "llama3.1", "mistral", "codellama"}},
			{ID: "groq", Name: "Groq", Models: []string{"llama-3.1-70b-versatile", "llama-3.1-8b-instant", "mixtral-8x7b-32768"}},
		},
		speechModels: []string{"tiny", "base", "small", "medium", "large"},
	}
}

// LoadCatalog reads a YAML catalog. An empty path yields the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider catalog: %w", err)
	}
	return parseCatalog(raw)
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse provider catalog: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("invalid provider catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Providers))
	for i := range f.Providers {
		p := &f.Providers[i]
		if p.ID == "" || len(p.Models) == 0 {
			return nil, fmt.Errorf("invalid provider catalog: provider %q needs an id and at least one model", p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("invalid provider catalog: duplicate provider %q", p.ID)
		}
		seen[p.ID] = true
		if p.Name == "" {
			p.Name = p.ID
		}
	}

	return &Catalog{providers: f.Providers, speechModels: f.SpeechModels}, nil
}

// Providers returns a copy of all providers in catalog order
func (c *Catalog) Providers() []entities.Provider {
	out := make([]entities.Provider, len(c.providers))
	for i, p := range c.providers {
		p.Models = append([]string(nil), p.Models...)
		out[i] = p
	}
	return out
}

// Provider looks up a provider by id
func (c *Catalog) Provider(id string) (entities.Provider, bool) {
	for _, p := range c.providers {
		if p.ID == id {
			return p, true
		}
	}
	return entities.Provider{}, false
}

// SpeechModels returns a copy of the known speech-to-text model ids
func (c *Catalog) SpeechModels() []string {
	return append([]string(nil), c.speechModels...)
}

func (c *Catalog) HasSpeechModel(id string) bool {
	for _, m := range c.speechModels {
		if m == id {
			return true
		}
	}
	return false
}

// Validate checks a full configuration against the catalog
func (c *Catalog) Validate(cfg entities.SystemConfig) error {
	p, ok := c.Provider(cfg.Provider)
	if !ok {
		return fmt.Errorf("unknown provider %q: %w", cfg.Provider, entities.ErrInvalidInput)
	}
	if !p.HasModel(cfg.Model) {
		return fmt.Errorf("model %q is not offered by provider %q: %w", cfg.Model, cfg.Provider, entities.ErrInvalidInput)
	}
	if !c.HasSpeechModel(cfg.WhisperModel) {
		return fmt.Errorf("unknown whisper model %q: %w", cfg.WhisperModel, entities.ErrInvalidInput)
	}
	return nil
}
