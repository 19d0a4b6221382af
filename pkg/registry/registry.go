// Package registry holds the static list of configured data sources and
// resolves CLI selections against it.
package registry

import (
	"fmt"
	"os"

	"github.com/tlegoff/municrawl/models"
	"gopkg.in/yaml.v3"
)

// SelectorAll selects every configured source in declaration order.
const SelectorAll = "all"

// ConfigurationError reports invalid startup input: an unknown source
// selector, a malformed registry file, or a missing credential. It is always
// fatal and always surfaced before any network call.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Registry is an immutable, ordered set of data sources.
type Registry struct {
	sources []models.DataSource
}

// defaultSources lists the municipal sections the pipeline tracks. Adding a
// source is a data change only; nothing keys off names.
var defaultSources = []models.DataSource{
	{
		Name:          "mairie_arretes",
		URL:           "https://www.audierne.bzh/publications-arretes/",
		Method:        models.MethodFirecrawlOCR,
		Description:   "Arrêtés - publications (actes + annexes)",
		ExpectedCount: 4010,
	},
	{
		Name:        "mairie_deliberations",
		URL:         "https://www.audierne.bzh/deliberations-conseil-municipal/",
		Method:      models.MethodFirecrawlOCR,
		Description: "Délibérations du conseil municipal",
	},
	{
		Name:        "commission_controle",
		URL:         "https://www.audierne.bzh/systeme/documentheque/?documents_category=49",
		Method:      models.MethodFirecrawlOCR,
		Description: "Campagne commission de contrôle",
	},
}

// Default returns the built-in registry.
func Default() *Registry {
	return &Registry{sources: defaultSources}
}

// New builds a registry from an explicit source list, validating it.
func New(sources []models.DataSource) (*Registry, error) {
	if len(sources) == 0 {
		return nil, &ConfigurationError{Reason: "registry has no sources"}
	}
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		if s.Name == "" {
			return nil, &ConfigurationError{Reason: "source with empty name"}
		}
		if s.URL == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("source %q has no url", s.Name)}
		}
		if seen[s.Name] {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("duplicate source name %q", s.Name)}
		}
		seen[s.Name] = true
	}
	return &Registry{sources: sources}, nil
}

// registryFile is the YAML shape of an external registry file.
type registryFile struct {
	Sources []models.DataSource `yaml:"sources"`
}

// LoadFile reads a YAML registry file, replacing the built-in source list.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("cannot read registry file %s: %v", path, err)}
	}
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("cannot parse registry file %s: %v", path, err)}
	}
	return New(rf.Sources)
}

// Sources returns the full source list in declaration order.
func (r *Registry) Sources() []models.DataSource {
	return r.sources
}

// Resolve maps a CLI selector to the concrete sources to run. "all" returns
// every source in declaration order; a name returns the single matching
// entry; anything else is a ConfigurationError.
func (r *Registry) Resolve(selector string) ([]models.DataSource, error) {
	if selector == "" || selector == SelectorAll {
		return r.sources, nil
	}
	for _, s := range r.sources {
		if s.Name == selector {
			return []models.DataSource{s}, nil
		}
	}
	return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown source %q (available: %s)", selector, r.nameList())}
}

func (r *Registry) nameList() string {
	out := ""
	for i, s := range r.sources {
		if i > 0 {
			out += ", "
		}
		out += s.Name
	}
	return out
}
