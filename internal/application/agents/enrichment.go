package agents

import (
	"context"
	"sort"
	"strings"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// EnrichmentAgent fills blank fields from enrichment data
type EnrichmentAgent struct{}

// NewEnrichmentAgent creates an EnrichmentAgent
func NewEnrichmentAgent() *EnrichmentAgent {
	return &EnrichmentAgent{}
}

// Enrich returns a copy of record where each blank field present in source is
// set from source, plus the sorted list of fields it filled.
func (a *EnrichmentAgent) Enrich(record models.Record, source map[string]interface{}) (models.Record, []string) {
	out := record.Clone()
	var filled []string
	for key, value := range source {
		if out.IsBlank(key) {
			out[key] = value
			filled = append(filled, key)
		}
	}
	sort.Strings(filled)
	return out, filled
}

// StaticProvider offers the same values for every record
type StaticProvider struct {
	values map[string]interface{}
}

var _ ports.EnrichmentProvider = (*StaticProvider)(nil)

// NewStaticProvider creates a StaticProvider
func NewStaticProvider(values map[string]interface{}) *StaticProvider {
	return &StaticProvider{values: values}
}

func (p *StaticProvider) Name() string { return "static" }

// Lookup returns the configured values
func (p *StaticProvider) Lookup(_ context.Context, _ models.Record) (map[string]interface{}, error) {
	return p.values, nil
}

// DomainProvider offers company attributes keyed by the record's email domain
type DomainProvider struct {
	byDomain map[string]map[string]interface{}
}

var _ ports.EnrichmentProvider = (*DomainProvider)(nil)

// NewDomainProvider creates a DomainProvider; domains match case-insensitively
func NewDomainProvider(byDomain map[string]map[string]interface{}) *DomainProvider {
	lowered := make(map[string]map[string]interface{}, len(byDomain))
	for domain, values := range byDomain {
		lowered[strings.ToLower(strings.TrimSpace(domain))] = values
	}
	return &DomainProvider{byDomain: lowered}
}

func (p *DomainProvider) Name() string { return "email_domain" }

// Lookup returns the values for the record's email domain, if any
func (p *DomainProvider) Lookup(_ context.Context, record models.Record) (map[string]interface{}, error) {
	email := strings.TrimSpace(record.GetString(constants.FieldEmail))
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return nil, nil
	}
	return p.byDomain[strings.ToLower(email[at+1:])], nil
}

// ProvidersFromProfile builds the providers described by a profile, most
// specific first.
func ProvidersFromProfile(p models.EnrichmentProfile) []ports.EnrichmentProvider {
	var providers []ports.EnrichmentProvider
	if len(p.ByEmailDomain) > 0 {
		providers = append(providers, NewDomainProvider(p.ByEmailDomain))
	}
	if len(p.Defaults) > 0 {
		providers = append(providers, NewStaticProvider(p.Defaults))
	}
	return providers
}
