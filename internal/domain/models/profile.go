package models

import (
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// Rule is a custom validation rule: when Condition evaluates true the
// Message is reported against the record.
type Rule struct {
	Name      string `yaml:"name" json:"name"`
	Condition string `yaml:"condition" json:"condition"`
	Message   string `yaml:"message" json:"message"`
}

// DedupeProfile tunes duplicate detection
type DedupeProfile struct {
	KeyField  string `yaml:"key_field" json:"key_field"`
	Threshold int    `yaml:"threshold" json:"threshold"`
}

// AlertProfile controls alert routing
type AlertProfile struct {
	DefaultRecipient string `yaml:"default_recipient" json:"default_recipient"`
	RouteToOwner     *bool  `yaml:"route_to_owner" json:"route_to_owner,omitempty"`
}

// EnrichmentProfile holds file-driven enrichment data
type EnrichmentProfile struct {
	Defaults      map[string]interface{}            `yaml:"defaults" json:"defaults,omitempty"`
	ByEmailDomain map[string]map[string]interface{} `yaml:"by_email_domain" json:"by_email_domain,omitempty"`
}

// Profile configures one hygiene pipeline.
// Zero values are replaced by defaults in WithDefaults.
type Profile struct {
	RequiredFields []string           `yaml:"required_fields" json:"required_fields"`
	Dedupe         DedupeProfile      `yaml:"dedupe" json:"dedupe"`
	StaleDays      int                `yaml:"stale_days" json:"stale_days"`
	UntouchedDays  int                `yaml:"untouched_days" json:"untouched_days"`
	Alert          AlertProfile       `yaml:"alert" json:"alert"`
	Enrichment     EnrichmentProfile  `yaml:"enrichment" json:"enrichment"`
	Rules          []Rule             `yaml:"rules" json:"rules,omitempty"`
	Weights        map[string]float64 `yaml:"weights" json:"weights,omitempty"`
}

// DefaultProfile returns the stock pipeline settings
func DefaultProfile() Profile {
	return Profile{}.WithDefaults()
}

// WithDefaults returns a copy with every unset value filled in.
// Weight overrides are layered on top of the default weights.
func (p Profile) WithDefaults() Profile {
	if len(p.RequiredFields) == 0 {
		p.RequiredFields = append([]string(nil), constants.DefaultRequiredFields...)
	}
	if p.Dedupe.KeyField == "" {
		p.Dedupe.KeyField = constants.DefaultDedupeKeyField
	}
	if p.Dedupe.Threshold <= 0 {
		p.Dedupe.Threshold = constants.DefaultDedupeThreshold
	}
	if p.StaleDays <= 0 {
		p.StaleDays = constants.DefaultStaleDays
	}
	if p.UntouchedDays <= 0 {
		p.UntouchedDays = constants.DefaultUntouchedDays
	}
	if p.Alert.DefaultRecipient == "" {
		p.Alert.DefaultRecipient = constants.DefaultAlertRecipient
	}
	if p.Alert.RouteToOwner == nil {
		route := true
		p.Alert.RouteToOwner = &route
	}

	weights := make(map[string]float64, len(constants.DefaultHealthWeights))
	for k, v := range constants.DefaultHealthWeights {
		weights[k] = v
	}
	for k, v := range p.Weights {
		weights[k] = v
	}
	p.Weights = weights
	return p
}

// RoutesToOwner reports whether alerts go to the record owner when possible
func (a AlertProfile) RoutesToOwner() bool {
	return a.RouteToOwner == nil || *a.RouteToOwner
}
