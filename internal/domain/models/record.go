package models

import (
	"github.com/nexuscrm/hygiene/pkg/constants"
	"github.com/nexuscrm/hygiene/pkg/utils"
)

// Record is a single CRM row: lead, contact, account or deal
type Record map[string]interface{}

// Clone returns a shallow copy safe to modify
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the key is present, even if blank
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// IsBlank reports whether the field is absent, nil or whitespace
func (r Record) IsBlank(key string) bool {
	return utils.IsBlank(r[key])
}

// GetString returns the field rendered as a string, "" when absent
func (r Record) GetString(key string) string {
	return utils.ToString(r[key])
}

// ID returns the record identifier if the record carries one
func (r Record) ID() string {
	return r.GetString(constants.FieldID)
}

// BlankCount counts blank values across the record's keys
func (r Record) BlankCount() int {
	n := 0
	for k := range r {
		if r.IsBlank(k) {
			n++
		}
	}
	return n
}

// AnyHas reports whether any record carries key
func AnyHas(records []Record, key string) bool {
	for _, r := range records {
		if r.Has(key) {
			return true
		}
	}
	return false
}
