package agents

import "github.com/nexuscrm/hygiene/internal/domain/models"

// MissingFieldsAgent reports required fields that carry no value
type MissingFieldsAgent struct{}

// NewMissingFieldsAgent creates a MissingFieldsAgent
func NewMissingFieldsAgent() *MissingFieldsAgent {
	return &MissingFieldsAgent{}
}

// Check returns the blank required fields in the order they were requested
func (a *MissingFieldsAgent) Check(record models.Record, required []string) []string {
	var missing []string
	for _, field := range required {
		if record.IsBlank(field) {
			missing = append(missing, field)
		}
	}
	return missing
}
