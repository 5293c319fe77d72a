package agents

import (
	"fmt"
	"regexp"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
	"github.com/nexuscrm/hygiene/pkg/expression"
	"github.com/nexuscrm/hygiene/pkg/utils"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+`)
	phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// ValidEmail reports whether s looks like an email address
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s is an optionally +-prefixed run of 7-15 digits
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidationAgent checks field formats and custom profile rules
type ValidationAgent struct {
	engine *expression.Engine
	rules  []models.Rule
}

// NewValidationAgent creates a ValidationAgent. engine may be nil when no
// custom rules are configured.
func NewValidationAgent(engine *expression.Engine, rules []models.Rule) *ValidationAgent {
	if engine == nil {
		engine = expression.NewEngine()
	}
	return &ValidationAgent{engine: engine, rules: rules}
}

// CompileRules checks every custom rule compiles
func (a *ValidationAgent) CompileRules() error {
	for _, rule := range a.rules {
		if rule.Condition == "" {
			return fmt.Errorf("rule %q has no condition", rule.Name)
		}
		if err := a.engine.Validate(rule.Condition); err != nil {
			return fmt.Errorf("rule %q: %w", rule.Name, err)
		}
	}
	return nil
}

// Validate returns the record's validation errors: email and phone format
// checks whenever the key is present (a blank email is invalid), an amount
// check when the amount carries a value, then custom rules.
func (a *ValidationAgent) Validate(record models.Record) []string {
	var errs []string

	if record.Has(constants.FieldEmail) && !ValidEmail(record.GetString(constants.FieldEmail)) {
		errs = append(errs, constants.MsgInvalidEmail)
	}
	if record.Has(constants.FieldPhone) && !ValidPhone(record.GetString(constants.FieldPhone)) {
		errs = append(errs, constants.MsgInvalidPhone)
	}
	if !record.IsBlank(constants.FieldAmount) {
		amount, err := utils.ToFloat(record[constants.FieldAmount])
		if err != nil {
			errs = append(errs, constants.MsgInvalidAmount)
		} else if amount < 0 {
			errs = append(errs, constants.MsgNegativeAmount)
		}
	}

	for _, rule := range a.rules {
		hit, err := a.engine.EvaluateCondition(rule.Condition, map[string]interface{}(record))
		if err != nil {
			errs = append(errs, fmt.Sprintf("Rule %s failed: %v", rule.Name, err))
			continue
		}
		if hit {
			msg := rule.Message
			if msg == "" {
				msg = "Rule " + rule.Name + " violated"
			}
			errs = append(errs, msg)
		}
	}
	return errs
}
