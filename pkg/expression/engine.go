package expression

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nexuscrm/hygiene/pkg/constants"
	"github.com/nexuscrm/hygiene/pkg/utils"
)

// Engine compiles and runs hygiene rule expressions against records.
// Programs are cached by source text; records are exposed as a loosely
// typed map so missing fields evaluate to nil instead of failing compilation.
type Engine struct {
	programCache map[string]*vm.Program
	functions    map[string]func(params ...interface{}) (interface{}, error)
	now          func() time.Time
	mu           sync.RWMutex
}

// NewEngine creates a new expression engine
func NewEngine() *Engine {
	return &Engine{
		programCache: make(map[string]*vm.Program),
		functions:    make(map[string]func(params ...interface{}) (interface{}, error)),
		now:          time.Now,
	}
}

// WithClock replaces the clock used by TODAY, NOW and DAYS_SINCE
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
	e.programCache = make(map[string]*vm.Program)
	return e
}

// Evaluate compiles (if needed) and runs an expression against the given environment
func (e *Engine) Evaluate(expression string, env map[string]interface{}) (interface{}, error) {
	program, err := e.getProgram(expression)
	if err != nil {
		return nil, err
	}
	if env == nil {
		env = map[string]interface{}{}
	}
	return expr.Run(program, env)
}

// EvaluateCondition runs an expression that must produce a boolean
func (e *Engine) EvaluateCondition(expression string, env map[string]interface{}) (bool, error) {
	out, err := e.Evaluate(expression, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition returned %T, expected bool", out)
	}
	return b, nil
}

// RegisterFunction registers a custom function
func (e *Engine) RegisterFunction(name string, fn func(params ...interface{}) (interface{}, error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.functions[name] = fn
	// Available functions changed
	e.programCache = make(map[string]*vm.Program)
}

// Validate compiles an expression without running it
func (e *Engine) Validate(expression string) error {
	_, err := e.getProgram(expression)
	return err
}

func (e *Engine) getProgram(expression string) (*vm.Program, error) {
	e.mu.RLock()
	if prog, ok := e.programCache[expression]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double check
	if prog, ok := e.programCache[expression]; ok {
		return prog, nil
	}

	options := append([]expr.Option{
		expr.Env(map[string]interface{}{}),
		expr.AllowUndefinedVariables(),
	}, e.builtins()...)

	for name, fn := range e.functions {
		options = append(options, expr.Function(name, fn))
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}

	e.programCache[expression] = program
	return program, nil
}

func (e *Engine) builtins() []expr.Option {
	now := e.now
	return []expr.Option{
		expr.Function("TODAY", func(params ...interface{}) (interface{}, error) {
			return now().Format(constants.DateLayout), nil
		}),
		expr.Function("NOW", func(params ...interface{}) (interface{}, error) {
			return now().Format(constants.DateTimeLayout), nil
		}),
		expr.Function("ISBLANK", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("ISBLANK requires 1 argument")
			}
			return utils.IsBlank(params[0]), nil
		}),
		expr.Function("NUM", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("NUM requires 1 argument")
			}
			if utils.IsBlank(params[0]) {
				return 0.0, nil
			}
			return utils.ToFloat(params[0])
		}),
		expr.Function("LEN", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("LEN requires 1 argument")
			}
			return len([]rune(utils.ToString(params[0]))), nil
		}),
		expr.Function("UPPER", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("UPPER requires 1 argument")
			}
			return strings.ToUpper(utils.ToString(params[0])), nil
		}),
		expr.Function("LOWER", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("LOWER requires 1 argument")
			}
			return strings.ToLower(utils.ToString(params[0])), nil
		}),
		expr.Function("IF", func(params ...interface{}) (interface{}, error) {
			if len(params) != 3 {
				return nil, fmt.Errorf("IF requires 3 arguments (condition, true_value, false_value)")
			}
			cond, ok := params[0].(bool)
			if !ok {
				return nil, fmt.Errorf("IF condition must be boolean")
			}
			if cond {
				return params[1], nil
			}
			return params[2], nil
		}),
		expr.Function("DAYS_SINCE", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("DAYS_SINCE requires 1 argument")
			}
			t, err := ParseDate(params[0])
			if err != nil {
				return nil, fmt.Errorf("DAYS_SINCE: %w", err)
			}
			return int(now().Sub(t).Hours() / 24), nil
		}),
		expr.Function("DATE_ADD", func(params ...interface{}) (interface{}, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("DATE_ADD requires 2 arguments (date, days)")
			}
			t, err := ParseDate(params[0])
			if err != nil {
				return nil, fmt.Errorf("DATE_ADD date format invalid")
			}
			days, err := utils.ToFloat(params[1])
			if err != nil {
				return nil, fmt.Errorf("DATE_ADD days must be integer")
			}
			return t.AddDate(0, 0, int(days)).Format(constants.DateLayout), nil
		}),
	}
}

// ParseDate accepts time.Time values and strings in date, datetime or RFC3339 form
func ParseDate(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		if val == nil {
			return time.Time{}, fmt.Errorf("nil date")
		}
		return *val, nil
	case string, []byte:
		s := strings.TrimSpace(utils.ToString(val))
		for _, layout := range []string{constants.DateLayout, constants.DateTimeLayout, time.RFC3339} {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return time.Time{}, fmt.Errorf("cannot parse %T as date", v)
}
