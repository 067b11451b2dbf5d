// Package foundation holds small building blocks shared by griddle packages.
package foundation

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/griddle/internal/foundation/errors"
)

// FieldError is one rejected configuration value.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

func (fe FieldError) Error() string {
	if fe.Field == "" {
		return fe.Message
	}
	return fe.Field + ": " + fe.Message
}

// Problems collects every rejected value of a configuration so they can be
// reported together. The zero value is ready to use.
type Problems struct {
	list []FieldError
}

// Add records a problem.
func (p *Problems) Add(field, code, format string, args ...any) {
	p.list = append(p.list, FieldError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Require records a problem unless ok holds.
func (p *Problems) Require(ok bool, field, code, format string, args ...any) {
	if !ok {
		p.Add(field, code, format, args...)
	}
}

// List returns the recorded problems in the order they were found.
func (p *Problems) List() []FieldError { return p.list }

// Err returns nil when nothing was recorded, otherwise a config error naming every problem.
func (p *Problems) Err() error {
	if len(p.list) == 0 {
		return nil
	}
	msgs := make([]string, len(p.list))
	for i, fe := range p.list {
		msgs[i] = fe.Error()
	}
	return errors.ConfigError("invalid configuration: "+strings.Join(msgs, "; ")).
		WithContext("fields", len(p.list)).
		Build()
}
