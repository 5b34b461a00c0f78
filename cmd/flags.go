package cmd

import (
	"github.com/spf13/pflag"

	"github.com/mailtempl/mailtempl/internal/compiler"
)

// levelValue is a pflag.Value that rejects unknown validation levels at
// parse time instead of after configuration loading.
type levelValue struct {
	level *string
}

func newLevelValue(target *string) pflag.Value {
	return levelValue{level: target}
}

func (v levelValue) String() string { return *v.level }

func (v levelValue) Type() string { return "string" }

func (v levelValue) Set(val string) error {
	if err := compiler.ValidationLevel(val).Validate(); err != nil {
		return err
	}
	*v.level = val
	return nil
}
