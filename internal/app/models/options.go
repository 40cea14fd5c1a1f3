package models

import (
	"fmt"

	"github.com/AlenaMolokova/passgen/internal/app/charclass"
)

const DefaultSymbols = "!@#$%^&*()-_=+[]{}|;:',.<>?/`~"

// GenerationOptions is the immutable set of constraints for one generate call.
type GenerationOptions struct {
	PasswordLength      int     `json:"password_length"`
	MinDigitProportion  float64 `json:"min_digit_proportion"`
	MinSymbolProportion float64 `json:"min_symbol_proportion"`
	MaxCaseVariance     float64 `json:"max_case_variance"`
	UseUppercase        bool    `json:"use_uppercase"`
	UseLowercase        bool    `json:"use_lowercase"`
	UseDigits           bool    `json:"use_digits"`
	UseSymbols          bool    `json:"use_symbols"`
	Symbols             string  `json:"symbols"`
}

func DefaultOptions() GenerationOptions {
	return GenerationOptions{
		PasswordLength:  16,
		MaxCaseVariance: 1,
		UseUppercase:    true,
		UseLowercase:    true,
		UseDigits:       true,
		UseSymbols:      true,
		Symbols:         DefaultSymbols,
	}
}

// SymbolsUsable reports whether the symbol class contributes characters.
func (o GenerationOptions) SymbolsUsable() bool {
	return o.UseSymbols && o.Symbols != ""
}

// Classes lists the enabled character classes in alphabet order.
func (o GenerationOptions) Classes() []string {
	classes := make([]string, 0, 4)
	if o.UseUppercase {
		classes = append(classes, charclass.Uppercase.String())
	}
	if o.UseLowercase {
		classes = append(classes, charclass.Lowercase.String())
	}
	if o.UseDigits {
		classes = append(classes, charclass.Digit.String())
	}
	if o.SymbolsUsable() {
		classes = append(classes, charclass.Symbol.String())
	}
	return classes
}

// Validate checks the structural invariants of the options. It does not
// decide whether the constraints can be met in time.
func (o GenerationOptions) Validate() error {
	if o.PasswordLength < 1 {
		return fmt.Errorf("%w: password length must be at least 1, got %d", ErrInvalidOptions, o.PasswordLength)
	}

	proportions := []struct {
		name  string
		value float64
	}{
		{"min digit proportion", o.MinDigitProportion},
		{"min symbol proportion", o.MinSymbolProportion},
		{"max case variance", o.MaxCaseVariance},
	}
	for _, p := range proportions {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidOptions, p.name, p.value)
		}
	}

	if o.UseSymbols {
		for _, c := range o.Symbols {
			if charclass.Classify(c) != charclass.Symbol {
				return fmt.Errorf("%w: %q is not a symbol character", ErrInvalidOptions, c)
			}
		}
	}

	if !o.UseUppercase && !o.UseLowercase && !o.UseDigits && !o.SymbolsUsable() {
		if o.UseSymbols {
			return fmt.Errorf("%w: symbol set is empty and no other class is enabled", ErrInvalidOptions)
		}
		return fmt.Errorf("%w: at least one character class must be enabled", ErrInvalidOptions)
	}

	return nil
}
