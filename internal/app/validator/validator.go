// Package validator decides whether a candidate password meets the
// proportion and case-variance constraints of a request.
package validator

import (
	"math"

	"github.com/AlenaMolokova/passgen/internal/app/charclass"
	"github.com/AlenaMolokova/passgen/internal/app/models"
)

// Tally holds per-class character counts of a candidate.
type Tally struct {
	Digits    int
	Uppercase int
	Lowercase int
	Symbols   int
	Unclassed int
	Length    int
}

func Count(candidate string) Tally {
	var t Tally
	for i := 0; i < len(candidate); i++ {
		switch charclass.Classify(rune(candidate[i])) {
		case charclass.Digit:
			t.Digits++
		case charclass.Uppercase:
			t.Uppercase++
		case charclass.Lowercase:
			t.Lowercase++
		case charclass.Symbol:
			t.Symbols++
		default:
			t.Unclassed++
		}
	}
	t.Length = len(candidate)
	return t
}

// CaseVariance is 2*|lowercase/letters - 0.5|: 0 for an exact balance,
// 1 when all letters share one case. It is 0 when there are no letters.
func (t Tally) CaseVariance() float64 {
	letters := t.Uppercase + t.Lowercase
	if letters == 0 {
		return 0
	}
	return 2 * math.Abs(float64(t.Lowercase)/float64(letters)-0.5)
}

// IsValid reports whether candidate satisfies opts. Each constraint only
// applies while its class is enabled.
func IsValid(candidate string, opts models.GenerationOptions) bool {
	if candidate == "" {
		return false
	}
	t := Count(candidate)
	length := float64(t.Length)

	if opts.UseDigits && float64(t.Digits)/length < opts.MinDigitProportion {
		return false
	}
	if opts.SymbolsUsable() && float64(t.Symbols)/length < opts.MinSymbolProportion {
		return false
	}
	if t.Uppercase+t.Lowercase > 0 && opts.UseUppercase && opts.UseLowercase &&
		t.CaseVariance() > opts.MaxCaseVariance {
		return false
	}
	return true
}
