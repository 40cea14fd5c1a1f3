package generator

import (
	"errors"
	"strings"

	"github.com/AlenaMolokova/passgen/internal/app/charclass"
	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/AlenaMolokova/passgen/internal/app/random"
)

var ErrEmptyAlphabet = errors.New("no characters available for the enabled classes")

type Generator interface {
	Generate() (string, error)
}

// CandidateGenerator samples fixed-length strings uniformly from an
// alphabet. Every position is an independent draw over the whole alphabet.
type CandidateGenerator struct {
	alphabet string
	length   int
	source   random.Source
}

var _ Generator = (*CandidateGenerator)(nil)

// BuildAlphabet concatenates the enabled classes in a fixed order:
// uppercase, lowercase, digits, then the caller's symbols. Repeated symbols
// are kept once so no character is weighted above its class peers.
func BuildAlphabet(opts models.GenerationOptions) string {
	var sb strings.Builder
	if opts.UseUppercase {
		sb.WriteString(charclass.Uppercases)
	}
	if opts.UseLowercase {
		sb.WriteString(charclass.Lowercases)
	}
	if opts.UseDigits {
		sb.WriteString(charclass.Digits)
	}
	if opts.UseSymbols {
		var seen [128]bool
		for i := 0; i < len(opts.Symbols); i++ {
			c := opts.Symbols[i]
			if c >= 128 || seen[c] || charclass.Classify(rune(c)) != charclass.Symbol {
				continue
			}
			seen[c] = true
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func NewCandidateGenerator(opts models.GenerationOptions, source random.Source) (*CandidateGenerator, error) {
	alphabet := BuildAlphabet(opts)
	if alphabet == "" {
		return nil, ErrEmptyAlphabet
	}
	return &CandidateGenerator{
		alphabet: alphabet,
		length:   opts.PasswordLength,
		source:   source,
	}, nil
}

func (g *CandidateGenerator) Alphabet() string {
	return g.alphabet
}

func (g *CandidateGenerator) Generate() (string, error) {
	id := make([]byte, g.length)
	last := len(g.alphabet) - 1
	for i := range id {
		idx, err := g.source.NextInRange(0, last)
		if err != nil {
			return "", err
		}
		id[i] = g.alphabet[idx]
	}
	return string(id), nil
}
