// Package textfold normaliza texto libre en portugués para compararlo o usarlo como clave.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold devuelve s en minúsculas, sin acentos, sin puntuación y con espacios simples
// ("Nome da Variação" -> "nome da variacao").
func Fold(s string) string {
	out, _, err := transform.String(folder, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	out = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		default:
			return ' '
		}
	}, out)
	return strings.Join(strings.Fields(out), " ")
}

// Slug Fold con guiones bajos: "Água/Luz" -> "agua_luz".
func Slug(s string) string {
	return strings.ReplaceAll(Fold(s), " ", "_")
}
