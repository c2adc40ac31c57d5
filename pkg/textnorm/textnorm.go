// Package textnorm normaliza texto para búsquedas sin distinguir tildes ni mayúsculas.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold devuelve s en minúsculas y sin marcas diacríticas.
func Fold(s string) string {
	return cases.Lower(language.Und).String(stripMarks(s))
}

// Token devuelve s recortado, sin tildes y en mayúsculas.
func Token(s string) string {
	return cases.Upper(language.Und).String(stripMarks(strings.TrimSpace(s)))
}

// Contains compara por subcadena tras plegar ambos textos.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
