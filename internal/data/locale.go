package data

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is the client locale index used by localized template text.
type Locale int

const (
	LocaleEnUS Locale = iota
	LocaleKoKR
	LocaleFrFR
	LocaleDeDE
	LocaleZhCN
	LocaleZhTW
	LocaleEsES
	LocaleEsMX
	LocaleRuRU
	localeCount
)

var localeCodes = [localeCount]string{
	"enUS", "koKR", "frFR", "deDE", "zhCN", "zhTW", "esES", "esMX", "ruRU",
}

// Order matches the Locale constants; the matcher returns the index.
var localeMatcher = language.NewMatcher([]language.Tag{
	language.AmericanEnglish,
	language.Korean,
	language.French,
	language.German,
	language.SimplifiedChinese,
	language.TraditionalChinese,
	language.EuropeanSpanish,
	language.LatinAmericanSpanish,
	language.Russian,
})

// ParseLocale maps a client locale string ("deDE", "de-DE", "de") to the
// closest supported locale. Unknown or empty input falls back to enUS.
func ParseLocale(s string) Locale {
	s = strings.TrimSpace(s)
	if s == "" {
		return LocaleEnUS
	}
	for i, code := range localeCodes {
		if strings.EqualFold(s, code) {
			return Locale(i)
		}
	}
	// Client codes carry no separator: "ptBR" -> "pt-BR".
	if len(s) == 4 && !strings.ContainsAny(s, "-_") {
		s = s[:2] + "-" + s[2:]
	}
	tag, err := language.Parse(s)
	if err != nil {
		return LocaleEnUS
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return LocaleEnUS
	}
	return Locale(idx)
}

// Code returns the client code, e.g. "deDE".
func (l Locale) Code() string {
	if l < 0 || l >= localeCount {
		return localeCodes[LocaleEnUS]
	}
	return localeCodes[l]
}

// Localized reports whether l selects text other than the default.
func (l Locale) Localized() bool {
	return l > LocaleEnUS && l < localeCount
}

// pick returns the localized value when present and non-empty.
func pick[L any](locales map[string]L, l Locale, field func(*L) string, def string) string {
	if !l.Localized() {
		return def
	}
	loc, ok := locales[l.Code()]
	if !ok {
		return def
	}
	if v := field(&loc); v != "" {
		return v
	}
	return def
}
