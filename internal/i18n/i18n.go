// Package i18n translates UI strings and violation codes.
//
// Portuguese is the default language; English is the only other one.
// Unknown keys translate to themselves so a missing entry is visible but
// never breaks a page.
package i18n

import (
	"golang.org/x/text/language"
)

const (
	PT      = "pt"
	EN      = "en"
	Default = PT
)

var matcher = language.NewMatcher([]language.Tag{language.Portuguese, language.English})

// DetectLanguage picks pt or en from an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	if idx == 1 {
		return EN
	}
	return PT
}

// Normalize maps anything unsupported to the default language.
func Normalize(lang string) string {
	switch lang {
	case PT, EN:
		return lang
	default:
		return Default
	}
}

// T returns the message for key in lang, falling back to Portuguese and then
// to the key itself.
func T(lang, key string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages[Default][key]; ok {
		return s
	}
	return key
}

// Violation translates a core violation code.
func Violation(lang, code string) string {
	return T(lang, "violation."+code)
}
