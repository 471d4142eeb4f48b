// Package i18n localizes the notices shown to users.
package i18n

import (
	"embed"
	"log"
	"net/http"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// LangParam is the query parameter that selects a language explicitly.
const LangParam = "lang"

var supported = []language.Tag{language.English, language.Indonesian}

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	matcher         language.Matcher
	defaultLanguage language.Tag
}

// NewTranslator builds a Translator whose fallback language is defaultLocale
// (e.g. "en" or "id"). Unknown locales fall back to English.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.en.toml", "active.id.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("i18n: failed to load %s: %v", file, err)
		}
	}

	return &Translator{
		bundle:          bundle,
		matcher:         language.NewMatcher(supported),
		defaultLanguage: tag,
	}
}

// T renders the message identified by key for the given locale, falling back
// to the default locale and finally to the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("i18n: localize failed (key=%s, locales=%v): %v", key, languages, err)
		return key
	}
	return msg
}

// Locale picks the language for r from the lang query parameter, then the
// Accept-Language header, then the default.
func (t *Translator) Locale(r *http.Request) string {
	if r == nil {
		return t.defaultLanguage.String()
	}
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return t.match(tag)
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return t.match(tags...)
		}
	}
	return t.defaultLanguage.String()
}

func (t *Translator) match(tags ...language.Tag) string {
	_, idx, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.defaultLanguage.String()
	}
	return supported[idx].String()
}
