// Package i18n localizes crowdkit's own CLI output.
//
// Message catalogs are gettext .po files embedded into the binary under
// locales/<lang>/LC_MESSAGES/crowdkit.po. Init selects the catalog once
// at startup; T and N then translate user-facing strings, returning the
// msgid untouched whenever the active catalog has no entry. This is
// crowdkit's own interface language and is unrelated to the Crowdin
// target languages being reconciled.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var catalogs embed.FS

const domain = "crowdkit"

var (
	locale *gotext.Locale
	active string
)

// Init loads the catalog for lang. An empty lang selects the language
// from the environment the way GNU gettext does: LANGUAGE, LC_ALL,
// LC_MESSAGES, LANG, first match wins. Call once before T or N.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	active = lang
	locale = gotext.NewLocaleFSWithPath(lang, catalogs, "locales")
	locale.AddDomain(domain)
	locale.SetDomain(domain)
}

// Language reports the language selected by the last Init call.
func Language() string { return active }

// T translates msgid through the active catalog.
func T(msgid string) string {
	if locale == nil {
		return msgid
	}
	return locale.Get(msgid)
}

// N translates a counted message, picking the plural form the active
// catalog's plural formula selects for n. Without a catalog the English
// rule applies: singular only for n == 1.
func N(singular, plural string, n int) string {
	if locale == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return locale.GetN(singular, plural, n)
}

// detectLanguage walks the gettext environment chain. LANGUAGE may hold
// a colon-separated preference list; only its first entry is consulted.
func detectLanguage() string {
	for _, name := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(name)
		if name == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if lang := normalizeLocale(val); lang != "" {
			return lang
		}
	}
	return "en"
}

// normalizeLocale strips the encoding suffix ("ru_RU.UTF-8" -> "ru_RU")
// and rejects C and POSIX, which mean no translation.
func normalizeLocale(val string) string {
	val, _, _ = strings.Cut(val, ".")
	if val == "" || val == "C" || val == "POSIX" {
		return ""
	}
	return val
}
