// Package i18n is responsible for internationalization/translation handling and generation.
package i18n

import (
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// DefaultLocaleDir is where compiled catalogs are installed.
const DefaultLocaleDir = "/usr/share/locale"

var (
	// G is the shorthand for Gettext.
	G = func(msgid string) string { return msgid }
	// NG is the shorthand for NGettext.
	NG = func(msgid string, msgidPlural string, n uint32) string {
		if n == 1 {
			return msgid
		}
		return msgidPlural
	}
)

type options struct {
	localeDir string
	getenv    func(string) string
}

// Option changes where and how translations are looked up.
type Option func(*options)

// WithLocaleDir overrides DefaultLocaleDir.
func WithLocaleDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.localeDir = dir
		}
	}
}

// WithGetenv overrides how the language environment variables are read.
func WithGetenv(getenv func(string) string) Option {
	return func(o *options) {
		o.getenv = getenv
	}
}

// InitI18nDomain installs G and NG for domain in the language of the user.
// Messages stay untranslated when no language or catalog is found.
func InitI18nDomain(domain string, opts ...Option) {
	o := options{
		localeDir: DefaultLocaleDir,
		getenv:    os.Getenv,
	}
	for _, f := range opts {
		f(&o)
	}

	lang := userLanguage(o.getenv)
	if lang == "" {
		return
	}

	loc := gotext.NewLocale(o.localeDir, lang)
	loc.AddDomain(domain)
	log.Debugf("Loaded %q translations for %s", domain, lang)

	G = func(msgid string) string {
		return loc.GetD(domain, msgid)
	}
	NG = func(msgid string, msgidPlural string, n uint32) string {
		return loc.GetND(domain, msgid, msgidPlural, int(n))
	}
}

// userLanguage follows gettext precedence: LANGUAGE, LC_ALL, LC_MESSAGES, LANG.
func userLanguage(getenv func(string) string) string {
	for _, v := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := getenv(v)
		if v == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}

		// fr_FR.UTF-8@euro -> fr_FR
		val, _, _ = strings.Cut(val, ".")
		val, _, _ = strings.Cut(val, "@")
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}

		if _, err := language.Parse(strings.ReplaceAll(val, "_", "-")); err != nil {
			log.Debugf("Ignoring invalid language %q from %s: %v", val, v, err)
			continue
		}
		return val
	}
	return ""
}
