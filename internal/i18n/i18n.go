// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization support for the Koda client.
// It uses the go-i18n library to load translation files embedded in the
// binary, allowing the interface to be displayed in multiple languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// bundle stores all loaded translation messages from the locale files.
var bundle *i18n.Bundle

// localizer translates messages into the active language.
var localizer *i18n.Localizer

// currentLang is the language code the localizer was built with.
var currentLang = "en"

// Init initializes the i18n bundle and sets up the localizer for a specific
// language. It parses all embedded YAML files from the 'locales' directory.
func Init(lang string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		bundle.ParseMessageFileBytes(data, f.Name())
	}

	currentLang = lang
	localizer = i18n.NewLocalizer(bundle, lang)
}

// T translates a message by its ID. Extra arguments are applied with
// fmt.Sprintf against the localized template. If the i18n system has not
// been initialized it defaults to English, and an unknown message ID is
// returned verbatim as a fallback.
func T(messageID string, args ...interface{}) string {
	if localizer == nil {
		Init("en")
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// SetLang changes the active language of the localizer.
func SetLang(lang string) {
	Init(lang)
}

// GetLang returns the language code currently in use.
func GetLang() string {
	return currentLang
}

// GetAvailableLocales returns the selectable languages as a map of
// language code to display name.
func GetAvailableLocales() map[string]string {
	return map[string]string{
		"en": "English",
		"de": "Deutsch",
	}
}
