// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"strings"
	"testing"
)

func TestTranslateEnglish(t *testing.T) {
	Init("en")
	if got := T("menu.dashboard"); got != "Dashboard" {
		t.Errorf("menu.dashboard = %q", got)
	}
	if got := T("app.name"); got != "Koda Shortlink" {
		t.Errorf("app.name = %q", got)
	}
}

func TestTranslateGerman(t *testing.T) {
	Init("de")
	defer Init("en")

	got := T("links.showing", 1, 10, 25)
	if got != "Zeige 1 bis 10 von 25 Links" {
		t.Errorf("links.showing = %q", got)
	}
}

func TestFormattingArgs(t *testing.T) {
	Init("en")
	got := T("dashboard.growth_positive", 12.5)
	if got != "+12.5% from last week" {
		t.Errorf("growth_positive = %q", got)
	}
	if got := T("common.error", "boom"); !strings.Contains(got, "boom") {
		t.Errorf("common.error = %q", got)
	}
}

func TestUnknownIDFallsBackToID(t *testing.T) {
	Init("en")
	if got := T("does.not.exist"); got != "does.not.exist" {
		t.Errorf("unknown id = %q", got)
	}
}

func TestLanguageSwitchAndQuery(t *testing.T) {
	Init("en")
	SetLang("de")
	defer Init("en")

	if GetLang() != "de" {
		t.Errorf("GetLang = %q, want de", GetLang())
	}
	locales := GetAvailableLocales()
	if locales["en"] != "English" || locales["de"] != "Deutsch" {
		t.Errorf("locales = %v", locales)
	}
}
