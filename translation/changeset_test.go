package translation_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-l10n/translation"
)

func TestParseChangeSetSuffixedFields(t *testing.T) {
	fields := map[string]string{
		"name_id":        "Universitas Test",
		"name_en":        "Test University",
		"description_en": "An English description",
	}

	set, err := translation.ParseChangeSet(fields, translation.ParseOptions{DefaultLocale: "id"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	id, ok := set["id"]
	if !ok || id.Name == nil || *id.Name != "Universitas Test" {
		t.Fatalf("expected id name, got %+v", id)
	}
	if id.Description != nil {
		t.Fatalf("id description must stay untouched, got %v", id.Description)
	}
	en, ok := set["en"]
	if !ok || en.Name == nil || *en.Name != "Test University" {
		t.Fatalf("expected en name, got %+v", en)
	}
	if en.Description == nil || *en.Description != "An English description" {
		t.Fatalf("expected en description, got %v", en.Description)
	}
}

func TestParseChangeSetBareFieldsUseAuthoredLocale(t *testing.T) {
	fields := map[string]string{
		"name":        "Nama",
		"description": "Deskripsi",
	}

	set, err := translation.ParseChangeSet(fields, translation.ParseOptions{
		Locale:        "en",
		DefaultLocale: "id",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	en, ok := set["en"]
	if !ok || en.Name == nil || *en.Name != "Nama" {
		t.Fatalf("bare fields must land on the request locale, got %+v", set)
	}
}

func TestParseChangeSetTitleAlias(t *testing.T) {
	set, err := translation.ParseChangeSet(map[string]string{"title_en": "Title"}, translation.ParseOptions{DefaultLocale: "id"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	en := set["en"]
	if en.Name == nil || *en.Name != "Title" {
		t.Fatalf("title must alias name, got %+v", en)
	}
}

func TestParseChangeSetSkipsUnknownFields(t *testing.T) {
	fields := map[string]string{
		"event_location": "Jakarta",
		"slug":           "ignored-here",
		"name_id":        "Nama",
	}

	set, err := translation.ParseChangeSet(fields, translation.ParseOptions{DefaultLocale: "id"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(set) != 1 {
		t.Fatalf("unknown fields must be skipped, got %+v", set)
	}
}

func TestParseChangeSetEmptyValueCounts(t *testing.T) {
	set, err := translation.ParseChangeSet(map[string]string{"description_id": ""}, translation.ParseOptions{DefaultLocale: "id"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id := set["id"]
	if id.Description == nil || *id.Description != "" {
		t.Fatalf("present empty value must count as a change, got %+v", id)
	}
}

func TestParseChangeSetRejectsUnsupportedLocale(t *testing.T) {
	_, err := translation.ParseChangeSet(map[string]string{"name_fr": "Nom"}, translation.ParseOptions{
		DefaultLocale:    "id",
		SupportedLocales: []string{"id", "en"},
	})
	if !errors.Is(err, translation.ErrUnsupportedLocale) {
		t.Fatalf("expected unsupported locale error, got %v", err)
	}
}

func TestParseChangeSetRequiresSomeLocale(t *testing.T) {
	_, err := translation.ParseChangeSet(map[string]string{"name": "Nama"}, translation.ParseOptions{})
	if !errors.Is(err, translation.ErrLocaleRequired) {
		t.Fatalf("expected locale required error, got %v", err)
	}
}

func TestParseAutoTranslate(t *testing.T) {
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"No", true, false},
		{"off", true, false},
	}
	for _, tc := range cases {
		got, err := translation.ParseAutoTranslate(tc.raw, tc.def)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q: expected %v, got %v", tc.raw, tc.want, got)
		}
	}

	if _, err := translation.ParseAutoTranslate("maybe", false); !errors.Is(err, translation.ErrAutoTranslateFlag) {
		t.Fatalf("expected flag error, got %v", err)
	}
}

func TestChangeSetNormalizeAndTouches(t *testing.T) {
	name := "Nama"
	set := translation.ChangeSet{
		" ID ": {Name: &name},
		"en":   {},
	}

	normalized := set.Normalize()
	if _, ok := normalized["id"]; !ok {
		t.Fatalf("expected normalized id key, got %+v", normalized)
	}
	if _, ok := normalized["en"]; ok {
		t.Fatal("untouched entries must be dropped")
	}
	if !normalized.Touches("id") || normalized.Touches("en") {
		t.Fatalf("touch accounting wrong: %+v", normalized)
	}
	if locales := normalized.Locales(); len(locales) != 1 || locales[0] != "id" {
		t.Fatalf("unexpected locales %v", locales)
	}
}
