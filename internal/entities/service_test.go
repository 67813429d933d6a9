package entities_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-l10n/entities"
	entitysvc "github.com/goliatone/go-l10n/internal/entities"
	translationsvc "github.com/goliatone/go-l10n/internal/translation"
	"github.com/goliatone/go-l10n/pkg/interfaces"
	"github.com/goliatone/go-l10n/translation"
	"github.com/google/uuid"
)

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func upperTranslator() interfaces.Translator {
	return interfaces.TranslatorFunc(func(_ context.Context, text, _, _ string) (string, error) {
		return strings.ToUpper(text), nil
	})
}

func newService(store *entitysvc.MemoryStore, translator interfaces.Translator, opts ...entitysvc.ServiceOption) entitysvc.Service {
	engineOpts := []translationsvc.EngineOption{
		translationsvc.WithPair(translation.LocalePair{First: "id", Second: "en"}),
		translationsvc.WithSupportedLocales([]string{"id", "en"}),
	}
	if translator != nil {
		engineOpts = append(engineOpts, translationsvc.WithOracle(translationsvc.NewOracle(translator)))
	}
	engine := translationsvc.NewEngine(engineOpts...)
	opts = append([]entitysvc.ServiceOption{
		entitysvc.WithLocales("id", "id"),
	}, opts...)
	return entitysvc.NewService(store, engine, opts...)
}

func TestWriteCreatesEntityWithSlugAndTranslation(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, upperTranslator())

	view, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind: "programs",
		Changes: translation.ChangeSet{
			"id": {Name: strPtr("Universitas Test")},
		},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if view.Slug == nil || *view.Slug != "universitas-test" {
		t.Fatalf("slug = %v, want universitas-test", view.Slug)
	}
	if view.Name == nil || *view.Name != "Universitas Test" {
		t.Fatalf("name = %v, want authored name", view.Name)
	}
	if view.LocaleUsed == nil || *view.LocaleUsed != "id" {
		t.Fatalf("locale_used = %v, want id", view.LocaleUsed)
	}

	english, err := svc.Get(context.Background(), view.ID, "en", "id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if english.Name == nil || *english.Name != "UNIVERSITAS TEST" {
		t.Fatalf("english name = %v, want oracle output", english.Name)
	}
	if english.LocaleUsed == nil || *english.LocaleUsed != "en" {
		t.Fatalf("locale_used = %v, want en", english.LocaleUsed)
	}
}

func TestWriteCreateWithoutSlugKind(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	view, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind: "testimonials",
		Changes: translation.ChangeSet{
			"id": {Name: strPtr("Alumni Review")},
		},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if view.Slug != nil {
		t.Fatalf("slug = %q, want none for slugless kind", *view.Slug)
	}
}

func TestWriteRejectsSlugForSluglessKind(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	_, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind: "testimonials",
		Slug: strPtr("casual-slug"),
		Changes: translation.ChangeSet{
			"id": {Name: strPtr("Alumni Review")},
		},
	})
	if !errors.Is(err, entities.ErrSlugUnsupported) {
		t.Fatalf("err = %v, want ErrSlugUnsupported", err)
	}
}

func TestWriteRejectsUnknownKind(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	_, err := svc.Write(context.Background(), entities.WriteRequest{Kind: "galaxies"})
	if !errors.Is(err, entities.ErrKindUnknown) {
		t.Fatalf("err = %v, want ErrKindUnknown", err)
	}

	_, err = svc.Write(context.Background(), entities.WriteRequest{})
	if !errors.Is(err, entities.ErrKindRequired) {
		t.Fatalf("err = %v, want ErrKindRequired", err)
	}
}

func TestWriteSuffixesCollidingSlugs(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	first, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "events",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Open House")}},
	})
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	second, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "events",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Open House")}},
	})
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if *first.Slug != "open-house" || *second.Slug != "open-house-2" {
		t.Fatalf("slugs = %q, %q; want open-house and open-house-2", *first.Slug, *second.Slug)
	}
}

func TestWriteAfterDeleteKeepsSlugReserved(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	first, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "events",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Career Fair")}},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := svc.Delete(context.Background(), first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	taken, err := store.Entities().SlugExists(context.Background(), "events", "career-fair", uuid.Nil)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !taken {
		t.Fatal("expected soft-deleted row to keep its slug reserved")
	}

	recreated, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "events",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Career Fair")}},
	})
	if err != nil {
		t.Fatalf("recreate Write: %v", err)
	}
	if recreated.Slug == nil || *recreated.Slug != "career-fair-2" {
		t.Fatalf("slug = %v, want career-fair-2", recreated.Slug)
	}
}

func TestWriteUpdatePatchesSingleField(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, upperTranslator())

	created, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind: "colleges",
		Changes: translation.ChangeSet{
			"id": {Name: strPtr("Fakultas Teknik"), Description: strPtr("Deskripsi awal")},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Write(context.Background(), entities.WriteRequest{
		ID:   &created.ID,
		Kind: "colleges",
		Changes: translation.ChangeSet{
			"en": {Description: strPtr("English description")},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	indonesian, err := store.LocaleRecords().GetByParentAndLocale(context.Background(), created.ID, "id")
	if err != nil {
		t.Fatalf("GetByParentAndLocale(id): %v", err)
	}
	if indonesian.Name != "Fakultas Teknik" || indonesian.Description == nil || *indonesian.Description != "Deskripsi awal" {
		t.Fatalf("authored locale mutated by unrelated update: %+v", indonesian)
	}

	english, err := store.LocaleRecords().GetByParentAndLocale(context.Background(), created.ID, "en")
	if err != nil {
		t.Fatalf("GetByParentAndLocale(en): %v", err)
	}
	if english.Description == nil || *english.Description != "English description" {
		t.Fatalf("english description = %v, want patched value", english.Description)
	}
	if english.Name != "FAKULTAS TEKNIK" {
		t.Fatalf("english name = %q, want value from creation-time oracle", english.Name)
	}
}

func TestWriteUpdateKeepsSlugStable(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	created, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "posts",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Judul Lama")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Write(context.Background(), entities.WriteRequest{
		ID:      &created.ID,
		Kind:    "posts",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Judul Baru")}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if *updated.Slug != "judul-lama" {
		t.Fatalf("slug = %q, want stable judul-lama", *updated.Slug)
	}
}

func TestWriteUpdateRegeneratesSlugOnRequest(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	created, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "posts",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Judul Lama")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Write(context.Background(), entities.WriteRequest{
		ID:             &created.ID,
		Kind:           "posts",
		RegenerateSlug: true,
		Changes:        translation.ChangeSet{"id": {Name: strPtr("Judul Baru")}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if *updated.Slug != "judul-baru" {
		t.Fatalf("slug = %q, want regenerated judul-baru", *updated.Slug)
	}
}

func TestWriteUpdateHonorsExplicitSlug(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	created, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "posts",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Judul Lama")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Write(context.Background(), entities.WriteRequest{
		ID:   &created.ID,
		Kind: "posts",
		Slug: strPtr("Custom Slug Text"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if *updated.Slug != "custom-slug-text" {
		t.Fatalf("slug = %q, want normalized explicit slug", *updated.Slug)
	}
}

func TestWriteUpdateDoesNotAutoTranslateByDefault(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	calls := 0
	counting := interfaces.TranslatorFunc(func(_ context.Context, text, _, _ string) (string, error) {
		calls++
		return strings.ToUpper(text), nil
	})
	svc := newService(store, counting)

	created, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "events",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Seminar Nasional")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	createCalls := calls

	_, err = svc.Write(context.Background(), entities.WriteRequest{
		ID:      &created.ID,
		Kind:    "events",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Seminar Internasional")}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if calls != createCalls {
		t.Fatalf("oracle called %d times on update, want 0", calls-createCalls)
	}

	_, err = svc.Write(context.Background(), entities.WriteRequest{
		ID:            &created.ID,
		Kind:          "events",
		AutoTranslate: boolPtr(true),
		Changes:       translation.ChangeSet{"id": {Name: strPtr("Seminar Dunia")}},
	})
	if err != nil {
		t.Fatalf("update with override: %v", err)
	}
	if calls == createCalls {
		t.Fatal("oracle not called despite explicit auto-translate override")
	}

	english, err := store.LocaleRecords().GetByParentAndLocale(context.Background(), created.ID, "en")
	if err != nil {
		t.Fatalf("GetByParentAndLocale(en): %v", err)
	}
	if english.Name != "SEMINAR DUNIA" {
		t.Fatalf("english name = %q, want translation of latest update", english.Name)
	}
}

func TestWriteCreateRespectsAutoTranslatePolicy(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	calls := 0
	counting := interfaces.TranslatorFunc(func(_ context.Context, text, _, _ string) (string, error) {
		calls++
		return strings.ToUpper(text), nil
	})
	svc := newService(store, counting, entitysvc.WithAutoTranslateOnCreate(false))

	_, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "events",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Seminar Nasional")}},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if calls != 0 {
		t.Fatalf("oracle called %d times with creation policy disabled", calls)
	}
}

func TestWriteMergesAttributePatch(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	created, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind: "events",
		Attributes: map[string]any{
			"venue":    "Aula Utama",
			"capacity": 300,
		},
		Changes: translation.ChangeSet{"id": {Name: strPtr("Wisuda")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Write(context.Background(), entities.WriteRequest{
		ID:   &created.ID,
		Kind: "events",
		Attributes: map[string]any{
			"capacity": nil,
			"online":   true,
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Attributes["venue"] != "Aula Utama" {
		t.Fatalf("venue = %v, want untouched value", updated.Attributes["venue"])
	}
	if _, ok := updated.Attributes["capacity"]; ok {
		t.Fatal("capacity still present, want cleared by nil patch value")
	}
	if updated.Attributes["online"] != true {
		t.Fatalf("online = %v, want true", updated.Attributes["online"])
	}
}

func TestGetFallsBackToAuthoredLocale(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	created, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:          "events",
		AutoTranslate: boolPtr(false),
		Changes:       translation.ChangeSet{"id": {Name: strPtr("Pameran Seni")}},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	view, err := svc.Get(context.Background(), created.ID, "en", "id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.Name == nil || *view.Name != "Pameran Seni" {
		t.Fatalf("name = %v, want fallback content", view.Name)
	}
	if view.LocaleUsed == nil || *view.LocaleUsed != "id" {
		t.Fatalf("locale_used = %v, want fallback id", view.LocaleUsed)
	}
}

func TestGetBySlugResolvesEntity(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	created, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "programs",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Teknik Informatika")}},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	view, err := svc.GetBySlug(context.Background(), "programs", "teknik-informatika", "id", "id")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if view.ID != created.ID {
		t.Fatalf("resolved %s, want %s", view.ID, created.ID)
	}

	var notFound *entities.NotFoundError
	if _, err := svc.GetBySlug(context.Background(), "programs", "missing", "id", "id"); !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestListReturnsLocalizedViews(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, nil)

	for _, name := range []string{"Acara Satu", "Acara Dua"} {
		if _, err := svc.Write(context.Background(), entities.WriteRequest{
			Kind:    "events",
			Changes: translation.ChangeSet{"id": {Name: strPtr(name)}},
		}); err != nil {
			t.Fatalf("Write(%q): %v", name, err)
		}
	}

	views, err := svc.List(context.Background(), "events", "id", "id")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}
	for _, view := range views {
		if view.Name == nil {
			t.Fatalf("view %s has no resolved name", view.ID)
		}
	}
}

func TestDeleteSoftDeletesAndPreservesLocaleRecords(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	svc := newService(store, upperTranslator())

	created, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "events",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Festival Budaya")}},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var notFound *entities.NotFoundError
	if _, err := svc.Get(context.Background(), created.ID, "id", "id"); !errors.As(err, &notFound) {
		t.Fatalf("Get after delete = %v, want NotFoundError", err)
	}

	records, err := store.LocaleRecords().ListByParent(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ListByParent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d after delete, want locale records preserved", len(records))
	}

	views, err := svc.List(context.Background(), "events", "id", "id")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("deleted entity still listed: %d views", len(views))
	}
}

func TestDeleteRequiresID(t *testing.T) {
	svc := newService(entitysvc.NewMemoryStore(), nil)

	if err := svc.Delete(context.Background(), uuid.Nil); !errors.Is(err, entities.ErrIDRequired) {
		t.Fatalf("Delete err = %v, want ErrIDRequired", err)
	}
	if _, err := svc.Get(context.Background(), uuid.Nil, "id", "id"); !errors.Is(err, entities.ErrIDRequired) {
		t.Fatalf("Get err = %v, want ErrIDRequired", err)
	}
}

func TestWriteDeterministicStamps(t *testing.T) {
	store := entitysvc.NewMemoryStore()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.New()
	svc := newService(store, nil,
		entitysvc.WithClock(func() time.Time { return fixed }),
		entitysvc.WithIDGenerator(func() uuid.UUID { return id }),
	)

	view, err := svc.Write(context.Background(), entities.WriteRequest{
		Kind:    "events",
		Changes: translation.ChangeSet{"id": {Name: strPtr("Acara Tetap")}},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if view.ID != id {
		t.Fatalf("id = %s, want injected %s", view.ID, id)
	}
	if !view.CreatedAt.Equal(fixed) || !view.UpdatedAt.Equal(fixed) {
		t.Fatalf("stamps = %s/%s, want fixed clock", view.CreatedAt, view.UpdatedAt)
	}
}
