package entitycmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-l10n/entities"
	"github.com/goliatone/go-l10n/internal/commands"
	entitysvc "github.com/goliatone/go-l10n/internal/entities"
	"github.com/goliatone/go-l10n/pkg/interfaces"
	"github.com/goliatone/go-l10n/translation"
	"github.com/google/uuid"
)

const upsertEntityMessageType = "l10n.entity.upsert"

// UpsertEntityCommand carries one admin save as it arrives off the wire:
// raw localized fields keyed by suffix ("name_id", "description_en"), a
// sparse attribute patch, and the auto-translate flag still in string form.
type UpsertEntityCommand struct {
	ID             *uuid.UUID        `json:"id,omitempty"`
	Kind           string            `json:"kind"`
	Fields         map[string]string `json:"fields,omitempty"`
	Attributes     map[string]any    `json:"attributes,omitempty"`
	Slug           *string           `json:"slug,omitempty"`
	RegenerateSlug bool              `json:"regenerate_slug,omitempty"`
	Locale         string            `json:"locale,omitempty"`
	AutoTranslate  string            `json:"auto_translate,omitempty"`
}

// Type implements command.Message.
func (UpsertEntityCommand) Type() string { return upsertEntityMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m UpsertEntityCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Kind) == "" {
		errs["kind"] = validation.NewError("l10n.entity.upsert.kind_required", "kind is required")
	}
	if m.ID != nil && *m.ID == uuid.Nil {
		errs["id"] = validation.NewError("l10n.entity.upsert.id_invalid", "id must be a valid uuid when present")
	}
	if m.ID == nil && len(m.Fields) == 0 && len(m.Attributes) == 0 {
		errs["fields"] = validation.NewError("l10n.entity.upsert.fields_required", "a creation needs at least one field or attribute")
	}
	if _, err := translation.ParseAutoTranslate(m.AutoTranslate, false); err != nil {
		errs["auto_translate"] = validation.NewError("l10n.entity.upsert.auto_translate_invalid", "auto_translate must be a boolean flag")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpsertEntityHandler funnels admin saves through the write coordinator using
// the shared command handler foundation.
type UpsertEntityHandler struct {
	inner *commands.Handler[UpsertEntityCommand]
}

// UpsertEntityConfig carries the locale policy the handler parses against.
type UpsertEntityConfig struct {
	DefaultLocale    string
	SupportedLocales []string
}

// NewUpsertEntityHandler constructs a handler wired to the provided coordinator.
func NewUpsertEntityHandler(service entitysvc.Service, cfg UpsertEntityConfig, logger interfaces.Logger, opts ...commands.HandlerOption[UpsertEntityCommand]) *UpsertEntityHandler {
	exec := func(ctx context.Context, msg UpsertEntityCommand) error {
		changes, err := translation.ParseChangeSet(msg.Fields, translation.ParseOptions{
			Locale:           msg.Locale,
			DefaultLocale:    cfg.DefaultLocale,
			SupportedLocales: cfg.SupportedLocales,
		})
		if err != nil {
			return err
		}

		req := entities.WriteRequest{
			ID:             msg.ID,
			Kind:           msg.Kind,
			Attributes:     msg.Attributes,
			Slug:           msg.Slug,
			RegenerateSlug: msg.RegenerateSlug,
			Changes:        changes,
			Locale:         msg.Locale,
		}
		if flag := strings.TrimSpace(msg.AutoTranslate); flag != "" {
			enabled, err := translation.ParseAutoTranslate(flag, false)
			if err != nil {
				return err
			}
			req.AutoTranslate = &enabled
		}

		_, err = service.Write(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[UpsertEntityCommand]{
		commands.WithLogger[UpsertEntityCommand](logger),
		commands.WithOperation[UpsertEntityCommand]("entity.upsert"),
		commands.WithMessageFields(func(msg UpsertEntityCommand) map[string]any {
			fields := map[string]any{}
			if msg.ID != nil && *msg.ID != uuid.Nil {
				fields["entity_id"] = *msg.ID
			}
			if trimmed := strings.TrimSpace(msg.Kind); trimmed != "" {
				fields["kind"] = trimmed
			}
			if trimmed := strings.TrimSpace(msg.Locale); trimmed != "" {
				fields["locale"] = trimmed
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[UpsertEntityCommand](logger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpsertEntityHandler{
		inner: commands.NewHandler[UpsertEntityCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UpsertEntityCommand].Execute.
func (h *UpsertEntityHandler) Execute(ctx context.Context, msg UpsertEntityCommand) error {
	return h.inner.Execute(ctx, msg)
}
