package entitycmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-l10n/internal/commands"
	entitysvc "github.com/goliatone/go-l10n/internal/entities"
	"github.com/goliatone/go-l10n/pkg/interfaces"
	"github.com/google/uuid"
)

const deleteEntityMessageType = "l10n.entity.delete"

// DeleteEntityCommand requests the soft deletion of an entity. Locale records
// stay behind for restore.
type DeleteEntityCommand struct {
	ID uuid.UUID `json:"id"`
}

// Type implements command.Message.
func (DeleteEntityCommand) Type() string { return deleteEntityMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m DeleteEntityCommand) Validate() error {
	errs := validation.Errors{}
	if m.ID == uuid.Nil {
		errs["id"] = validation.NewError("l10n.entity.delete.id_required", "id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteEntityHandler soft-deletes entities via the write coordinator.
type DeleteEntityHandler struct {
	inner *commands.Handler[DeleteEntityCommand]
}

// NewDeleteEntityHandler constructs a handler wired to the provided coordinator.
func NewDeleteEntityHandler(service entitysvc.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteEntityCommand]) *DeleteEntityHandler {
	exec := func(ctx context.Context, msg DeleteEntityCommand) error {
		return service.Delete(ctx, msg.ID)
	}

	handlerOpts := []commands.HandlerOption[DeleteEntityCommand]{
		commands.WithLogger[DeleteEntityCommand](logger),
		commands.WithOperation[DeleteEntityCommand]("entity.delete"),
		commands.WithMessageFields(func(msg DeleteEntityCommand) map[string]any {
			if msg.ID == uuid.Nil {
				return nil
			}
			return map[string]any{"entity_id": msg.ID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DeleteEntityCommand](logger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteEntityHandler{
		inner: commands.NewHandler[DeleteEntityCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteEntityCommand].Execute.
func (h *DeleteEntityHandler) Execute(ctx context.Context, msg DeleteEntityCommand) error {
	return h.inner.Execute(ctx, msg)
}
