package commands

import (
	"strings"

	"github.com/goliatone/go-l10n/internal/logging"
	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const commandModuleRoot = "l10n.commands"

// CommandLogger returns a module-scoped logger for command handlers, enriching it with
// consistent structured fields so command executions stay attributable.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
