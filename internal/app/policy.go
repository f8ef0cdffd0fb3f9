package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shhac/roboaccordion/internal/accordion"
	apperrors "github.com/shhac/roboaccordion/internal/errors"
	"github.com/shhac/roboaccordion/internal/scripting"
)

// ScriptPolicyPrefix marks a policy name as a path to a Lua policy script,
// e.g. "script:policies/reverse.lua".
const ScriptPolicyPrefix = "script:"

// resolvePolicy turns a policy name into a policy. Script policies hold a
// Lua VM and are returned with a closer; built-ins return a nil closer.
func resolvePolicy(name string, logger *slog.Logger) (accordion.TogglePolicy, io.Closer, error) {
	if path, ok := strings.CutPrefix(name, ScriptPolicyPrefix); ok {
		p, err := scripting.LoadPolicy(path, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	}
	p, err := accordion.ParsePolicy(name)
	return p, nil, err
}

// validatePolicyName checks a policy name without loading scripts.
func validatePolicyName(name string) error {
	if path, ok := strings.CutPrefix(name, ScriptPolicyPrefix); ok {
		if strings.TrimSpace(path) == "" {
			return apperrors.ValidationError{Field: "policy", Message: "script policy needs a path"}
		}
		return nil
	}
	_, err := accordion.ParsePolicy(name)
	return err
}

// usablePolicyName reports whether a restored policy can be applied: a
// known built-in, or a script that still exists.
func usablePolicyName(name string) bool {
	if name == "" || validatePolicyName(name) != nil {
		return false
	}
	if path, ok := strings.CutPrefix(name, ScriptPolicyPrefix); ok {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

func closePolicy(c io.Closer, logger *slog.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logger.Warn("failed to release policy", slog.Any("error", fmt.Errorf("close: %w", err)))
	}
}
