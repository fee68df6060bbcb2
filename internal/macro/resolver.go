// Package macro derives the preprocessor macro list for a simulator build from
// the layered application configuration.
//
// Resolution runs three stages in order. Each stage adds to a Set, and a
// definition whose name is already present evicts the earlier one:
//
//  1. config block: every "config" parameter becomes MBED_CONF_APP_<KEY>,
//     bare when it has no (or a falsy) value.
//  2. explicit macros: every "macros" string, verbatim.
//  3. target overrides: "*" merged with the build target, the target's
//     entries winning. Dotted keys map to MBED_CONF_<KEY>, others to
//     MBED_CONF_APP_<KEY>. Falsy values are skipped.
package macro

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	// SimulatorTarget is the target name used for browser simulator builds.
	SimulatorTarget = "SIMULATOR"
	// WildcardTarget is the override layer applied to every target.
	WildcardTarget = "*"

	appPrefix    = "MBED_CONF_APP_"
	globalPrefix = "MBED_CONF_"
)

var nameReplacer = strings.NewReplacer("-", "_", ".", "_")

// AppMacroName returns the app-namespace macro name for a config key.
func AppMacroName(key string) string {
	return appPrefix + nameReplacer.Replace(strings.ToUpper(key))
}

// OverrideMacroName returns the macro name for a target override key.
// Keys containing a dot live in the global configuration namespace.
func OverrideMacroName(key string) string {
	if strings.Contains(key, ".") {
		return globalPrefix + nameReplacer.Replace(strings.ToUpper(key))
	}
	return AppMacroName(key)
}

// EscapeValue escapes embedded double quotes.
func EscapeValue(value string) string {
	return strings.ReplaceAll(value, `"`, `\"`)
}

// Resolve loads the application configuration at path and resolves it for the simulator target.
func Resolve(path string) (*Set, error) {
	return ResolveTarget(path, SimulatorTarget)
}

// ResolveTarget loads the application configuration at path and resolves it for target.
func ResolveTarget(path, target string) (*Set, error) {
	cfg, err := LoadAppConfig(path)
	if err != nil {
		return nil, err
	}
	return ResolveConfig(cfg, target), nil
}

// ResolveConfig runs the three resolution stages over an already parsed configuration.
func ResolveConfig(cfg *AppConfig, target string) *Set {
	set := NewSet()

	// Stage 1: config block
	if cfg.Config != nil {
		for pair := cfg.Config.Oldest(); pair != nil; pair = pair.Next() {
			name := AppMacroName(pair.Key)

			value, ok := paramValue(pair.Value)
			if !ok || !truthy(value) {
				set.Add(Bare(name))
				continue
			}
			set.Add(Valued(name, EscapeValue(stringify(value))))
		}
	}

	// Stage 2: explicit macros
	for _, literal := range cfg.Macros {
		set.Add(ParseDefinition(literal))
	}

	// Stage 3: target overrides
	overrides := MergeOverrides(cfg, target)
	for pair := overrides.Oldest(); pair != nil; pair = pair.Next() {
		if !truthy(pair.Value) {
			continue
		}
		set.Add(Valued(OverrideMacroName(pair.Key), EscapeValue(stringify(pair.Value))))
	}

	return set
}

// MergeOverrides merges the wildcard override layer with target's layer.
// Keys keep their first-seen position; target's values win.
func MergeOverrides(cfg *AppConfig, target string) *Layer {
	merged := orderedmap.New[string, any]()
	if cfg.TargetOverrides == nil {
		return merged
	}
	for _, name := range []string{WildcardTarget, target} {
		layer, ok := cfg.TargetOverrides.Get(name)
		if !ok || layer == nil {
			continue
		}
		for pair := layer.Oldest(); pair != nil; pair = pair.Next() {
			merged.Set(pair.Key, pair.Value)
		}
	}
	return merged
}

// paramValue extracts the "value" field of a config parameter.
func paramValue(param any) (any, bool) {
	obj, ok := param.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj["value"]
	return v, ok
}

// String renders the configuration summary used in debug logging.
func (c *AppConfig) String() string {
	var params, targets int
	if c.Config != nil {
		params = c.Config.Len()
	}
	if c.TargetOverrides != nil {
		targets = c.TargetOverrides.Len()
	}
	return fmt.Sprintf("config=%d macros=%d target_overrides=%d", params, len(c.Macros), targets)
}
