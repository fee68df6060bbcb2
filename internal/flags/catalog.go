// Package flags holds the static compiler and linker flag sets for simulator builds.
package flags

import (
	"fmt"
	"strings"
)

// Strategy selects how the compiled output handles blocking calls in an
// environment that cannot block.
type Strategy string

const (
	// Emterpretify runs blocking code through the interpreted bytecode engine.
	Emterpretify Strategy = "emterpretify"
	// Asyncify rewrites the native stack so blocking calls can unwind and resume.
	Asyncify Strategy = "asyncify"
)

var baseline = []string{
	"-s", "NO_EXIT_RUNTIME=1",
	"-s", "ASSERTIONS=2",

	"-D__MBED__",
	"-DTARGET_SIMULATOR",
	"-DMBED_EXCLUSIVE_ACCESS=1U",
	"-DMBEDTLS_TEST_NULL_ENTROPY",
	"-DMBEDTLS_NO_DEFAULT_ENTROPY_SOURCES",
	"-DMBED_CONF_EVENTS_SHARED_EVENTSIZE=256",
	`-DMBEDTLS_USER_CONFIG_FILE="simulator_mbedtls_config.h"`,
	"-DMBED_CONF_PLATFORM_STDIO_CONVERT_NEWLINES=1",
	"-DMBED_CONF_MBED_TRACE_ENABLE=1",
	// used to feature-detect tracing
	"-DFEATURE_COMMON_PAL=1",

	"-Wall",
}

var strategies = map[Strategy][]string{
	Emterpretify: {
		"-s", "EMTERPRETIFY=1",
		"-s", "EMTERPRETIFY_ASYNC=1",
		"-g3",
	},
	Asyncify: {
		"-s", "ASYNCIFY=1",
		"-g4",
	},
}

// ParseStrategy converts a strategy name (case-insensitive) into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := strategies[s]; !ok {
		return "", fmt.Errorf("unknown execution strategy %q (valid: %s, %s)", name, Emterpretify, Asyncify)
	}
	return s, nil
}

// Baseline returns the flags included in every build.
func Baseline() []string {
	return append([]string(nil), baseline...)
}

// StrategyFlags returns the flag set for s.
func StrategyFlags(s Strategy) ([]string, error) {
	set, ok := strategies[s]
	if !ok {
		return nil, fmt.Errorf("unknown execution strategy %q", s)
	}
	return append([]string(nil), set...), nil
}

// For returns the baseline flags followed by the flags for s.
func For(s Strategy) ([]string, error) {
	set, err := StrategyFlags(s)
	if err != nil {
		return nil, err
	}
	return append(Baseline(), set...), nil
}
