// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package platform

import (
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/optiling/types/planerrors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Constructor returns the base Budget of a registered platform. Configuration overrides are applied afterwards.
type Constructor func() Budget

var (
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register platform with the given name.
//
// To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
}

// RegisterPreset registers a platform that always returns the same fixed Budget.
func RegisterPreset(budget Budget) {
	Register(budget.Name, func() Budget { return budget })
}

// List the names of the registered platforms, sorted.
func List() []string {
	names := make([]string, 0, len(registeredConstructors))
	for name := range registeredConstructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultConfig is the name of the default platform configuration to use if specified.
//
// See NewWithConfig for the format of the configuration string.
var DefaultConfig string

// OPTILING_PLATFORM is the environment variable with the default platform configuration to use.
//
// The format of config is "<platform_name>[:<key>=<value>,...]". See NewWithConfig.
const OPTILING_PLATFORM = "OPTILING_PLATFORM"

// New returns the default Budget.
//
// The default is:
//
// 1. The environment OPTILING_PLATFORM is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. The first registered platform is used with an empty configuration.
//
// It panics if the configuration is invalid.
func New() Budget {
	config, found := os.LookupEnv(OPTILING_PLATFORM)
	if !found {
		config = DefaultConfig
	}
	return NewWithConfig(config)
}

// NewWithConfig is like Parse, but panics on an invalid configuration.
func NewWithConfig(config string) Budget {
	budget, err := Parse(config)
	if err != nil {
		exceptions.Panicf("platform.NewWithConfig(%q): %+v", config, err)
	}
	return budget
}

// Parse takes a configuration string formatted as "<platform_name>[:<key>=<value>,...]" and returns the
// corresponding validated Budget.
//
// The "<platform_name>" is the name of a registered platform (e.g.: "npu"). If empty, the first registered
// platform is used. The recognized keys are:
//
//   - lanes: number of lanes.
//   - scratch: per-lane scratch memory.
//   - block: memory-transfer alignment quantum.
//   - cacheline: cache line size.
//   - vector: vector instruction width.
//   - workspace: fixed system workspace reservation.
//
// Byte quantities accept plain numbers or humanized values, like "248KiB" or "16MiB".
//
// A configuration that can't be resolved (unknown platform, malformed or unknown option) fails the platform query,
// and it's reported as an ErrCoreCount: no lane count is known.
func Parse(config string) (Budget, error) {
	name, options, _ := strings.Cut(config, ":")
	if name == "" {
		if len(registeredConstructors) == 0 {
			return Budget{}, planerrors.CoreCountf("no platforms registered")
		}
		name = firstRegistered
	}
	constructor, found := registeredConstructors[name]
	if !found {
		return Budget{}, planerrors.CoreCountf("can't find platform %q, registered platforms: %q", name, List())
	}
	budget := constructor()
	budget.Name = name
	for _, option := range strings.Split(options, ",") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		key, value, ok := strings.Cut(option, "=")
		if !ok {
			return Budget{}, planerrors.CoreCountf("platform %q: option %q is not in the form key=value", name, option)
		}
		if err := applyOption(&budget, strings.ToLower(key), value); err != nil {
			return Budget{}, planerrors.CoreCountf("platform %q: %v", name, err)
		}
	}
	if err := budget.Validate(); err != nil {
		return Budget{}, err
	}
	klog.V(1).Infof("platform %s", budget)
	return budget, nil
}

func applyOption(budget *Budget, key, value string) error {
	if key == "lanes" {
		lanes, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "invalid lanes=%q", value)
		}
		budget.LaneCount = lanes
		return nil
	}
	var field *int64
	switch key {
	case "scratch":
		field = &budget.ScratchBytes
	case "block":
		field = &budget.BlockBytes
	case "cacheline":
		field = &budget.CacheLineBytes
	case "vector":
		field = &budget.VectorBytes
	case "workspace":
		field = &budget.SystemWorkspaceBytes
	default:
		return errors.Errorf("unknown option %q", key)
	}
	bytes, err := humanize.ParseBytes(value)
	if err != nil {
		return errors.Wrapf(err, "invalid %s=%q", key, value)
	}
	*field = int64(bytes)
	return nil
}
