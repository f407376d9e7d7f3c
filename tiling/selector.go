// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tiling

import (
	"github.com/gomlx/optiling/types/planerrors"
	"k8s.io/klog/v2"
)

// Rule of a Selector decision table: if When returns true for the facts, Mode is selected.
type Rule[F any] struct {
	Name string
	When func(facts F) bool
	Mode Mode
}

// Selector is an ordered decision table of rules over facts of type F: the first matching rule wins.
// If none matches, Fallback is returned. A Fallback of ModeInvalid means there is no functional catch-all, and
// Select returns an ErrUnsupportedMode error instead.
//
// Selectors are immutable values, safe for concurrent use.
type Selector[F any] struct {
	Name     string
	Rules    []Rule[F]
	Fallback Mode
}

// Select returns the mode of the first rule that matches the facts.
func (s Selector[F]) Select(facts F) (Mode, error) {
	for _, rule := range s.Rules {
		matched := rule.When(facts)
		klog.V(2).Infof("%s: rule %q matched=%v", s.Name, rule.Name, matched)
		if matched {
			return rule.Mode, nil
		}
	}
	if s.Fallback == ModeInvalid {
		return ModeInvalid, planerrors.UnsupportedModef("%s: none of the %d rules matched and there is no fallback",
			s.Name, len(s.Rules))
	}
	klog.V(2).Infof("%s: no rule matched, fallback to %s", s.Name, s.Fallback)
	return s.Fallback, nil
}

// RuleNamed returns the index of the rule with the given name, or -1 if not found.
func (s Selector[F]) RuleNamed(name string) int {
	for ii, rule := range s.Rules {
		if rule.Name == name {
			return ii
		}
	}
	return -1
}
