package layout

import (
	_ "embed"
	"fmt"

	"github.com/frudas24/dualhead/internal/monitor"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

var builtin = mustParse(rulesYAML)

type ruleFile struct {
	Rules []LayoutRule `yaml:"rules"`
}

// Rules returns a copy of the compiled-in rule set.
func Rules() []LayoutRule {
	out := make([]LayoutRule, len(builtin))
	copy(out, builtin)
	return out
}

// Parse decodes and validates a rule document.
func Parse(data []byte) ([]LayoutRule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("decode rules: no rules defined")
	}
	seen := make(map[string]bool, len(f.Rules))
	for i, r := range f.Rules {
		if r.Placement == "" {
			f.Rules[i].Placement = RightOf
			r.Placement = RightOf
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("rule %s: duplicate name", r.Name)
		}
		seen[r.Name] = true
	}
	return f.Rules, nil
}

// Marshal encodes a rule set in the same document shape Parse reads.
func Marshal(rules []LayoutRule) ([]byte, error) {
	return yaml.Marshal(ruleFile{Rules: rules})
}

// Lookup returns the rule with the given name.
func Lookup(rules []LayoutRule, name string) (LayoutRule, bool) {
	for _, r := range rules {
		if r.Name == name {
			return r, true
		}
	}
	return LayoutRule{}, false
}

// Select picks the rule whose naming convention the query result uses: the
// first rule with any of its outputs present, in any state. When nothing
// matches the first rule is returned, so its trigger simply reads as absent.
func Select(rules []LayoutRule, outputs []monitor.Output) (LayoutRule, bool) {
	if len(rules) == 0 {
		return LayoutRule{}, false
	}
	for _, r := range rules {
		for _, name := range r.Names() {
			if _, ok := monitor.FindOutput(outputs, name); ok {
				return r, true
			}
		}
	}
	return rules[0], true
}

// mustParse decodes the embedded rules and panics on malformed data.
func mustParse(data []byte) []LayoutRule {
	rules, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("layout: embedded rules: %v", err))
	}
	return rules
}
