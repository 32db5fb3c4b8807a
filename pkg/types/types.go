// Package types contains shared data structures used across the application.
package types

// Rule pairs a match expression with the format template it selects.
// Regex is matched against the whole lower-cased input.
type Rule struct {
	Name        string `yaml:"name" toml:"name" json:"name"`
	Regex       string `yaml:"regex" toml:"regex" json:"regex"`
	Format      string `yaml:"format" toml:"format" json:"format"`
	Description string `yaml:"description" toml:"description" json:"description"`
}

// Label returns the rule name, or the format template when the rule is unnamed.
func (r Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Format
}
