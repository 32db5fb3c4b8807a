package catalog

import "github.com/Veraticus/dateformat/pkg/types"

const (
	months      = `(january|february|march|april|may|june|july|august|september|october|november|december)`
	shortMonths = `(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`
	weekdays    = `(mon|tue|wed|thu|fri|sat|sun)`
)

// defaultRules is ordered from most specific to least. The bare year rule
// matches any four digits and must stay last.
var defaultRules = []types.Rule{
	{Regex: `^\d{1,2}:\d{1,2}\s(am|pm)\s[a-z]{3},\s` + weekdays + `\s` + months + `\s\d{1,2},\s\d{4}$`, Format: "hh:mm a z, E MMMM dd, yyyy"},
	{Regex: `^\d{8}$`, Format: "yyyyMMdd"},
	{Regex: `^` + shortMonths + `\.\s\d{1,2},\s\d{4}\s\d{1,2}:\d{2}\s(am|pm)\s[a-z]{3}$`, Format: "MMM. dd, yyyy hh:mm a z"},
	{Regex: `^\d{1,2}-\d{1,2}-\d{4}$`, Format: "dd-MM-yyyy"},
	{Regex: `^` + months + `\s\d{1,2},\s\d{4}\s\d{1,2}:\d{2}\s(am|pm)$`, Format: "MMMM dd, yyyy hh:mm a"},
	{Regex: `^\d{4}-\d{1,2}-\d{1,2}$`, Format: "yyyy-MM-dd"},
	{Regex: `^\d{1,2}/\d{1,2}/\d{4}$`, Format: "MM/dd/yyyy"},
	{Regex: `^` + months + `\s\d{1,2},\s\d{4}$`, Format: "MMMM dd, yyyy"},
	{Regex: `^\d{1,2}\s[a-z]{3}\s\d{4}$`, Format: "dd MMM yyyy"},
	{Regex: `^\d{1,2}\s[a-z]{4,}\s\d{4}$`, Format: "dd MMMM yyyy"},

	{Regex: `^\d{12}$`, Format: "yyyyMMddHHmm"},
	{Regex: `^\d{8}\s\d{4}$`, Format: "yyyyMMdd HHmm"},
	{Regex: `^\d{1,2}-\d{1,2}-\d{4}\s\d{1,2}:\d{2}$`, Format: "dd-MM-yyyy HH:mm"},
	{Regex: `^\d{4}-\d{1,2}-\d{1,2}\s\d{1,2}:\d{2}$`, Format: "yyyy-MM-dd HH:mm"},
	{Regex: `^\d{1,2}/\d{1,2}/\d{4}\s\d{1,2}:\d{2}$`, Format: "MM/dd/yyyy HH:mm"},
	{Regex: `^\d{4}/\d{1,2}/\d{1,2}\s\d{1,2}:\d{2}$`, Format: "yyyy/MM/dd HH:mm"},
	{Regex: `^\d{1,2}\s[a-z]{3}\s\d{4}\s\d{1,2}:\d{2}$`, Format: "dd MMM yyyy HH:mm"},
	{Regex: `^\d{1,2}\s[a-z]{4,}\s\d{4}\s\d{1,2}:\d{2}$`, Format: "dd MMMM yyyy HH:mm"},

	{Regex: `^\d{14}$`, Format: "yyyyMMddHHmmss"},
	{Regex: `^\d{8}\s\d{6}$`, Format: "yyyyMMdd HHmmss"},
	{Regex: `^\d{1,2}-\d{1,2}-\d{4}\s\d{1,2}:\d{2}:\d{2}$`, Format: "dd-MM-yyyy HH:mm:ss"},
	{Regex: `^\d{4}-\d{1,2}-\d{1,2}\s\d{1,2}:\d{2}:\d{2}$`, Format: "yyyy-MM-dd HH:mm:ss"},
	{Regex: `^\d{1,2}/\d{1,2}/\d{4}\s\d{1,2}:\d{2}:\d{2}$`, Format: "MM/dd/yyyy HH:mm:ss"},
	{Regex: `^\d{4}/\d{1,2}/\d{1,2}\s\d{1,2}:\d{2}:\d{2}$`, Format: "yyyy/MM/dd HH:mm:ss"},
	{Regex: `^\d{1,2}\s[a-z]{3}\s\d{4}\s\d{1,2}:\d{2}:\d{2}$`, Format: "dd MMM yyyy HH:mm:ss"},
	{Regex: `^\d{1,2}\s[a-z]{4,}\s\d{4}\s\d{1,2}:\d{2}:\d{2}$`, Format: "dd MMMM yyyy HH:mm:ss"},

	{Regex: `^\d{4}$`, Format: "yyyy"},
}

// DefaultRules returns a copy of the built-in rules in priority order.
func DefaultRules() []types.Rule {
	rules := make([]types.Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}
