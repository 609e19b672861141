// Package report renders collected results as tables, CSV, or markdown.
// All presentation rules live here; stored results are never altered.
package report

import (
	"os"
	"strings"
)

// colorEnabled is false when NO_COLOR env var is set (per no-color.org).
var colorEnabled = os.Getenv("NO_COLOR") == ""

// Green wraps s in ANSI green. Returns s unchanged when NO_COLOR is set.
func Green(s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[32m" + s + "\033[0m"
}

// Yellow wraps s in ANSI yellow. Returns s unchanged when NO_COLOR is set.
func Yellow(s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[33m" + s + "\033[0m"
}

// Red wraps s in ANSI red. Returns s unchanged when NO_COLOR is set.
func Red(s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[31m" + s + "\033[0m"
}

// Dim wraps s in ANSI dim. Returns s unchanged when NO_COLOR is set.
func Dim(s string) string {
	if !colorEnabled {
		return s
	}
	return "\033[2m" + s + "\033[0m"
}

// DefaultAcronyms are the protocol acronyms rendered uppercase in category
// labels. The list is a fixed presentation rule; callers needing a
// different set pass their own slice to FormatCategory.
var DefaultAcronyms = []string{
	"aaa", "acl", "bfd", "bgp", "dns", "evpn", "isis", "lldp", "mlag",
	"ntp", "ospf", "ptp", "snmp", "stp", "stun", "vlan", "vrf", "vxlan",
}

// FormatCategory renders a category label for display: words in the
// acronym list are uppercased, everything else is title-cased. Applied
// only at view time, never to stored results.
func FormatCategory(category string, acronyms []string) string {
	words := strings.Fields(category)
	for i, w := range words {
		lower := strings.ToLower(w)
		if containsString(acronyms, lower) {
			words[i] = strings.ToUpper(w)
		} else if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// FormatCategories formats and joins a category list.
func FormatCategories(categories []string, acronyms []string) string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = FormatCategory(c, acronyms)
	}
	return strings.Join(out, ", ")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
