package oracle

import (
	"regexp"
	"strings"

	"hibari/internal/config"
	"hibari/internal/util"
)

// defaultContains are exact-substring patterns for known engine
// limitations. Matching is case-sensitive.
var defaultContains = []string{
	"Arrow error: Divide by zero error",
	"Overflow happened on:",
	"Out of Range Error:",
	"Conversion Error:",
}

// defaultRegex are regex patterns for known limitation families.
var defaultRegex = []string{
	`Cast error: Cannot cast string '.*' to value of Date32 type`,
	`Binder Error: No function matches`,
	`Overflow in (multiplication|addition|subtraction)`,
}

type pattern struct {
	text string
	re   *regexp.Regexp
}

// Whitelist classifies error messages as known engine limitations.
type Whitelist struct {
	patterns []pattern
}

// NewWhitelist builds the matcher from the built-in patterns plus the
// configured extensions. Regex patterns are compiled once here; an
// invalid regex is logged and never matches, so a bad pattern can only
// surface more errors, not hide them.
func NewWhitelist(cfg config.Whitelist) *Whitelist {
	w := &Whitelist{}
	for _, p := range append(append([]string{}, defaultContains...), cfg.Contains...) {
		w.patterns = append(w.patterns, pattern{text: p})
	}
	for _, p := range append(append([]string{}, defaultRegex...), cfg.Regex...) {
		re, err := regexp.Compile(p)
		if err != nil {
			util.Warnf("invalid whitelist regex %q: %v", p, err)
			continue
		}
		w.patterns = append(w.patterns, pattern{text: p, re: re})
	}
	return w
}

// IsWhitelisted reports whether the message matches any known pattern.
// The empty message never matches.
func (w *Whitelist) IsWhitelisted(message string) bool {
	if message == "" {
		return false
	}
	for _, p := range w.patterns {
		if p.re != nil {
			if p.re.MatchString(message) {
				return true
			}
			continue
		}
		if strings.Contains(message, p.text) {
			return true
		}
	}
	return false
}
