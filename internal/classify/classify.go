package classify

import (
	"regexp"
	"strings"

	"hfscanner/internal/risk"
)

// Reason explains why a call site received its tier.
type Reason string

const (
	ReasonCredential      Reason = "stored credential"
	ReasonLocalPath       Reason = "local path"
	ReasonPinnedRevision  Reason = "pinned to commit"
	ReasonMutableRevision Reason = "mutable revision"
	ReasonNoRevision      Reason = "no revision"
)

var (
	credentialRe = regexp.MustCompile(`use_auth_token\s*=\s*True`)
	// localPathRe anchors on the call's own opening parenthesis: the first
	// positional argument is a quoted string starting with ./ or /.
	localPathRe = regexp.MustCompile(`^[^(]*\(\s*["'](?:\./|/)`)
	revisionRe  = regexp.MustCompile(`revision\s*=\s*["']([^"']+)["']`)
)

// Site is one classified occurrence of a call shape.
type Site struct {
	Shape  string    `json:"shape"`
	Line   int       `json:"line"`
	Offset int       `json:"offset"`
	Tier   risk.Tier `json:"tier"`
	Reason Reason    `json:"reason"`
	// Revision is the quoted revision value, when one was found.
	Revision string `json:"revision,omitempty"`
	Text     string `json:"text"`
}

// Classify scans code for every call shape and returns the per-tier counts.
// The result depends only on code.
func Classify(code string) risk.Counts {
	var c risk.Counts
	for _, s := range shapes {
		for _, loc := range s.pattern.FindAllStringIndex(code, -1) {
			tier, _, _ := classifyCall(code[loc[0]:loc[1]])
			c.Inc(tier)
		}
	}
	return c
}

// Sites is Classify with per-occurrence detail. Sites are grouped by shape in
// evaluation order and ordered left to right within a shape.
func Sites(code string) []Site {
	var out []Site
	for _, s := range shapes {
		for _, loc := range s.pattern.FindAllStringIndex(code, -1) {
			call := code[loc[0]:loc[1]]
			tier, reason, rev := classifyCall(call)
			out = append(out, Site{
				Shape:    s.ID,
				Line:     1 + strings.Count(code[:loc[0]], "\n"),
				Offset:   loc[0],
				Tier:     tier,
				Reason:   reason,
				Revision: rev,
				Text:     call,
			})
		}
	}
	return out
}

// classifyCall applies the precedence rules to one matched call span:
// credential or local path, then revision pinning, then unpinned.
func classifyCall(call string) (risk.Tier, Reason, string) {
	if credentialRe.MatchString(call) {
		return risk.Safe, ReasonCredential, ""
	}
	if localPathRe.MatchString(call) {
		return risk.Safe, ReasonLocalPath, ""
	}
	m := revisionRe.FindStringSubmatch(call)
	if m == nil {
		return risk.Unsafe, ReasonNoRevision, ""
	}
	if IsImmutableRevision(m[1]) {
		return risk.Safe, ReasonPinnedRevision, m[1]
	}
	return risk.PartiallySafe, ReasonMutableRevision, m[1]
}
