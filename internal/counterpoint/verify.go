package counterpoint

import (
	"fmt"

	"github.com/roach88/cantus/internal/pitch"
)

// Violation describes one broken rule in a completed line.
type Violation struct {
	Position int    `json:"position"`
	Rule     string `json:"rule"`
	Detail   string `json:"detail"`
}

// Rule names reported by Verify.
const (
	RuleLength       = "length"
	RuleOpening      = "opening-perfect"
	RuleConsonance   = "consonance"
	RuleDirectMotion = "direct-motion-into-perfect"
	RulePenultimate  = "penultimate-fixed"
	RuleFinalPerfect = "final-perfect"
	RuleCantusInMode = "cantus-in-mode"
)

// String renders the violation for diagnostics.
func (v Violation) String() string {
	return fmt.Sprintf("position %d: %s: %s", v.Position, v.Rule, v.Detail)
}

// Verify checks a completed line against the hard rules of first species
// and returns every violation found. The preference for imperfect over
// perfect consonances is a style heuristic of the search, not a rule, and
// is not checked.
func Verify(cf, cp []pitch.Note, voice Voice, mode pitch.Mode) []Violation {
	var out []Violation
	add := func(pos int, rule, format string, args ...any) {
		out = append(out, Violation{Position: pos, Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	if len(cp) != len(cf) || len(cf) < 2 {
		add(0, RuleLength, "cantus has %d notes, counterpoint %d", len(cf), len(cp))
		return out
	}
	for i, n := range cf {
		if !mode.Contains(n) {
			add(i, RuleCantusInMode, "%s is not in %s", n, mode.Name())
			return out
		}
	}

	ult, penult := len(cf)-1, len(cf)-2
	direct := func(i int) bool {
		return pitch.Direct(cf[i-1], cf[i], cp[i-1], cp[i])
	}

	for i := range cf {
		switch {
		case i == 0:
			if !pitch.IsPerfectConsonance(cf[0], cp[0], mode) {
				add(i, RuleOpening, "%s over %s", cp[i], cf[i])
			}
		case i == ult:
			if !pitch.IsPerfectConsonance(cf[i], cp[i], mode) {
				add(i, RuleFinalPerfect, "%s over %s", cp[i], cf[i])
			} else if direct(i) {
				add(i, RuleDirectMotion, "%s to %s against %s to %s", cp[i-1], cp[i], cf[i-1], cf[i])
			}
		case i == penult:
			want := pitch.MajorSixth(cf[i])
			if voice == Below {
				want = pitch.MinorThird(cf[i])
			}
			if cp[i] != want {
				add(i, RulePenultimate, "got %s, want %s", cp[i], want)
			}
		default:
			switch {
			case pitch.IsImperfectConsonance(cf[i], cp[i], mode):
			case pitch.IsPerfectConsonance(cf[i], cp[i], mode):
				if direct(i) {
					add(i, RuleDirectMotion, "%s to %s against %s to %s", cp[i-1], cp[i], cf[i-1], cf[i])
				}
			default:
				add(i, RuleConsonance, "%s over %s", cp[i], cf[i])
			}
		}
	}
	return out
}
