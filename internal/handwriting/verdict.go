package handwriting

import (
	"fmt"
	"strings"

	"github.com/abhisek/langquiz/internal/extract"
)

// Verdict is the outcome of a review.
type Verdict string

const (
	Correct   Verdict = "correct"
	Incorrect Verdict = "incorrect"
	Unknown   Verdict = "unknown"
)

// VerdictSource records how a verdict was reached.
type VerdictSource string

const (
	SourceMarker    VerdictSource = "marker"
	SourceHeuristic VerdictSource = "heuristic"
	SourceNone      VerdictSource = "none"
)

// Decision is a policy's verdict with a confidence in [0, 1].
type Decision struct {
	Verdict    Verdict
	Source     VerdictSource
	Confidence float64
}

// VerdictPolicy decides a verdict from the VERDICT section value (empty
// when the marker was absent) and the full response.
type VerdictPolicy interface {
	Name() string
	Decide(marker string, markerFound bool, raw string) Decision
}

// markerVerdict reads CORRECT or INCORRECT from a VERDICT value.
func markerVerdict(value string) (Verdict, bool) {
	v := strings.ToUpper(strings.Trim(strings.TrimSpace(value), "[]()."))
	switch {
	case strings.HasPrefix(v, "INCORRECT"):
		return Incorrect, true
	case strings.HasPrefix(v, "CORRECT"):
		return Correct, true
	default:
		return Unknown, false
	}
}

var unknown = Decision{Verdict: Unknown, Source: SourceNone}

// MarkerOnly trusts the VERDICT section and nothing else.
type MarkerOnly struct{}

func (MarkerOnly) Name() string { return "marker-only" }

func (MarkerOnly) Decide(marker string, found bool, _ string) Decision {
	if !found {
		return unknown
	}
	if v, ok := markerVerdict(marker); ok {
		return Decision{Verdict: v, Source: SourceMarker, Confidence: 1}
	}
	return unknown
}

// positivePhrases must all appear for the sentiment heuristic to pass.
var positivePhrases = []string{"grammatically correct", "perfectly", "no errors"}

// PositiveSentiment reports whether raw reads as an approval: every
// positive phrase present, ignoring case, and no explicit
// "VERDICT: INCORRECT".
func PositiveSentiment(raw string) bool {
	for _, p := range positivePhrases {
		if !extract.ContainsFold(raw, p) {
			return false
		}
	}
	return !extract.ContainsFold(raw, "VERDICT: INCORRECT")
}

// heuristicConfidence is the weight given to a sentiment-only approval.
const heuristicConfidence = 0.5

// MarkerThenSentiment uses the VERDICT section when it is readable and
// otherwise falls back to PositiveSentiment. A failed heuristic gives
// Unknown rather than Incorrect.
type MarkerThenSentiment struct{}

func (MarkerThenSentiment) Name() string { return "marker-then-sentiment" }

func (MarkerThenSentiment) Decide(marker string, found bool, raw string) Decision {
	if d := (MarkerOnly{}).Decide(marker, found, raw); d.Source == SourceMarker {
		return d
	}
	if PositiveSentiment(raw) {
		return Decision{Verdict: Correct, Source: SourceHeuristic, Confidence: heuristicConfidence}
	}
	return unknown
}

// PolicyByName returns the named verdict policy. An empty name means
// MarkerThenSentiment.
func PolicyByName(name string) (VerdictPolicy, error) {
	switch name {
	case "", MarkerThenSentiment{}.Name():
		return MarkerThenSentiment{}, nil
	case MarkerOnly{}.Name():
		return MarkerOnly{}, nil
	default:
		return nil, fmt.Errorf("unknown verdict policy %q", name)
	}
}
