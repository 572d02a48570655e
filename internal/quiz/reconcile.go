package quiz

import "fmt"

// Decision is a reconciled verdict.
type Decision struct {
	IsCorrect bool
	Source    FeedbackSource

	// Note, when set, is prepended to the explanation.
	Note string
}

// ReconcilePolicy combines the answer key's verdict with the model's.
// model is nil when the model gave no verdict.
type ReconcilePolicy interface {
	Name() string
	Reconcile(local bool, model *bool) Decision
}

// TrustModel uses the model's verdict whenever it gave one.
type TrustModel struct{}

func (TrustModel) Name() string { return "trust-model" }

func (TrustModel) Reconcile(local bool, model *bool) Decision {
	if model == nil {
		return Decision{IsCorrect: local, Source: SourceLocal}
	}
	return Decision{IsCorrect: *model, Source: SourceModel}
}

// TrustLocal always uses the answer key; the model only explains.
type TrustLocal struct{}

func (TrustLocal) Name() string { return "trust-local" }

func (TrustLocal) Reconcile(local bool, _ *bool) Decision {
	return Decision{IsCorrect: local, Source: SourceLocal}
}

// disagreementNote flags feedback whose explanation may argue the other way.
const disagreementNote = "Note: the tutor's verdict did not match the answer key, so the answer key was used."

// RequireAgreement accepts the model's verdict only when it matches the
// answer key. On disagreement the answer key wins and the explanation is
// flagged.
type RequireAgreement struct{}

func (RequireAgreement) Name() string { return "require-agreement" }

func (RequireAgreement) Reconcile(local bool, model *bool) Decision {
	switch {
	case model == nil:
		return Decision{IsCorrect: local, Source: SourceLocal}
	case *model == local:
		return Decision{IsCorrect: local, Source: SourceModel}
	default:
		return Decision{IsCorrect: local, Source: SourceLocal, Note: disagreementNote}
	}
}

// PolicyByName returns the named policy. An empty name means TrustModel.
func PolicyByName(name string) (ReconcilePolicy, error) {
	switch name {
	case "", TrustModel{}.Name():
		return TrustModel{}, nil
	case TrustLocal{}.Name():
		return TrustLocal{}, nil
	case RequireAgreement{}.Name():
		return RequireAgreement{}, nil
	default:
		return nil, fmt.Errorf("unknown reconcile policy %q", name)
	}
}
