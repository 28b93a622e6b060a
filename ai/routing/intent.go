// Package routing classifies free-form queries into platform intents. It is
// the fast path of the orchestration router: keyword matching, a decision
// cache, and a deterministic tie-break policy.
package routing

import "sort"

// Intent represents the classified purpose of a query.
type Intent string

const (
	IntentJournal   Intent = "journal"
	IntentExercise  Intent = "exercise"
	IntentGratitude Intent = "gratitude"
	IntentTherapy   Intent = "therapy"
	IntentGuide     Intent = "guide"
	IntentUnknown   Intent = "unknown"
)

// KnownIntents returns all classifiable intents in lexical order. This
// ordering is the deterministic default for tie-breaking.
func KnownIntents() []Intent {
	intents := []Intent{IntentExercise, IntentGratitude, IntentGuide, IntentJournal, IntentTherapy}
	sort.Slice(intents, func(i, j int) bool { return intents[i] < intents[j] })
	return intents
}

// IsKnown reports whether the intent is one of the classifiable intents.
func (i Intent) IsKnown() bool {
	switch i {
	case IntentJournal, IntentExercise, IntentGratitude, IntentTherapy, IntentGuide:
		return true
	}
	return false
}

// CapabilityTag returns the discovery capability tag for an intent. External
// agents advertise these tags; the router uses them when an intent cannot be
// served locally.
func (i Intent) CapabilityTag() string {
	return "wellbeing." + string(i)
}
