package domain

type IntentSource string

const (
	IntentSourceAI       IntentSource = "ai"
	IntentSourceFallback IntentSource = "fallback"
)

func (s IntentSource) String() string {
	return string(s)
}

// IntentResolution is the tagged outcome of resolving a prompt into genre ids.
type IntentResolution struct {
	Source      IntentSource
	GenreIDs    GenreIDSet
	AIAttempted bool
	// AIError holds the classifier failure that caused a fallback, if any.
	AIError error
}

func AIResolved(ids GenreIDSet) IntentResolution {
	return IntentResolution{
		Source:      IntentSourceAI,
		GenreIDs:    ids,
		AIAttempted: true,
	}
}

func FallbackResolved(ids GenreIDSet, aiErr error) IntentResolution {
	return IntentResolution{
		Source:      IntentSourceFallback,
		GenreIDs:    ids,
		AIAttempted: true,
		AIError:     aiErr,
	}
}

// UsedAI mirrors the used_ai response flag: true whenever the AI path was tried.
func (r IntentResolution) UsedAI() bool {
	return r.AIAttempted
}

func (r IntentResolution) IsFallback() bool {
	return r.Source == IntentSourceFallback
}
