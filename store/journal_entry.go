package store

// JournalEntry is a persisted journal entry together with its analysis.
// Analysis fields are immutable once written; re-analyzing a journal creates
// a new entry.
type JournalEntry struct {
	ID        int32
	UID       string
	UserID    string
	Content   string
	Sentiment string
	Emotion   string
	Summary   string
	// AnalysisJSON holds the full insight record (themes, distortions,
	// growth indicators, reflection questions, advice) as JSON.
	AnalysisJSON string
	CreatedTs    int64
}

type FindJournalEntry struct {
	ID     *int32
	UID    *string
	UserID *string
	Limit  *int
}

type DeleteJournalEntry struct {
	ID int32
}
