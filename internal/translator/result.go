package translator

// ResolutionNote records which tier resolved a span.
type ResolutionNote string

const (
	// NoteDirect marks an exact dictionary hit (whole span, longest match).
	NoteDirect ResolutionNote = "direct"
	// NoteInferred marks a span composed from known fragments.
	NoteInferred ResolutionNote = "inferred"
	// NoteAPI marks a span translated by the remote model.
	NoteAPI ResolutionNote = "api"
	// NoteUnknown marks a span nothing could resolve.
	NoteUnknown ResolutionNote = "unknown"
)

// BreakdownEntry is the per-span record of how one piece of the input was
// resolved. Entries are request-scoped and never persisted.
type BreakdownEntry struct {
	Word        string         `json:"word"`
	Translation string         `json:"translation,omitempty"`
	Phonetic    string         `json:"phonetic,omitempty"`
	Note        ResolutionNote `json:"note"`
}

// Stats aggregates resolution outcomes. The counts sum to the number of
// breakdown entries.
type Stats struct {
	LocalHits int `json:"localHits"`
	Inferred  int `json:"inferred"`
	APICalls  int `json:"apiCalls"`
	Unknown   int `json:"unknown"`
}

// Result is the outcome of one tiered resolution request.
type Result struct {
	OriginalText string           `json:"originalText"`
	Translation  string           `json:"translation"`
	Breakdown    []BreakdownEntry `json:"breakdown"`
	Stats        Stats            `json:"stats"`
	TimeTakenMs  int64            `json:"timeTaken"`
	APICalled    bool             `json:"apiCalled"`
}
