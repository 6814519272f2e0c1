package domain

// Section is the display grouping assigned during feed assembly.
type Section string

const (
	SectionCritical   Section = "critical"
	SectionNoteworthy Section = "noteworthy"
	SectionSpotlight  Section = "spotlight"
	SectionHistorical Section = "historical"
)

// PageSource identifies which data tier produced a page.
type PageSource string

const (
	PageSourceCache PageSource = "cache"
	PageSourceStore PageSource = "store"
)

// FeedEntry is a canonical item joined with its classification and section.
// Used only for feed assembly and display grouping, never persisted as such.
type FeedEntry struct {
	Item           CanonicalItem
	Classification ClassificationResult
	Section        Section
}

// FeedPage is the externally visible pagination unit.
type FeedPage struct {
	Entries []FeedEntry
	Total   int
	HasMore bool
	Source  PageSource
}
