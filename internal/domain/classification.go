package domain

// Label is an importance tier derived from a 0-100 score.
type Label string

const (
	LabelBreaking Label = "breaking"
	LabelMajor    Label = "major"
	LabelNotable  Label = "notable"
	LabelInfo     Label = "info"
	LabelNoise    Label = "noise"
)

// Score thresholds that map a 0-100 score onto a Label. Items scoring below
// MinFeedScore are dropped from the feed entirely.
const (
	BreakingThreshold = 95
	MajorThreshold    = 75
	NotableThreshold  = 55
	MinFeedScore      = 40
)

// LabelForScore maps a score onto its importance tier.
func LabelForScore(score int) Label {
	switch {
	case score >= BreakingThreshold:
		return LabelBreaking
	case score >= MajorThreshold:
		return LabelMajor
	case score >= NotableThreshold:
		return LabelNotable
	case score >= MinFeedScore:
		return LabelInfo
	default:
		return LabelNoise
	}
}

// Severity returns the rank of a label, highest tier first (breaking = 0).
func (l Label) Severity() int {
	switch l {
	case LabelBreaking:
		return 0
	case LabelMajor:
		return 1
	case LabelNotable:
		return 2
	case LabelInfo:
		return 3
	default:
		return 4
	}
}

// Category is the closed set of content categories assigned by the classifier.
// Category is independent of Label.
type Category string

const (
	CategoryBreakingChange   Category = "breaking-change"
	CategoryNewLibrary       Category = "new-library"
	CategorySDKUpdate        Category = "sdk-update"
	CategoryProductLaunch    Category = "product-launch"
	CategoryTrendingRepo     Category = "trending-repo"
	CategoryIndustryNews     Category = "industry-news"
	CategoryDeveloperTool    Category = "developer-tool"
	CategoryPerformance      Category = "performance"
	CategoryKnownIssue       Category = "known-issue"
	CategoryCaseStudy        Category = "case-study"
	CategoryResearch         Category = "research"
	CategoryCommunity        Category = "community"
	CategorySecurityAdvisory Category = "security-advisory"
)

// ClassificationResult is attached 1:1 to a canonical item by the classifier.
type ClassificationResult struct {
	Score             int
	Label             Label
	Category          Category
	Languages         []string
	Frameworks        []string
	Topics            []string
	AffectsProduction bool
	Reasoning         string
	Tags              []string // 1-2 display tags
}
