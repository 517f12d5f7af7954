package domain

// TopicType classifies a recommended follow-up prompt. The set is
// closed: values coming back from a model provider are mapped through
// ParseTopicType and anything unrecognised becomes TopicOther.
type TopicType string

// Recommendation topic types.
const (
	// TopicOverview covers the whole corpus or a whole document.
	TopicOverview TopicType = "overview"

	// TopicChapter summarises one chapter or section.
	TopicChapter TopicType = "chapter"

	// TopicSummary condenses a document into key points.
	TopicSummary TopicType = "summary"

	// TopicQA probes a specific detail.
	TopicQA TopicType = "qa"

	// TopicReview generates revision questions.
	TopicReview TopicType = "review"

	// TopicConcept explains a single concept in depth.
	TopicConcept TopicType = "concept"

	// TopicOther is the catch-all for unrecognised provider output.
	TopicOther TopicType = "other"
)

// ParseTopicType maps a free string onto the closed topic type set.
// Unknown values map to TopicOther rather than failing.
func ParseTopicType(s string) TopicType {
	switch TopicType(s) {
	case TopicOverview, TopicChapter, TopicSummary, TopicQA, TopicReview, TopicConcept:
		return TopicType(s)
	default:
		return TopicOther
	}
}

// Label returns the presentation label for the topic type.
// The mapping is exhaustive over the closed set.
func (t TopicType) Label() string {
	switch t {
	case TopicOverview:
		return "Overview"
	case TopicChapter:
		return "Chapter"
	case TopicSummary:
		return "Summary"
	case TopicQA:
		return "Question"
	case TopicReview:
		return "Review"
	case TopicConcept:
		return "Concept"
	case TopicOther:
		return "Suggestion"
	default:
		return "Suggestion"
	}
}

// RecommendMode selects what kind of follow-up prompts to generate.
type RecommendMode string

// Recommendation modes.
const (
	// RecommendChat suggests questions to ask.
	RecommendChat RecommendMode = "chat"

	// RecommendVisualization suggests diagrams to generate.
	RecommendVisualization RecommendMode = "visualization"
)

// IsValid returns true if the mode is recognised.
func (m RecommendMode) IsValid() bool {
	return m == RecommendChat || m == RecommendVisualization
}

// RecommendationTopic is a grounded, ready-to-send follow-up prompt.
type RecommendationTopic struct {
	// Type classifies the suggestion.
	Type TopicType

	// Title is a short display title.
	Title string

	// Description explains what the suggestion covers.
	Description string

	// Prompt is the ready-to-send prompt string.
	Prompt string
}
