package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the
// binary, or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt is
	// required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and
// providers.
const (
	// PromptQASystem is the system instruction for grounded question
	// answering. No format placeholders.
	PromptQASystem = "qa_system"

	// PromptQANoGrounding is the system instruction used when
	// retrieval produced no passages. No format placeholders.
	PromptQANoGrounding = "qa_no_grounding"

	// PromptVisualizationPlan asks the text model for a structured
	// diagram outline. Expects %s placeholders for topic, context and
	// history.
	PromptVisualizationPlan = "visualization_plan"

	// PromptRecommendVisualization asks for visualization topic
	// suggestions. Expects %s placeholders for document samples and
	// recent questions.
	PromptRecommendVisualization = "recommend_visualization"

	// PromptRecommendChat asks for chat question suggestions.
	// Expects %s placeholders for document samples and recent
	// questions.
	PromptRecommendChat = "recommend_chat"
)
