package domain

// VisualizationStyle selects the visual idiom of a generated diagram.
type VisualizationStyle string

// Available visualization styles.
const (
	// StyleMindmap radiates concepts outward from a central topic.
	StyleMindmap VisualizationStyle = "mindmap"

	// StyleDiagram is a flowchart or architecture diagram with uniform
	// boxes and connectors.
	StyleDiagram VisualizationStyle = "diagram"

	// StyleEducational is a clear instructional illustration using
	// simple icons, boxes and arrows.
	StyleEducational VisualizationStyle = "educational"

	// StyleInfographic mixes charts, figures and visual statistics.
	StyleInfographic VisualizationStyle = "infographic"
)

// IsValid returns true if the style is recognised.
func (s VisualizationStyle) IsValid() bool {
	switch s {
	case StyleMindmap, StyleDiagram, StyleEducational, StyleInfographic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s VisualizationStyle) String() string {
	return string(s)
}

// RenderInstructions returns the style-specific guidance passed to the
// image model during the render stage.
func (s VisualizationStyle) RenderInstructions() string {
	switch s {
	case StyleMindmap:
		return "Mind map style: the central topic sits in the middle with concepts radiating outward in layered branches."
	case StyleDiagram:
		return "Professional flowchart or architecture diagram style: uniform boxes connected by labelled lines and arrows."
	case StyleInfographic:
		return "Infographic style: charts, figures and visual statistics arranged into a cohesive layout."
	case StyleEducational:
		return "Clear educational illustration style: simple icons, boxes and arrows showing how the concepts relate."
	default:
		return StyleEducational.RenderInstructions()
	}
}

// VisualizationRequest asks for a knowledge diagram derived from the
// indexed material.
type VisualizationRequest struct {
	// Prompt is the topic to visualize.
	Prompt string

	// Style selects the visual idiom.
	Style VisualizationStyle

	// DocumentIDs optionally scopes retrieval to specific documents.
	DocumentIDs []string

	// ConversationHistory is flattened recent chat context, supplied
	// by the caller for continuity. May be empty.
	ConversationHistory string

	// AspectRatio is the requested image aspect ratio, e.g. "16:9".
	AspectRatio string
}

// PlanNode is one concept in a visualization plan.
type PlanNode struct {
	// Label is the concept name.
	Label string `json:"label" jsonschema_description:"Concept name, at most a few words"`

	// Note is a short explanation of the concept.
	Note string `json:"note" jsonschema_description:"One-line explanation of the concept"`
}

// PlanRelation is a directed relationship between two plan nodes.
type PlanRelation struct {
	// From is the label of the originating node.
	From string `json:"from" jsonschema_description:"Label of the source concept"`

	// To is the label of the target node.
	To string `json:"to" jsonschema_description:"Label of the target concept"`

	// Label describes the relationship.
	Label string `json:"label" jsonschema_description:"Short description of the relationship"`
}

// VisualizationPlan is the structured outline produced by the plan
// stage before any image is rendered. It exists only transiently within
// a single orchestration call.
type VisualizationPlan struct {
	// Title is the diagram heading.
	Title string `json:"title" jsonschema_description:"Short diagram title"`

	// Layout suggests the spatial arrangement, e.g. "radial" or
	// "hierarchical".
	Layout string `json:"layout" jsonschema_description:"Suggested layout: radial, linear flow, or hierarchical"`

	// Nodes are the core concepts, typically 3 to 6.
	Nodes []PlanNode `json:"nodes" jsonschema_description:"Core concept nodes, between 3 and 6"`

	// Relations connect the nodes.
	Relations []PlanRelation `json:"relations" jsonschema_description:"Directed relationships between nodes"`
}

// Visualization is the rendered result returned to the caller.
type Visualization struct {
	// Description is a short human-readable summary of the diagram.
	Description string

	// Image is the raster payload (PNG unless the provider says
	// otherwise).
	Image []byte

	// MIMEType is the image media type.
	MIMEType string
}
