package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driving"
	"github.com/Arlieeee/StudyBuddy-AI/internal/logger"
)

// Sampling and output bounds for recommendations.
const (
	sampleDocLimit       = 3
	samplePassagesPerDoc = 2
	sampleHistoryWindow  = 3

	maxVisualizationTopics = 5
	maxChatTopics          = 4
)

// RecommendService suggests grounded follow-up prompts. Suggestions
// are sampled from the indexed corpus so they reference material the
// user actually has; a provider failure degrades to filename-based
// topics rather than an error.
type RecommendService struct {
	retriever *Retriever
	text      driven.TextService
	prompts   driven.PromptStore
	store     driven.DocumentStore
	gate      *ProviderGate
	retry     retryPolicy
}

var _ driving.Recommender = (*RecommendService)(nil)

// NewRecommendService creates the recommendation service.
func NewRecommendService(
	retriever *Retriever,
	text driven.TextService,
	prompts driven.PromptStore,
	store driven.DocumentStore,
	gate *ProviderGate,
) *RecommendService {
	return &RecommendService{
		retriever: retriever,
		text:      text,
		prompts:   prompts,
		store:     store,
		gate:      gate,
		retry:     defaultRetryPolicy(),
	}
}

// Topics returns a bounded, deduplicated list of typed suggestions.
func (s *RecommendService) Topics(ctx context.Context, req driving.RecommendRequest) ([]domain.RecommendationTopic, error) {
	mode := req.Mode
	if mode == "" {
		mode = domain.RecommendChat
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown recommendation mode %q", domain.ErrValidation, req.Mode)
	}

	docs, err := s.sampleDocuments(ctx, req.DocumentIDs)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		logger.Debug("Empty corpus, no recommendations")
		return []domain.RecommendationTopic{}, nil
	}

	samples := s.collectSamples(ctx, docs)
	questions := recentUserQuestions(req.History)

	topics, err := s.generateTopics(ctx, mode, samples, questions)
	if err != nil {
		logger.Warn("Topic generation failed, using filename fallback: %v", err)
		topics = fallbackTopics(docs, mode)
	}

	return boundTopics(dedupeTopics(topics), mode), nil
}

// sampleDocuments picks up to sampleDocLimit completed documents,
// honouring the caller's scope when given.
func (s *RecommendService) sampleDocuments(ctx context.Context, scope []string) ([]domain.Document, error) {
	all, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	scoped := make(map[string]bool, len(scope))
	for _, id := range scope {
		scoped[id] = true
	}

	var docs []domain.Document
	for _, d := range all {
		if d.Status != domain.StatusCompleted {
			continue
		}
		if len(scoped) > 0 && !scoped[d.ID] {
			continue
		}
		docs = append(docs, d)
		if len(docs) == sampleDocLimit {
			break
		}
	}
	return docs, nil
}

// collectSamples probes each sampled document for representative
// passages. A probe failure skips that document; sampling is best
// effort.
func (s *RecommendService) collectSamples(ctx context.Context, docs []domain.Document) string {
	var b strings.Builder
	for _, doc := range docs {
		passages, err := s.retriever.Retrieve(ctx, doc.Filename, []string{doc.ID})
		if err != nil {
			logger.Debug("Sample probe failed for %s: %v", doc.Filename, err)
			continue
		}
		if len(passages) > samplePassagesPerDoc {
			passages = passages[:samplePassagesPerDoc]
		}

		fmt.Fprintf(&b, "Document: %s\n", doc.Filename)
		for _, p := range passages {
			excerpt := p.Text
			if runes := []rune(excerpt); len(runes) > 300 {
				excerpt = string(runes[:300])
			}
			fmt.Fprintf(&b, "  Excerpt: %s\n", excerpt)
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		for _, doc := range docs {
			fmt.Fprintf(&b, "Document: %s\n", doc.Filename)
		}
	}
	return b.String()
}

// recentUserQuestions flattens the last few user turns for continuity.
func recentUserQuestions(history []domain.ConversationTurn) string {
	var questions []string
	for _, turn := range history {
		if turn.Role == domain.RoleUser && strings.TrimSpace(turn.Content) != "" {
			questions = append(questions, turn.Content)
		}
	}
	if len(questions) > sampleHistoryWindow {
		questions = questions[len(questions)-sampleHistoryWindow:]
	}
	if len(questions) == 0 {
		return "(none)"
	}
	return "- " + strings.Join(questions, "\n- ")
}

// topicJSON is the wire shape the model is asked to emit.
type topicJSON struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// generateTopics asks the text model for typed suggestions and parses
// the JSON reply.
func (s *RecommendService) generateTopics(ctx context.Context, mode domain.RecommendMode, samples, questions string) ([]domain.RecommendationTopic, error) {
	promptName := driven.PromptRecommendChat
	if mode == domain.RecommendVisualization {
		promptName = driven.PromptRecommendVisualization
	}
	template, err := s.prompts.Load(promptName)
	if err != nil {
		return nil, fmt.Errorf("load prompt %s: %w", promptName, err)
	}
	prompt := fmt.Sprintf(template, samples, questions)

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	raw, err := withRetry(ctx, s.retry, "recommend topics", func(ctx context.Context) (string, error) {
		return s.text.Generate(ctx, prompt, driven.GenerateOptions{Temperature: 0.7})
	})
	if err != nil {
		return nil, err
	}

	var parsed []topicJSON
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: topic reply is not a JSON array: %v", domain.ErrProvider, err)
	}

	topics := make([]domain.RecommendationTopic, 0, len(parsed))
	for _, t := range parsed {
		title := strings.TrimSpace(t.Title)
		prompt := strings.TrimSpace(t.Prompt)
		if title == "" || prompt == "" {
			continue
		}
		topics = append(topics, domain.RecommendationTopic{
			Type:        domain.ParseTopicType(strings.ToLower(strings.TrimSpace(t.Type))),
			Title:       title,
			Description: strings.TrimSpace(t.Description),
			Prompt:      prompt,
		})
	}
	return topics, nil
}

// fallbackTopics builds grounded suggestions straight from filenames
// when the model is unavailable.
func fallbackTopics(docs []domain.Document, mode domain.RecommendMode) []domain.RecommendationTopic {
	topics := make([]domain.RecommendationTopic, 0, len(docs)+1)
	for _, doc := range docs {
		name := strings.TrimSuffix(doc.Filename, "."+doc.FileType.String())
		if mode == domain.RecommendVisualization {
			topics = append(topics, domain.RecommendationTopic{
				Type:        domain.TopicOverview,
				Title:       fmt.Sprintf("Map of %s", name),
				Description: fmt.Sprintf("A concept map of the main ideas in %s.", doc.Filename),
				Prompt:      fmt.Sprintf("Create a mind map of the key concepts in %s", name),
			})
		} else {
			topics = append(topics, domain.RecommendationTopic{
				Type:        domain.TopicSummary,
				Title:       fmt.Sprintf("Summarize %s", name),
				Description: fmt.Sprintf("The key points of %s.", doc.Filename),
				Prompt:      fmt.Sprintf("Summarize the key points of %s", name),
			})
		}
	}
	if mode == domain.RecommendChat {
		topics = append(topics, domain.RecommendationTopic{
			Type:        domain.TopicReview,
			Title:       "Quiz me",
			Description: "Practice questions from your material.",
			Prompt:      "Ask me three review questions about my documents",
		})
	}
	return topics
}

// dedupeTopics drops near-identical suggestions: a case-insensitive
// title collision or an identical prompt.
func dedupeTopics(topics []domain.RecommendationTopic) []domain.RecommendationTopic {
	seenTitle := make(map[string]bool, len(topics))
	seenPrompt := make(map[string]bool, len(topics))
	out := topics[:0:0]
	for _, t := range topics {
		titleKey := strings.ToLower(t.Title)
		if seenTitle[titleKey] || seenPrompt[t.Prompt] {
			continue
		}
		seenTitle[titleKey] = true
		seenPrompt[t.Prompt] = true
		out = append(out, t)
	}
	return out
}

// boundTopics truncates to the per-mode maximum.
func boundTopics(topics []domain.RecommendationTopic, mode domain.RecommendMode) []domain.RecommendationTopic {
	limit := maxChatTopics
	if mode == domain.RecommendVisualization {
		limit = maxVisualizationTopics
	}
	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

// StripCodeFences removes a surrounding markdown code fence from a
// model reply. Providers often wrap JSON in ```json fences even when
// told not to.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag line.
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
