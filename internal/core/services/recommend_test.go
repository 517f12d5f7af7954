package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	promptfile "github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/prompts/file"
	"github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/storage/memory"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driving"
)

func newRecommendFixture(t *testing.T, text *mockTextService, docs ...domain.Document) *RecommendService {
	t.Helper()
	store := memory.NewDocumentStore()
	for i := range docs {
		require.NoError(t, store.SaveDocument(context.Background(), &docs[i]))
	}
	retriever := NewRetriever(&mockEmbedder{}, groundedIndex(), RetrieverConfig{})
	svc := NewRecommendService(retriever, text, &mockPromptStore{}, store, NewProviderGate(2, time.Second))
	svc.retry = fastPolicy()
	return svc
}

func completedDoc(id, filename string) domain.Document {
	return domain.Document{
		ID:       id,
		Filename: filename,
		FileType: domain.FileTypePDF,
		Status:   domain.StatusCompleted,
	}
}

func TestTopicsEmptyCorpus(t *testing.T) {
	svc := newRecommendFixture(t, &mockTextService{})

	topics, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendChat})
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestTopicsParsesModelReply(t *testing.T) {
	reply := `[
  {"type": "overview", "title": "Big picture", "description": "The whole document", "prompt": "Give me an overview of biology.pdf"},
  {"type": "qa", "title": "Detail check", "description": "A specific fact", "prompt": "What powers the light reactions?"}
]`
	text := &mockTextService{reply: reply}
	svc := newRecommendFixture(t, text, completedDoc("bio", "biology.pdf"))

	topics, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendChat})
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, domain.TopicOverview, topics[0].Type)
	assert.Equal(t, "Big picture", topics[0].Title)
	assert.Equal(t, domain.TopicQA, topics[1].Type)
}

func TestTopicsStripsCodeFences(t *testing.T) {
	reply := "```json\n[{\"type\": \"summary\", \"title\": \"Key points\", \"description\": \"d\", \"prompt\": \"Summarize\"}]\n```"
	text := &mockTextService{reply: reply}
	svc := newRecommendFixture(t, text, completedDoc("bio", "biology.pdf"))

	topics, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendChat})
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, domain.TopicSummary, topics[0].Type)
}

func TestTopicsUnknownTypeMapsToOther(t *testing.T) {
	reply := `[{"type": "mystery", "title": "T", "description": "d", "prompt": "p"}]`
	svc := newRecommendFixture(t, &mockTextService{reply: reply}, completedDoc("bio", "biology.pdf"))

	topics, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendChat})
	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, domain.TopicOther, topics[0].Type)
	assert.Equal(t, "Suggestion", topics[0].Type.Label())
}

// A model that follows the shipped default prompts must produce typed
// topics, not the fallback type.
func TestTopicsShippedPromptsYieldTypedTopics(t *testing.T) {
	prompts, err := promptfile.NewPromptStore(t.TempDir())
	require.NoError(t, err)
	defer prompts.Close()

	reply := `[
  {"type": "overview", "title": "Cell structure", "description": "d", "prompt": "Map the cell"},
  {"type": "concept", "title": "ATP synthesis", "description": "d", "prompt": "Diagram ATP synthesis"}
]`
	text := &mockTextService{reply: reply}
	store := memory.NewDocumentStore()
	doc := completedDoc("bio", "biology.pdf")
	require.NoError(t, store.SaveDocument(context.Background(), &doc))
	retriever := NewRetriever(&mockEmbedder{}, groundedIndex(), RetrieverConfig{})
	svc := NewRecommendService(retriever, text, prompts, store, NewProviderGate(2, time.Second))
	svc.retry = fastPolicy()

	for _, mode := range []domain.RecommendMode{domain.RecommendVisualization, domain.RecommendChat} {
		topics, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: mode})
		require.NoError(t, err, mode)
		require.Len(t, topics, 2, mode)
		assert.Equal(t, domain.TopicOverview, topics[0].Type, mode)
		assert.Equal(t, domain.TopicConcept, topics[1].Type, mode)
	}
}

func TestTopicsDedup(t *testing.T) {
	reply := `[
  {"type": "qa", "title": "Photosynthesis", "description": "a", "prompt": "Explain photosynthesis"},
  {"type": "qa", "title": "PHOTOSYNTHESIS", "description": "b", "prompt": "Explain it differently"},
  {"type": "qa", "title": "Light reactions", "description": "c", "prompt": "Explain photosynthesis"},
  {"type": "qa", "title": "Dark reactions", "description": "d", "prompt": "Explain the Calvin cycle"}
]`
	svc := newRecommendFixture(t, &mockTextService{reply: reply}, completedDoc("bio", "biology.pdf"))

	topics, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendChat})
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Photosynthesis", topics[0].Title)
	assert.Equal(t, "Dark reactions", topics[1].Title)
}

func TestTopicsBounds(t *testing.T) {
	reply := `[
  {"type": "qa", "title": "t1", "description": "d", "prompt": "p1"},
  {"type": "qa", "title": "t2", "description": "d", "prompt": "p2"},
  {"type": "qa", "title": "t3", "description": "d", "prompt": "p3"},
  {"type": "qa", "title": "t4", "description": "d", "prompt": "p4"},
  {"type": "qa", "title": "t5", "description": "d", "prompt": "p5"},
  {"type": "qa", "title": "t6", "description": "d", "prompt": "p6"}
]`

	chat := newRecommendFixture(t, &mockTextService{reply: reply}, completedDoc("bio", "biology.pdf"))
	topics, err := chat.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendChat})
	require.NoError(t, err)
	assert.Len(t, topics, maxChatTopics)

	viz := newRecommendFixture(t, &mockTextService{reply: reply}, completedDoc("bio", "biology.pdf"))
	topics, err = viz.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendVisualization})
	require.NoError(t, err)
	assert.Len(t, topics, maxVisualizationTopics)
}

func TestTopicsProviderFailureFallsBackToFilenames(t *testing.T) {
	text := &mockTextService{generateErr: domain.NewPermanentProviderError("generate", errors.New("down"))}
	svc := newRecommendFixture(t, text,
		completedDoc("bio", "biology.pdf"),
		completedDoc("chem", "chemistry.pdf"),
	)

	topics, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendChat})
	require.NoError(t, err, "provider failure degrades, not errors")
	require.NotEmpty(t, topics)
	assert.Contains(t, topics[0].Prompt, "biology")
}

func TestTopicsMalformedReplyFallsBack(t *testing.T) {
	text := &mockTextService{reply: "I think you should review chapter 3."}
	svc := newRecommendFixture(t, text, completedDoc("bio", "biology.pdf"))

	topics, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendChat})
	require.NoError(t, err)
	assert.NotEmpty(t, topics)
}

func TestTopicsSkipsIncompleteDocuments(t *testing.T) {
	pending := domain.Document{ID: "p", Filename: "pending.pdf", FileType: domain.FileTypePDF, Status: domain.StatusProcessing}
	svc := newRecommendFixture(t, &mockTextService{}, pending)

	topics, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendChat})
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestTopicsScope(t *testing.T) {
	reply := `[{"type": "qa", "title": "T", "description": "d", "prompt": "p"}]`
	text := &mockTextService{reply: reply}
	svc := newRecommendFixture(t, text,
		completedDoc("bio", "biology.pdf"),
		completedDoc("chem", "chemistry.pdf"),
	)

	_, err := svc.Topics(context.Background(), driving.RecommendRequest{
		Mode:        domain.RecommendChat,
		DocumentIDs: []string{"chem"},
	})
	require.NoError(t, err)
	require.Len(t, text.prompts, 1)
	assert.Contains(t, text.prompts[0], "chemistry.pdf")
	assert.NotContains(t, text.prompts[0], "biology.pdf")
}

func TestTopicsInvalidMode(t *testing.T) {
	svc := newRecommendFixture(t, &mockTextService{}, completedDoc("bio", "biology.pdf"))

	_, err := svc.Topics(context.Background(), driving.RecommendRequest{Mode: domain.RecommendMode("email")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `[1]`, `[1]`},
		{"json fence", "```json\n[1]\n```", "[1]"},
		{"bare fence", "```\n[1]\n```", "[1]"},
		{"whitespace", "  ```json\n[1]\n```  ", "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}
