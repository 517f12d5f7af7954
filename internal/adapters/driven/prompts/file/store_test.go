package file

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *PromptStore {
	t.Helper()
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadDefaults(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{
		driven.PromptQASystem,
		driven.PromptQANoGrounding,
		driven.PromptVisualizationPlan,
		driven.PromptRecommendVisualization,
		driven.PromptRecommendChat,
	} {
		prompt, err := store.Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, prompt, name)
	}
}

func TestLoadUnknownPrompt(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("no_such_prompt")
	assert.Error(t, err)
}

func TestFileOverridesDefault(t *testing.T) {
	store := newTestStore(t)

	override := "Answer like a pirate."
	path := filepath.Join(store.Dir(), driven.PromptQASystem+".txt")
	require.NoError(t, os.WriteFile(path, []byte(override+"\n"), 0600))

	prompt, err := store.Load(driven.PromptQASystem)
	require.NoError(t, err)
	assert.Equal(t, override, prompt)
}

func TestEmptyOverrideFallsBackToDefault(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(store.Dir(), driven.PromptQASystem+".txt")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0600))

	prompt, err := store.Load(driven.PromptQASystem)
	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptQASystem], prompt)
}

func TestReloadClearsCache(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Load(driven.PromptQASystem)
	require.NoError(t, err)

	path := filepath.Join(store.Dir(), driven.PromptQASystem+".txt")
	require.NoError(t, os.WriteFile(path, []byte("updated prompt"), 0600))

	store.Reload()

	second, err := store.Load(driven.PromptQASystem)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, "updated prompt", second)
}

func TestWatcherInvalidatesOnEdit(t *testing.T) {
	store := newTestStore(t)

	// Prime the cache with the default.
	_, err := store.Load(driven.PromptQASystem)
	require.NoError(t, err)

	path := filepath.Join(store.Dir(), driven.PromptQASystem+".txt")
	require.NoError(t, os.WriteFile(path, []byte("edited on disk"), 0600))

	// The watcher delivers asynchronously.
	require.Eventually(t, func() bool {
		prompt, err := store.Load(driven.PromptQASystem)
		return err == nil && strings.Contains(prompt, "edited on disk")
	}, 2*time.Second, 20*time.Millisecond)
}

// The recommend prompts tell the model which "type" values to emit;
// every value they name must survive domain.ParseTopicType, or the
// model's compliant replies all degrade to the fallback type.
func TestRecommendPromptTypeVocabulary(t *testing.T) {
	store := newTestStore(t)
	oneOf := regexp.MustCompile(`"type"\s*\(one of ([^)]+)\)`)
	quoted := regexp.MustCompile(`"([a-z]+)"`)

	for _, name := range []string{
		driven.PromptRecommendVisualization,
		driven.PromptRecommendChat,
	} {
		prompt, err := store.Load(name)
		require.NoError(t, err, name)

		match := oneOf.FindStringSubmatch(prompt)
		require.NotNil(t, match, "%s must enumerate the type values", name)

		words := quoted.FindAllStringSubmatch(match[1], -1)
		require.NotEmpty(t, words, name)
		for _, w := range words {
			assert.NotEqual(t, domain.TopicOther, domain.ParseTopicType(w[1]),
				"%s instructs unparseable type %q", name, w[1])
		}
	}
}

func TestTemplatePlaceholderCounts(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name  string
		verbs int
	}{
		{driven.PromptQASystem, 0},
		{driven.PromptQANoGrounding, 0},
		{driven.PromptVisualizationPlan, 3},
		{driven.PromptRecommendVisualization, 2},
		{driven.PromptRecommendChat, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := store.Load(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.verbs, strings.Count(prompt, "%s"))
		})
	}
}
