package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTopicType(t *testing.T) {
	tests := []struct {
		input string
		want  TopicType
	}{
		{input: "overview", want: TopicOverview},
		{input: "chapter", want: TopicChapter},
		{input: "summary", want: TopicSummary},
		{input: "qa", want: TopicQA},
		{input: "review", want: TopicReview},
		{input: "concept", want: TopicConcept},
		{input: "something else", want: TopicOther},
		{input: "", want: TopicOther},
		{input: "OVERVIEW", want: TopicOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTopicType(tt.input))
		})
	}
}

func TestTopicType_Label_Exhaustive(t *testing.T) {
	all := []TopicType{
		TopicOverview, TopicChapter, TopicSummary,
		TopicQA, TopicReview, TopicConcept, TopicOther,
	}
	for _, tt := range all {
		assert.NotEmpty(t, tt.Label(), "label for %s", tt)
	}
}

func TestRecommendMode_IsValid(t *testing.T) {
	assert.True(t, RecommendChat.IsValid())
	assert.True(t, RecommendVisualization.IsValid())
	assert.False(t, RecommendMode("image").IsValid())
}
