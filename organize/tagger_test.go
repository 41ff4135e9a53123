package organize

import (
	"testing"

	"github.com/poiesic/noema/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaggerTitleWeightCompoundsWithFrequency(t *testing.T) {
	tagger := NewTagger()

	tags := tagger.GenerateTags(&core.KnowledgeItem{
		Title:   "Docker Tutorial",
		Content: "This tutorial covers containers. The tutorial explains images. Follow the tutorial closely.",
	}, nil)

	require.NotEmpty(t, tags)
	assert.Equal(t, "tutorial", tags[0].Name)
}

func TestTaggerMaxTags(t *testing.T) {
	tagger := NewTagger(WithMaxTags(3))

	tags := tagger.GenerateTags(&core.KnowledgeItem{
		Title:   "Long Note",
		Content: "alpha bravo charlie delta echo foxtrot golf hotel india juliet",
	}, nil)
	assert.Len(t, tags, 3)
}

func TestTaggerEmptyItem(t *testing.T) {
	tagger := NewTagger()
	assert.Empty(t, tagger.GenerateTags(&core.KnowledgeItem{}, nil))
}

func TestTaggerCategoryWordsContribute(t *testing.T) {
	tagger := NewTagger()

	tags := tagger.GenerateTags(&core.KnowledgeItem{
		Title:   "Note",
		Content: "some brief text here",
	}, []*core.Category{
		{Name: "programming", Description: "", Confidence: 1.0},
	})

	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	assert.Contains(t, names, "programming")
}

func TestTaggerCacheIncrementsUsage(t *testing.T) {
	tagger := NewTagger()

	first := tagger.Resolve("docker")
	assert.Equal(t, 1, first.UsageCount)

	second := tagger.Resolve("Docker")
	assert.Same(t, first, second)
	assert.Equal(t, 2, first.UsageCount)
	assert.Equal(t, core.IDFromContent("docker"), first.Id)
}

func TestTaggerColorIsDeterministic(t *testing.T) {
	a := NewTagger().Resolve("kubernetes")
	b := NewTagger().Resolve("kubernetes")

	assert.Equal(t, a.Color, b.Color)
	assert.Contains(t, tagPalette, a.Color)
}

func TestTaggerWarmCache(t *testing.T) {
	tagger := NewTagger()
	stored := &core.Tag{
		Id:         core.IDFromContent("golang"),
		Name:       "golang",
		Color:      "#3498db",
		UsageCount: 7,
	}
	tagger.WarmCache([]*core.Tag{stored})

	resolved := tagger.Resolve("Golang")
	assert.Same(t, stored, resolved)
	assert.Equal(t, 8, resolved.UsageCount)
}

func TestMergeSimilarTagsSubstring(t *testing.T) {
	tagger := NewTagger()
	tagger.WarmCache([]*core.Tag{
		{Name: "golang", UsageCount: 9},
		{Name: "golang tips", UsageCount: 2},
		{Name: "cooking", UsageCount: 4},
	})

	renames := tagger.MergeSimilarTags(0.7)
	assert.Equal(t, "golang", renames["golang tips"])
	_, cookingRenamed := renames["cooking"]
	assert.False(t, cookingRenamed)
}

func TestMergeSimilarTagsPrefersHigherUsage(t *testing.T) {
	tagger := NewTagger()
	tagger.WarmCache([]*core.Tag{
		{Name: "dockers", UsageCount: 1},
		{Name: "docker", UsageCount: 12},
	})

	renames := tagger.MergeSimilarTags(0.7)
	assert.Equal(t, "docker", renames["dockers"])
}

func TestMergeSimilarTagsDoesNotMutateCache(t *testing.T) {
	tagger := NewTagger()
	tagger.WarmCache([]*core.Tag{
		{Name: "docker", UsageCount: 12},
		{Name: "dockers", UsageCount: 1},
	})

	tagger.MergeSimilarTags(0.7)
	assert.Len(t, tagger.CachedTags(), 2)
}

func TestTagSimilarityPriority(t *testing.T) {
	assert.Equal(t, 1.0, tagSimilarity("docker", "docker"))
	assert.Equal(t, 0.8, tagSimilarity("docker", "dockers"))
	// Disjoint character sets
	assert.Equal(t, 0.0, tagSimilarity("abc", "xyz"))
	// Same character sets, different order
	assert.Equal(t, 1.0, tagSimilarity("abc", "cba"))
}
