package recommendation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/store/memory"
)

type mapCache struct {
	mu     sync.Mutex
	values map[string]domain.ChatResponse
	sets   int
}

func (c *mapCache) Get(_ context.Context, key string) (*domain.ChatResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *mapCache) Set(_ context.Context, key string, value *domain.ChatResponse, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]domain.ChatResponse)
	}
	c.values[key] = *value
	c.sets++
	return nil
}

func chat(t *testing.T, e *Engine, req domain.ChatRequest) domain.ChatResponse {
	t.Helper()
	return e.Respond(context.Background(), req, memory.SeedProducts())
}

func suggestionIDs(resp domain.ChatResponse) []string {
	ids := make([]string, 0, len(resp.Suggestions))
	for _, p := range resp.Suggestions {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFallbackReturnsTopThreeByRating(t *testing.T) {
	resp := chat(t, NewEngine(nil, 0), domain.ChatRequest{Message: "xyzzy"})

	require.Len(t, resp.Suggestions, 3)
	assert.Nil(t, resp.QuizQuestion)
	assert.NotEmpty(t, resp.Response)
	for i := 1; i < len(resp.Suggestions); i++ {
		assert.GreaterOrEqual(t, resp.Suggestions[i-1].Rating, resp.Suggestions[i].Rating)
	}
	assert.Equal(t, []string{"prd-003", "prd-002", "prd-007"}, suggestionIDs(resp))
}

func TestDecisionTableRules(t *testing.T) {
	cases := []struct {
		message string
		want    []string
	}{
		{"Something for women please", []string{"prd-002", "prd-005", "prd-010"}},
		{"Can you recommend a scent for MEN?", []string{"prd-003", "prd-006", "prd-011"}},
		{"I want something fresh", []string{"prd-010", "prd-001", "prd-009"}},
		{"cozy winter vibes", []string{"prd-003", "prd-002", "prd-007"}},
		{"romantic dinner", []string{"prd-003", "prd-002", "prd-007"}},
		{"something for the office", []string{"prd-005", "prd-001", "prd-011"}},
		{"cheap gift", []string{"prd-001", "prd-009", "prd-004"}},
		{"show me luxury", []string{"prd-003", "prd-010"}},
	}

	e := NewEngine(nil, 0)
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			resp := chat(t, e, domain.ChatRequest{Message: tc.message})
			assert.Equal(t, tc.want, suggestionIDs(resp))
			assert.Nil(t, resp.QuizQuestion)
		})
	}
}

func TestKeywordsMatchWholeWordsOnly(t *testing.T) {
	e := NewEngine(nil, 0)

	// "romantic" contains "man" and "recommend" contains "men"; neither may
	// select the men's category.
	resp := chat(t, e, domain.ChatRequest{Message: "romantic"})
	for _, p := range resp.Suggestions {
		assert.GreaterOrEqual(t, p.Rating, 4.5)
	}

	resp = chat(t, e, domain.ChatRequest{Message: "recommend"})
	assert.Empty(t, resp.Suggestions)
	require.NotNil(t, resp.QuizQuestion)
}

func TestQuizRequestEmitsFirstQuestion(t *testing.T) {
	resp := chat(t, NewEngine(nil, 0), domain.ChatRequest{Message: "start the quiz"})

	require.NotNil(t, resp.QuizQuestion)
	assert.Equal(t, 1, resp.QuizQuestion.Step)
	assert.Equal(t, "scent_family", resp.QuizQuestion.Key)
	assert.Equal(t, 1, resp.QuizStep)
	assert.Empty(t, resp.Suggestions)
	assert.False(t, resp.QuizComplete)
}

func TestQuizFullFlow(t *testing.T) {
	e := NewEngine(nil, 0)
	prefs := domain.ChatPreferences{}
	answers := []string{"fresh", "Office", "beginner", "50-100"}

	var resp domain.ChatResponse
	for i, answer := range answers {
		step := i + 1
		resp = chat(t, e, domain.ChatRequest{Message: answer, IsQuiz: true, QuizStep: step, Preferences: prefs})
		prefs = resp.Preferences
		if step < len(answers) {
			require.NotNil(t, resp.QuizQuestion, "step %d", step)
			assert.Equal(t, step+1, resp.QuizQuestion.Step)
			assert.False(t, resp.QuizComplete)
		}
	}

	assert.True(t, resp.QuizComplete)
	assert.Nil(t, resp.QuizQuestion)
	assert.Equal(t, domain.ChatPreferences{ScentFamily: "fresh", Occasion: "office", Experience: "beginner", Budget: "50-100"}, resp.Preferences)
	assert.Equal(t, []string{"prd-001", "prd-009", "prd-004"}, suggestionIDs(resp))
	for _, p := range resp.Suggestions {
		assert.True(t, p.PriceCents >= 5000 && p.PriceCents < 10000, p.ID)
	}
}

func TestQuizFinalStepFallsBackWhenNothingMatches(t *testing.T) {
	resp := chat(t, NewEngine(nil, 0), domain.ChatRequest{
		Message:     "under-50",
		IsQuiz:      true,
		QuizStep:    4,
		Preferences: domain.ChatPreferences{ScentFamily: "woody", Occasion: "daily", Experience: "beginner"},
	})

	assert.True(t, resp.QuizComplete)
	assert.Len(t, resp.Suggestions, 3)
}

func TestQuizRejectsUnknownAnswerWithoutAdvancing(t *testing.T) {
	resp := chat(t, NewEngine(nil, 0), domain.ChatRequest{Message: "banana", IsQuiz: true, QuizStep: 2})

	require.NotNil(t, resp.QuizQuestion)
	assert.Equal(t, 2, resp.QuizQuestion.Step)
	assert.Equal(t, 2, resp.QuizStep)
	assert.False(t, resp.QuizComplete)
}

func TestQuizOutOfRangeStepIsNoop(t *testing.T) {
	prefs := domain.ChatPreferences{ScentFamily: "floral"}
	for _, step := range []int{-1, 0, 5, 99} {
		resp := chat(t, NewEngine(nil, 0), domain.ChatRequest{Message: "fresh", IsQuiz: true, QuizStep: step, Preferences: prefs})

		assert.True(t, resp.QuizComplete, "step %d", step)
		assert.Nil(t, resp.QuizQuestion, "step %d", step)
		assert.Empty(t, resp.Suggestions, "step %d", step)
		assert.Equal(t, prefs, resp.Preferences, "step %d", step)
	}
}

func TestNonQuizResponsesAreCached(t *testing.T) {
	c := &mapCache{}
	e := NewEngine(c, time.Minute)

	first := chat(t, e, domain.ChatRequest{Message: "Fresh!"})
	second := chat(t, e, domain.ChatRequest{Message: "fresh"})

	assert.Equal(t, 1, c.sets)
	assert.Equal(t, suggestionIDs(first), suggestionIDs(second))

	chat(t, e, domain.ChatRequest{Message: "fresh", IsQuiz: true, QuizStep: 1})
	assert.Equal(t, 1, c.sets)
}

func TestCatalogChangeBypassesCachedResponse(t *testing.T) {
	c := &mapCache{}
	e := NewEngine(c, time.Minute)
	ctx := context.Background()

	catalog := memory.SeedProducts()
	first := e.Respond(ctx, domain.ChatRequest{Message: "xyzzy"}, catalog)
	require.NotEmpty(t, first.Suggestions)

	updated := memory.SeedProducts()
	for i := range updated {
		if updated[i].ID == first.Suggestions[0].ID {
			updated[i].PriceCents += 1000
		}
	}
	second := e.Respond(ctx, domain.ChatRequest{Message: "xyzzy"}, updated)

	assert.Equal(t, 2, c.sets)
	require.NotEmpty(t, second.Suggestions)
	assert.Equal(t, first.Suggestions[0].PriceCents+1000, second.Suggestions[0].PriceCents)

	assert.Equal(t, buildCacheKey("Fresh!", catalog), buildCacheKey("fresh", memory.SeedProducts()))
}
