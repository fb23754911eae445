package recommendation

import (
	"strings"

	"essence/storefront/internal/domain"
)

const quizSteps = 4

var quizQuestions = [quizSteps]domain.QuizQuestion{
	{
		Step:     1,
		Key:      "scent_family",
		Question: "Which scent family draws you in?",
		Options: []domain.QuizOption{
			{Value: "fresh", Label: "Fresh & citrus"},
			{Value: "floral", Label: "Floral"},
			{Value: "woody", Label: "Woody"},
			{Value: "oriental", Label: "Warm & oriental"},
		},
	},
	{
		Step:     2,
		Key:      "occasion",
		Question: "When will you wear it most?",
		Options: []domain.QuizOption{
			{Value: "daily", Label: "Every day"},
			{Value: "office", Label: "At the office"},
			{Value: "romantic", Label: "Date night"},
			{Value: "special", Label: "Special events"},
		},
	},
	{
		Step:     3,
		Key:      "experience",
		Question: "How well do you know fragrance?",
		Options: []domain.QuizOption{
			{Value: "beginner", Label: "Just starting out"},
			{Value: "enthusiast", Label: "I own a few favourites"},
			{Value: "connoisseur", Label: "It's a passion"},
		},
	},
	{
		Step:     4,
		Key:      "budget",
		Question: "What is your budget?",
		Options: []domain.QuizOption{
			{Value: "under-50", Label: "Under $50"},
			{Value: "50-100", Label: "$50 - $100"},
			{Value: "100-150", Label: "$100 - $150"},
			{Value: "over-150", Label: "Over $150"},
		},
	},
}

// scentFamilyNotes maps a quiz scent family to note fragments matched
// anywhere in a product's pyramid.
var scentFamilyNotes = map[string][]string{
	"fresh":    {"citrus", "bergamot", "lemon", "lime", "grapefruit", "mandarin", "orange", "neroli", "sea salt", "mint", "green"},
	"floral":   {"rose", "jasmine", "peony", "lily", "iris", "orris", "tuberose", "violet", "blossom"},
	"woody":    {"cedar", "sandalwood", "vetiver", "oud", "patchouli", "driftwood", "birch"},
	"oriental": {"amber", "vanilla", "tonka", "benzoin", "labdanum", "cinnamon", "saffron", "cardamom"},
}

type priceBand struct {
	minCents int64
	maxCents int64
}

// budgetBands are half-open [min, max) ranges; a zero max is unbounded.
var budgetBands = map[string]priceBand{
	"under-50": {minCents: 0, maxCents: 5000},
	"50-100":   {minCents: 5000, maxCents: 10000},
	"100-150":  {minCents: 10000, maxCents: 15000},
	"over-150": {minCents: 15000},
}

func (b priceBand) contains(priceCents int64) bool {
	if priceCents < b.minCents {
		return false
	}
	return b.maxCents == 0 || priceCents < b.maxCents
}

func firstQuestion() *domain.QuizQuestion {
	q := quizQuestions[0]
	return &q
}

func questionFor(step int) *domain.QuizQuestion {
	if step < 1 || step > quizSteps {
		return nil
	}
	q := quizQuestions[step-1]
	return &q
}

// matchOption resolves a free-text answer to one of the question's option
// values by value or label, case-insensitively.
func matchOption(q domain.QuizQuestion, answer string) (string, bool) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return "", false
	}
	for _, opt := range q.Options {
		if answer == opt.Value || answer == strings.ToLower(opt.Label) {
			return opt.Value, true
		}
	}
	for _, opt := range q.Options {
		if containsToken(tokenize(answer), opt.Value) {
			return opt.Value, true
		}
	}
	return "", false
}

func withAnswer(prefs domain.ChatPreferences, step int, value string) domain.ChatPreferences {
	switch step {
	case 1:
		prefs.ScentFamily = value
	case 2:
		prefs.Occasion = value
	case 3:
		prefs.Experience = value
	case 4:
		prefs.Budget = value
	}
	return prefs
}

func hasAnyNote(p domain.Product, fragments []string) bool {
	for _, note := range p.AllNotes() {
		for _, fragment := range fragments {
			if strings.Contains(note, fragment) {
				return true
			}
		}
	}
	return false
}
