package recommendation

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	log "github.com/sirupsen/logrus"

	"essence/storefront/internal/cache"
	"essence/storefront/internal/domain"
)

const maxSuggestions = 3

type Engine struct {
	cache    cache.ResponseCache
	cacheTTL time.Duration
}

func NewEngine(cacheStore cache.ResponseCache, cacheTTL time.Duration) *Engine {
	if cacheStore == nil {
		cacheStore = cache.NoopResponseCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &Engine{
		cache:    cacheStore,
		cacheTTL: cacheTTL,
	}
}

// rule is one row of the chatbot decision table. Rows are evaluated in order
// and the first whose keywords appear in the message wins.
type rule struct {
	name     string
	keywords []string
	reply    string
	match    func(domain.Product) bool
	quiz     bool
}

var (
	freshTopNotes = []string{"citrus", "bergamot", "lemon", "lime", "grapefruit", "mandarin", "orange", "neroli", "sea salt", "mint"}
	warmBaseNotes = []string{"amber", "vanilla", "oud", "tonka", "tobacco", "patchouli", "benzoin", "sandalwood", "leather"}
)

var decisionTable = []rule{
	{
		name:     "women",
		keywords: []string{"women", "woman", "womens", "female", "feminine", "her", "ladies", "lady"},
		reply:    "Here are our most loved fragrances for women.",
		match:    func(p domain.Product) bool { return p.Category == domain.CategoryWomen },
	},
	{
		name:     "men",
		keywords: []string{"men", "man", "mens", "male", "masculine", "him", "gentleman", "gentlemen"},
		reply:    "Here are our most loved fragrances for men.",
		match:    func(p domain.Product) bool { return p.Category == domain.CategoryMen },
	},
	{
		name:     "unisex",
		keywords: []string{"unisex", "genderless", "shared"},
		reply:    "These unisex scents work beautifully on anyone.",
		match:    func(p domain.Product) bool { return p.Category == domain.CategoryUnisex },
	},
	{
		name:     "fresh",
		keywords: []string{"fresh", "citrus", "summer", "aquatic", "light", "clean", "zesty"},
		reply:    "Bright and fresh picks with sparkling top notes.",
		match:    func(p domain.Product) bool { return notesContain(p.Notes.Top, freshTopNotes) },
	},
	{
		name:     "warm",
		keywords: []string{"winter", "warm", "cozy", "cosy", "spicy", "sweet", "autumn"},
		reply:    "Warm, enveloping scents with rich base notes.",
		match:    func(p domain.Product) bool { return notesContain(p.Notes.Base, warmBaseNotes) },
	},
	{
		name:     "romantic",
		keywords: []string{"romantic", "date", "night", "evening", "seductive"},
		reply:    "Highly rated scents for a memorable evening.",
		match:    func(p domain.Product) bool { return p.Rating >= 4.5 },
	},
	{
		name:     "office",
		keywords: []string{"office", "work", "daily", "everyday", "professional"},
		reply:    "Easy-wearing, well-reviewed scents for every day.",
		match:    func(p domain.Product) bool { return p.PriceCents <= 10000 && p.Rating >= 4.0 },
	},
	{
		name:     "budget",
		keywords: []string{"cheap", "budget", "affordable", "inexpensive", "bargain"},
		reply:    "Great fragrances that are gentle on the wallet.",
		match:    func(p domain.Product) bool { return p.PriceCents <= 7500 },
	},
	{
		name:     "luxury",
		keywords: []string{"luxury", "premium", "expensive", "splurge", "exclusive"},
		reply:    "Our most indulgent luxury fragrances.",
		match:    func(p domain.Product) bool { return p.PriceCents >= 15000 },
	},
	{
		name:     "quiz",
		keywords: []string{"quiz", "recommend", "recommendation", "suggest", "help"},
		reply:    "Let's find your signature scent. Answer four quick questions.",
		quiz:     true,
	},
}

const fallbackReply = "Here are our top-rated fragrances. Ask me about scents for men or women, fresh or warm notes, an occasion or a budget, or type \"quiz\" for a guided match."

// Respond answers one chat turn. It never fails: unmatched input degrades to
// the globally top-rated products.
func (e *Engine) Respond(ctx context.Context, req domain.ChatRequest, catalog []domain.Product) domain.ChatResponse {
	if req.IsQuiz {
		return e.answerQuiz(req, catalog)
	}

	cacheKey := buildCacheKey(req.Message, catalog)
	if cached, ok, err := e.cache.Get(ctx, cacheKey); err == nil && ok {
		if cached.QuizQuestion == nil {
			cached.Preferences = req.Preferences
		}
		return *cached
	} else if err != nil {
		log.WithError(err).Warn("chat cache read failed")
	}

	resp := e.classify(req, catalog)
	if err := e.cache.Set(ctx, cacheKey, &resp, e.cacheTTL); err != nil {
		log.WithError(err).Warn("chat cache write failed")
	}
	return resp
}

func (e *Engine) classify(req domain.ChatRequest, catalog []domain.Product) domain.ChatResponse {
	tokens := tokenize(req.Message)
	for _, r := range decisionTable {
		if !containsAnyToken(tokens, r.keywords) {
			continue
		}
		if r.quiz {
			return domain.ChatResponse{
				Response:     r.reply,
				Suggestions:  []domain.Product{},
				QuizQuestion: firstQuestion(),
				QuizStep:     1,
				Preferences:  domain.ChatPreferences{},
			}
		}

		suggestions := topRated(catalog, r.match)
		reply := r.reply
		if len(suggestions) == 0 {
			suggestions = topRated(catalog, nil)
			reply = "Nothing matched that exactly, so here are our top-rated fragrances."
		}
		return domain.ChatResponse{
			Response:    reply,
			Suggestions: suggestions,
			Preferences: req.Preferences,
		}
	}

	return domain.ChatResponse{
		Response:    fallbackReply,
		Suggestions: topRated(catalog, nil),
		Preferences: req.Preferences,
	}
}

// answerQuiz folds the answer for req.QuizStep into the preferences and either
// asks the next question or, after the last step, returns the composite match.
func (e *Engine) answerQuiz(req domain.ChatRequest, catalog []domain.Product) domain.ChatResponse {
	question := questionFor(req.QuizStep)
	if question == nil {
		return domain.ChatResponse{
			Response:     "That quiz has already finished. Type \"quiz\" to start again.",
			Suggestions:  []domain.Product{},
			QuizStep:     req.QuizStep,
			Preferences:  req.Preferences,
			QuizComplete: true,
		}
	}

	value, ok := matchOption(*question, req.Message)
	if !ok {
		return domain.ChatResponse{
			Response:     "Please pick one of the options below.",
			Suggestions:  []domain.Product{},
			QuizQuestion: question,
			QuizStep:     req.QuizStep,
			Preferences:  req.Preferences,
		}
	}

	prefs := withAnswer(req.Preferences, req.QuizStep, value)
	if req.QuizStep < quizSteps {
		return domain.ChatResponse{
			Response:     "Got it.",
			Suggestions:  []domain.Product{},
			QuizQuestion: questionFor(req.QuizStep + 1),
			QuizStep:     req.QuizStep + 1,
			Preferences:  prefs,
		}
	}

	notes := scentFamilyNotes[prefs.ScentFamily]
	band, hasBand := budgetBands[prefs.Budget]
	suggestions := topRated(catalog, func(p domain.Product) bool {
		if len(notes) > 0 && !hasAnyNote(p, notes) {
			return false
		}
		return !hasBand || band.contains(p.PriceCents)
	})

	reply := "Based on your answers, these are your best matches."
	if len(suggestions) == 0 {
		suggestions = topRated(catalog, nil)
		reply = "No fragrance matched every answer, so here are our top-rated picks."
	}
	return domain.ChatResponse{
		Response:     reply,
		Suggestions:  suggestions,
		QuizStep:     req.QuizStep,
		Preferences:  prefs,
		QuizComplete: true,
	}
}

func topRated(catalog []domain.Product, match func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		if match == nil || match(p) {
			out = append(out, p)
		}
	}
	domain.SortByRating(out)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func notesContain(notes []string, fragments []string) bool {
	for _, note := range notes {
		lower := strings.ToLower(note)
		for _, fragment := range fragments {
			if strings.Contains(lower, fragment) {
				return true
			}
		}
	}
	return false
}

// tokenize lowercases the message and splits it into letter/digit words, so
// keyword checks never match inside a longer word.
func tokenize(message string) []string {
	return strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsToken(tokens []string, word string) bool {
	return slices.Contains(tokens, word)
}

func containsAnyToken(tokens []string, words []string) bool {
	for _, w := range words {
		if containsToken(tokens, w) {
			return true
		}
	}
	return false
}

// buildCacheKey covers the normalized message and every catalog field a
// suggestion shows, so a catalog change misses the cache.
func buildCacheKey(message string, catalog []domain.Product) string {
	h := sha1.New()
	h.Write([]byte(strings.Join(tokenize(message), " ")))
	for _, p := range catalog {
		fmt.Fprintf(h, "|%s:%s:%d:%d:%d:%g:%d", p.ID, p.Name, p.PriceCents, p.OriginalPriceCents, p.Stock, p.Rating, p.Reviews)
	}
	return fmt.Sprintf("essence:chat:v2:%s", hex.EncodeToString(h.Sum(nil)))
}
