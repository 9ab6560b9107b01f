package voicebridge

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// The simulator stands in for the assistant backend in offline mode.
// There is no real speech or language understanding: voice queries get
// one of a small fixed set of canned recognitions, and text queries get
// a keyword-classified canned paragraph.

type voiceSample struct {
	Query    string
	Response string
	Category string
}

var voiceSamples = []voiceSample{
	{
		Query:    "How can I stay healthy?",
		Response: "I understand you asked about health. Here are some basic health tips: wash your hands regularly, eat nutritious foods, and get adequate sleep.",
		Category: CategoryHealth,
	},
	{
		Query:    "Tell me about basic mathematics",
		Response: "For educational content, I recommend starting with basic concepts and building up your knowledge gradually.",
		Category: CategoryEducation,
	},
	{
		Query:    "How do I save money?",
		Response: "Regarding finance, always budget your money wisely and try to save a portion of your income regularly.",
		Category: CategoryFinance,
	},
	{
		Query:    "Tell me a story",
		Response: "Entertainment is important for mental health. Consider traditional stories, music, and cultural activities.",
		Category: CategoryEntertainment,
	},
}

var categoryReplies = map[string]string{
	CategoryHealth:        "For health queries: Regular exercise, balanced diet, adequate sleep, and proper hygiene are essential. Consult healthcare providers for specific medical concerns.",
	CategoryEducation:     "Educational tip: Break down complex topics into smaller parts, practice regularly, ask questions, and use multiple learning methods like reading, listening, and hands-on activities.",
	CategoryFinance:       "Financial advice: Create a budget, track expenses, save regularly, avoid unnecessary debt, and learn about basic investment principles for long-term wealth building.",
	CategoryEntertainment: "For entertainment: Engage with local cultural activities, traditional music, storytelling, games, and community events that bring people together.",
}

// keywordRules are checked in order; the first matching rule wins, so
// health keywords take precedence over education, education over
// finance, finance over entertainment.
var keywordRules = []struct {
	category string
	keywords []string
}{
	{CategoryHealth, []string{"health", "medical", "sick"}},
	{CategoryEducation, []string{"learn", "education", "school"}},
	{CategoryFinance, []string{"money", "finance", "bank"}},
	{CategoryEntertainment, []string{"fun", "entertainment", "story"}},
}

const fallbackReplyFormat = `Thank you for your question about "%s". In a connected environment, I would provide detailed, personalized responses. For now, I recommend exploring our lessons section for comprehensive information.`

type simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// newSimulator creates a simulator; rnd may be nil for a time-seeded
// source, or fixed by tests for determinism.
func newSimulator(rnd *rand.Rand) *simulator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &simulator{rnd: rnd}
}

// voice picks one canned recognition uniformly at random.
func (s *simulator) voice() voiceSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return voiceSamples[s.rnd.Intn(len(voiceSamples))]
}

// respond classifies text and returns the canned reply for the detected
// category. An explicitly supplied known category bypasses the keyword
// scan entirely. Unmatched text gets a generic acknowledgment echoing
// the query, tagged "general".
func (s *simulator) respond(text, category string) (reply, detected string) {
	if r, ok := categoryReplies[category]; ok {
		return r, category
	}
	lower := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return categoryReplies[rule.category], rule.category
			}
		}
	}
	return fmt.Sprintf(fallbackReplyFormat, text), CategoryGeneral
}
