package suggest

import (
	"fmt"
	"strings"
)

const (
	IntentGreeting   = "greeting"
	IntentHelp       = "help"
	IntentFeedback   = "feedback"
	IntentSuggestion = "suggestion"
)

var greetingWords = []string{"hello", "hi", "hey", "greetings", "howdy", "hola"}

var greetingReplies = []string{
	"Hello! I'm your Outfit Assistant. How can I help you today?",
	"Hi there! Ready to find the perfect outfit?",
	"Hey! I can suggest outfits based on your clothing items. What are you looking for?",
	"Greetings! Tell me what kind of outfit you need, and I'll help you create it.",
}

var helpPhrases = []string{"help", "how does this work", "what can you do", "instructions", "guide me"}

const helpText = `
I'm your Outfit Assistant! Here's how I can help you:

1. Ask me to suggest an outfit, like:
   - "Suggest a casual outfit for summer"
   - "What should I wear to work tomorrow?"
   - "I need something formal for a dinner"

2. You can specify:
   - Style (casual, formal, business, bohemian, etc.)
   - Occasion (work, date, weekend, party, etc.)
   - Season (summer, winter, fall, spring)

3. After I suggest an outfit, you can:
   - Save it to your wardrobe
   - Ask for a different suggestion
   - Refine your request with more details

What kind of outfit would you like me to suggest?
`

var feedbackPhrases = []string{"like it", "don't like", "love it", "hate it", "not what i want", "perfect", "good job", "try again"}

var positivePhrases = []string{"like it", "love it", "perfect", "good job"}

var randomPrompts = []string{
	"I need a casual outfit",
	"Suggest a formal outfit",
	"What should I wear for work?",
	"I need something for the weekend",
	"Suggest a summer outfit",
	"What would look good for winter?",
	"I need a business casual look",
	"Suggest something for a date night",
}

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is one user's conversation with the assistant. It keeps the
// running transcript and the latest successful proposal. Sessions are not
// safe for concurrent use; callers serialize access.
type Session struct {
	gen     *Generator
	history []Turn
	current *Proposal
}

func NewSession(gen *Generator) *Session {
	return &Session{gen: gen}
}

// ProcessMessage classifies the message (greeting > help > feedback >
// suggestion request) and produces the assistant reply. Suggestion results
// that succeed become the current proposal.
func (s *Session) ProcessMessage(message string) (Result, error) {
	s.history = append(s.history, Turn{Role: "user", Content: message})

	if isGreeting(message) {
		reply := greetingReplies[s.gen.Rand.Intn(len(greetingReplies))]
		s.reply(reply)
		return Result{Success: true, Message: reply, Intent: IntentGreeting}, nil
	}

	if containsAny(message, helpPhrases) {
		s.reply(helpText)
		return Result{Success: true, Message: helpText, Intent: IntentHelp}, nil
	}

	if containsAny(message, feedbackPhrases) {
		return s.handleFeedback(message)
	}

	result, err := s.gen.GenerateFromMessage(message)
	if err != nil {
		return Result{}, err
	}
	result.Intent = IntentSuggestion
	if result.Success {
		s.current = result.Proposal
	}
	s.reply(result.Message)
	return result, nil
}

func (s *Session) handleFeedback(message string) (Result, error) {
	if containsAny(message, positivePhrases) {
		reply := "I'm glad you like the outfit! Would you like to save it to your wardrobe?"
		s.reply(reply)
		return Result{Success: true, Message: reply, Intent: IntentFeedback}, nil
	}
	// negative feedback rolls straight into a fresh suggestion
	return s.GenerateNew()
}

// GenerateNew runs a random canned prompt through the suggestion path and
// discloses which prompt was used.
func (s *Session) GenerateNew() (Result, error) {
	prompt := randomPrompts[s.gen.Rand.Intn(len(randomPrompts))]
	result, err := s.ProcessMessage(prompt)
	if err != nil {
		return Result{}, err
	}
	if result.Success {
		result.Message = fmt.Sprintf("I've generated a new random outfit based on: '%s'\n\n%s", prompt, result.Message)
	}
	return result, nil
}

// SaveCurrent hands back the latest successful proposal for persisting.
func (s *Session) SaveCurrent() Result {
	if s.current == nil {
		return Result{
			Success: false,
			Message: "No outfit has been generated yet. Ask for an outfit suggestion first.",
		}
	}
	return Result{
		Success:  true,
		Message:  fmt.Sprintf("Outfit '%s' ready to save!", s.current.Name),
		Proposal: s.current,
	}
}

// History returns up to max of the most recent turns, oldest first.
func (s *Session) History(max int) []Turn {
	if max <= 0 || max >= len(s.history) {
		return s.history
	}
	return s.history[len(s.history)-max:]
}

func (s *Session) reply(content string) {
	s.history = append(s.history, Turn{Role: "assistant", Content: content})
}

func isGreeting(message string) bool {
	for _, word := range strings.Fields(strings.ToLower(message)) {
		for _, greeting := range greetingWords {
			if word == greeting {
				return true
			}
		}
	}
	return false
}

func containsAny(message string, phrases []string) bool {
	msg := strings.ToLower(message)
	for _, phrase := range phrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
