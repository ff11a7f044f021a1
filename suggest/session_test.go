package suggest

import (
	"math/rand"
	"strings"
	"testing"

	"closetapi/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatCatalog() staticCatalog {
	return staticCatalog{
		fakeItem(1, "Linen Shirt", "Shirt", "White", "Summer", "Casual"),
		fakeItem(2, "Dark Jeans", "Jeans", "Blue", "All-Season", "Casual"),
		fakeItem(3, "Pencil Skirt", "Skirt", "Black", "All-Season", "Work"),
		fakeItem(4, "Low Tops", "Sneakers", "White", "All-Season", "Casual"),
	}
}

func newTestSession(catalog Catalog, seed int64) *Session {
	return NewSession(NewGenerator(catalog, rand.New(rand.NewSource(seed))))
}

func TestSessionGreeting(t *testing.T) {
	session := newTestSession(staticCatalog{}, 1)

	result, err := session.ProcessMessage("Hello")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, IntentGreeting, result.Intent)
	assert.Contains(t, greetingReplies, result.Message)

	history := session.History(0)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestSessionGreetingNeedsWholeWord(t *testing.T) {
	session := newTestSession(chatCatalog(), 1)

	// "hi" inside another word must not trigger the greeting path
	result, err := session.ProcessMessage("something for hiking this weekend")
	require.NoError(t, err)
	assert.Equal(t, IntentSuggestion, result.Intent)
}

func TestSessionHelp(t *testing.T) {
	session := newTestSession(staticCatalog{}, 1)

	result, err := session.ProcessMessage("how does this work?")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, IntentHelp, result.Intent)
	assert.Contains(t, result.Message, "I'm your Outfit Assistant!")
}

func TestSessionPositiveFeedback(t *testing.T) {
	session := newTestSession(staticCatalog{}, 1)

	result, err := session.ProcessMessage("I love it!")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, IntentFeedback, result.Intent)
	assert.Contains(t, result.Message, "Would you like to save it")
}

func TestSessionNegativeFeedbackRegenerates(t *testing.T) {
	session := newTestSession(chatCatalog(), 2)

	result, err := session.ProcessMessage("try again please")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, IntentSuggestion, result.Intent)
	assert.True(t, strings.HasPrefix(result.Message, "I've generated a new random outfit based on: '"))
	assert.NotNil(t, result.Proposal)
}

func TestSessionSuggestionStoresCandidate(t *testing.T) {
	session := newTestSession(chatCatalog(), 3)

	saved := session.SaveCurrent()
	assert.False(t, saved.Success)
	assert.Contains(t, saved.Message, "No outfit has been generated yet")

	result, err := session.ProcessMessage("I need a casual outfit for summer")
	require.NoError(t, err)
	require.True(t, result.Success)

	saved = session.SaveCurrent()
	require.True(t, saved.Success)
	assert.Equal(t, result.Proposal, saved.Proposal)
	assert.Contains(t, saved.Message, "ready to save!")
}

func TestSessionSaveReturnsLatestCandidate(t *testing.T) {
	session := newTestSession(chatCatalog(), 4)

	first, err := session.ProcessMessage("I need a casual summer outfit")
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := session.ProcessMessage("what should I wear to work")
	require.NoError(t, err)
	require.True(t, second.Success)

	saved := session.SaveCurrent()
	require.True(t, saved.Success)
	assert.Equal(t, second.Proposal, saved.Proposal)
	assert.NotEqual(t, first.Proposal.Name, saved.Proposal.Name)
}

func TestSessionGenerateNewDisclosesPrompt(t *testing.T) {
	session := newTestSession(chatCatalog(), 5)

	result, err := session.GenerateNew()
	require.NoError(t, err)
	require.True(t, result.Success)

	var used string
	for _, prompt := range randomPrompts {
		if strings.Contains(result.Message, "'"+prompt+"'") {
			used = prompt
			break
		}
	}
	assert.NotEmpty(t, used, "message should disclose the canned prompt")
}

func TestSessionDeterministicTranscript(t *testing.T) {
	messages := []string{"hello there", "I need a casual outfit", "try again", "perfect"}

	run := func() (*Session, []Result) {
		session := newTestSession(chatCatalog(), 99)
		var results []Result
		for _, m := range messages {
			res, err := session.ProcessMessage(m)
			require.NoError(t, err)
			results = append(results, res)
		}
		return session, results
	}

	firstSession, firstResults := run()
	secondSession, secondResults := run()

	assert.Equal(t, firstResults, secondResults)
	assert.Equal(t, firstSession.History(0), secondSession.History(0))
}

func TestSessionHistoryLimit(t *testing.T) {
	session := newTestSession(staticCatalog{}, 6)

	for _, m := range []string{"hello", "help", "hey"} {
		_, err := session.ProcessMessage(m)
		require.NoError(t, err)
	}

	require.Len(t, session.History(0), 6)
	tail := session.History(2)
	require.Len(t, tail, 2)
	assert.Equal(t, "assistant", tail[1].Role)

	// history only grows
	_, err := session.ProcessMessage("hi")
	require.NoError(t, err)
	assert.Len(t, session.History(0), 8)
}

func TestSessionFeedbackEmptyWardrobe(t *testing.T) {
	session := newTestSession(staticCatalog{}, 7)

	result, err := session.ProcessMessage("I hate it")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No clothing items found")
}

func TestSessionModelsRoundTrip(t *testing.T) {
	// proposal item ids refer to catalog rows, which controllers resolve
	// back to models.ClothingItem on save
	catalog := chatCatalog()
	session := newTestSession(catalog, 8)

	result, err := session.ProcessMessage("casual summer")
	require.NoError(t, err)
	require.True(t, result.Success)

	known := map[uint]models.ClothingItem{}
	for _, it := range catalog {
		known[it.ID] = it
	}
	for _, picked := range result.Proposal.Items {
		item, ok := known[picked.ItemID]
		require.True(t, ok)
		assert.Equal(t, item.Name, picked.Name)
		assert.Equal(t, item.ClothingType, picked.Type)
	}
}
