package suggest

import "strings"

type keywordRule struct {
	keyword string
	value   string
}

// Tables are ordered; ordering is the tie break when two keywords start at
// the same position in the message.
var styleKeywords = []keywordRule{
	{"casual", "Casual"},
	{"formal", "Formal"},
	{"business", "Business"},
	{"professional", "Business"},
	{"bohemian", "Bohemian"},
	{"boho", "Bohemian"},
	{"minimalist", "Minimalist"},
	{"vintage", "Vintage"},
	{"retro", "Vintage"},
	{"sporty", "Sporty"},
	{"athletic", "Sporty"},
}

var occasionKeywords = []keywordRule{
	{"work", "Work"},
	{"office", "Work"},
	{"date", "Date Night"},
	{"party", "Party"},
	{"weekend", "Weekend"},
	{"casual", "Casual Outing"},
	{"vacation", "Vacation"},
	{"travel", "Travel"},
	{"interview", "Interview"},
	{"meeting", "Meeting"},
	{"special", "Special Occasion"},
	{"wedding", "Wedding"},
	{"dinner", "Dinner"},
}

var seasonKeywords = []keywordRule{
	{"summer", "Summer"},
	{"winter", "Winter"},
	{"fall", "Fall"},
	{"autumn", "Fall"},
	{"spring", "Spring"},
	{"hot", "Summer"},
	{"cold", "Winter"},
	{"warm", "Summer"},
	{"cool", "Fall"},
	{"rainy", "Spring"},
}

// ExtractKeywords maps free text to canonical (style, occasion, season)
// hints. Axes are independent; on each axis the keyword that appears
// earliest in the lowercased message wins. An empty string means the axis
// was not mentioned.
func ExtractKeywords(message string) (style, occasion, season string) {
	msg := strings.ToLower(message)
	style = matchEarliest(msg, styleKeywords)
	occasion = matchEarliest(msg, occasionKeywords)
	season = matchEarliest(msg, seasonKeywords)
	return
}

func matchEarliest(msg string, rules []keywordRule) string {
	best := -1
	value := ""
	for _, rule := range rules {
		idx := strings.Index(msg, rule.keyword)
		if idx < 0 {
			continue
		}
		if best < 0 || idx < best {
			best = idx
			value = rule.value
		}
	}
	return value
}
