package journal

import (
	"sort"
	"strings"
)

// Keyword-based content analysis. Classification, emotion, risk, and
// theme detection use substring matches against the lower-cased entry;
// sentiment scoring matches whole words only.

type Classification struct {
	Primary    string         `json:"primary"`
	Scores     map[string]int `json:"scores"`
	Confidence float64        `json:"confidence"`
}

type Sentiment struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

type Risk struct {
	Level          string `json:"level"`
	Urgency        string `json:"urgency"`
	Recommendation string `json:"recommendation"`
}

// Analysis is the full result for one piece of journal content.
type Analysis struct {
	Status              Classification `json:"mental_health_status"`
	Sentiment           Sentiment      `json:"sentiment"`
	EmotionalIndicators map[string]int `json:"emotional_indicators"`
	Risk                Risk           `json:"risk"`
	Recommendations     []string       `json:"recommendations"`
	KeyThemes           []string       `json:"key_themes"`
}

// statusCategories is ordered; ties resolve to the earlier category.
var statusCategories = []struct {
	name     string
	keywords []string
}{
	{"anxiety", []string{"anxious", "worried", "nervous", "panic", "fear", "stress", "overwhelmed"}},
	{"depression", []string{"sad", "depressed", "hopeless", "empty", "worthless", "tired", "lonely"}},
	{"positive", []string{"happy", "joy", "excited", "grateful", "confident", "peaceful", "content"}},
	{"neutral", []string{"okay", "normal", "fine", "regular", "usual"}},
}

var (
	positiveWords = []string{"good", "great", "happy", "love", "amazing", "wonderful", "excellent"}
	negativeWords = []string{"bad", "terrible", "hate", "awful", "horrible", "sad", "angry"}
)

var emotionKeywords = map[string][]string{
	"joy":      {"happy", "joy", "excited", "cheerful", "delighted"},
	"sadness":  {"sad", "cry", "tears", "grief", "sorrow"},
	"anger":    {"angry", "mad", "furious", "rage", "irritated"},
	"fear":     {"scared", "afraid", "terrified", "anxious", "worried"},
	"surprise": {"surprised", "shocked", "amazed", "astonished"},
	"disgust":  {"disgusted", "revolted", "sick", "nauseated"},
}

var (
	highRiskKeywords   = []string{"suicide", "kill myself", "end it all", "no point", "give up"}
	mediumRiskKeywords = []string{"hopeless", "worthless", "can't go on", "too much"}
	lowRiskKeywords    = []string{"stressed", "tired", "overwhelmed", "difficult"}
)

var themeKeywords = map[string][]string{
	"work":          {"work", "job", "career", "boss", "colleague", "office"},
	"relationships": {"family", "friend", "partner", "relationship", "love", "marriage"},
	"health":        {"health", "sick", "doctor", "medicine", "pain", "tired"},
	"finance":       {"money", "financial", "debt", "expensive", "budget", "income"},
	"education":     {"school", "study", "exam", "grade", "teacher", "student"},
}

// Analyze runs every heuristic over the content.
func Analyze(content string) Analysis {
	return Analysis{
		Status:              ClassifyStatus(content),
		Sentiment:           SentimentScore(content),
		EmotionalIndicators: EmotionalIndicators(content),
		Risk:                RiskLevel(content),
		Recommendations:     Recommendations(content),
		KeyThemes:           KeyThemes(content),
	}
}

// ClassifyStatus picks the category with the most keyword hits.
// Confidence is the winning hit count over the word count.
func ClassifyStatus(content string) Classification {
	text := strings.ToLower(content)
	scores := make(map[string]int, len(statusCategories))
	primary := statusCategories[0].name
	best := -1
	for _, cat := range statusCategories {
		n := 0
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				n++
			}
		}
		scores[cat.name] = n
		if n > best {
			best = n
			primary = cat.name
		}
	}
	words := len(strings.Fields(content))
	confidence := 0.0
	if words > 0 {
		confidence = float64(best) / float64(words)
	}
	return Classification{Primary: primary, Scores: scores, Confidence: confidence}
}

// SentimentScore counts positive and negative words; the score is
// normalized by word count.
func SentimentScore(content string) Sentiment {
	words := strings.Fields(strings.ToLower(content))
	score := 0
	for _, w := range words {
		for _, p := range positiveWords {
			if w == p {
				score++
			}
		}
		for _, n := range negativeWords {
			if w == n {
				score--
			}
		}
	}
	s := Sentiment{Label: "neutral"}
	if len(words) > 0 {
		s.Score = float64(score) / float64(len(words))
	}
	if score > 0 {
		s.Label = "positive"
	} else if score < 0 {
		s.Label = "negative"
	}
	return s
}

// EmotionalIndicators returns keyword hit counts per emotion, omitting
// emotions with no hits.
func EmotionalIndicators(content string) map[string]int {
	text := strings.ToLower(content)
	detected := map[string]int{}
	for emotion, keywords := range emotionKeywords {
		n := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				n++
			}
		}
		if n > 0 {
			detected[emotion] = n
		}
	}
	return detected
}

// RiskLevel checks the tiers in severity order; the first tier with a
// match wins.
func RiskLevel(content string) Risk {
	text := strings.ToLower(content)
	containsAny := func(keywords []string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
	switch {
	case containsAny(highRiskKeywords):
		return Risk{Level: "high", Urgency: "immediate", Recommendation: "Seek professional help immediately"}
	case containsAny(mediumRiskKeywords):
		return Risk{Level: "medium", Urgency: "soon", Recommendation: "Consider speaking with a counselor"}
	case containsAny(lowRiskKeywords):
		return Risk{Level: "low", Urgency: "monitor", Recommendation: "Practice self-care and monitor mood"}
	}
	return Risk{Level: "minimal", Urgency: "none", Recommendation: "Continue healthy habits"}
}

// Recommendations builds advice from content markers, with a default
// pair when nothing matches.
func Recommendations(content string) []string {
	text := strings.ToLower(content)
	var recs []string

	if strings.Contains(text, "stress") || strings.Contains(text, "overwhelmed") {
		recs = append(recs,
			"Try deep breathing exercises or meditation",
			"Consider breaking tasks into smaller, manageable steps")
	}
	if strings.Contains(text, "sad") || strings.Contains(text, "depressed") {
		recs = append(recs,
			"Engage in physical activity or exercise",
			"Connect with friends or family members",
			"Consider professional counseling")
	}
	if strings.Contains(text, "anxious") || strings.Contains(text, "worried") {
		recs = append(recs,
			"Practice mindfulness or grounding techniques",
			"Limit caffeine intake",
			"Establish a regular sleep schedule")
	}
	if len(recs) == 0 {
		recs = append(recs,
			"Continue journaling to track your emotional well-being",
			"Maintain healthy lifestyle habits")
	}
	return recs
}

// KeyThemes returns matched themes ordered by hit count, then name for
// a stable order.
func KeyThemes(content string) []string {
	text := strings.ToLower(content)
	counts := map[string]int{}
	for theme, keywords := range themeKeywords {
		n := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				n++
			}
		}
		if n > 0 {
			counts[theme] = n
		}
	}
	themes := make([]string, 0, len(counts))
	for theme := range counts {
		themes = append(themes, theme)
	}
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return themes[i] < themes[j]
	})
	return themes
}
