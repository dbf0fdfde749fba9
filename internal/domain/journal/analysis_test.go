package journal

import (
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"anxiety", "I feel anxious and worried about the panic attacks", "anxiety"},
		{"depression", "so sad and hopeless, feeling empty and worthless", "depression"},
		{"positive", "happy and grateful, feeling confident and peaceful", "positive"},
		{"neutral hits", "today was okay, a normal regular day, everything fine", "neutral"},
		{"no hits defaults to first category", "the quick brown fox", "anxiety"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus(tt.content)
			if got.Primary != tt.want {
				t.Errorf("ClassifyStatus(%q).Primary = %q, want %q", tt.content, got.Primary, tt.want)
			}
		})
	}
}

func TestClassifyStatus_ScoresAndConfidence(t *testing.T) {
	got := ClassifyStatus("anxious and worried")
	if got.Scores["anxiety"] != 2 {
		t.Errorf("expected anxiety score 2, got %d", got.Scores["anxiety"])
	}
	want := 2.0 / 3.0
	if got.Confidence < want-0.001 || got.Confidence > want+0.001 {
		t.Errorf("expected confidence %.3f, got %.3f", want, got.Confidence)
	}
}

func TestSentimentScore(t *testing.T) {
	tests := []struct {
		name    string
		content string
		label   string
	}{
		{"positive", "what a great and wonderful day", "positive"},
		{"negative", "a terrible awful horrible experience", "negative"},
		{"neutral", "went to the shop today", "neutral"},
		{"mixed cancels out", "good day bad night", "neutral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SentimentScore(tt.content)
			if got.Label != tt.label {
				t.Errorf("SentimentScore(%q).Label = %q, want %q", tt.content, got.Label, tt.label)
			}
		})
	}
}

func TestSentimentScore_WholeWordsOnly(t *testing.T) {
	// "goodness" must not count as "good".
	got := SentimentScore("goodness gracious")
	if got.Score != 0 || got.Label != "neutral" {
		t.Errorf("expected neutral for substring-only match, got %+v", got)
	}
}

func TestSentimentScore_Normalized(t *testing.T) {
	got := SentimentScore("great great bad day")
	want := 1.0 / 4.0
	if got.Score < want-0.001 || got.Score > want+0.001 {
		t.Errorf("expected score %.3f, got %.3f", want, got.Score)
	}
}

func TestEmotionalIndicators(t *testing.T) {
	got := EmotionalIndicators("I was so happy but then the tears came and I felt scared")
	if got["joy"] != 1 {
		t.Errorf("expected joy 1, got %d", got["joy"])
	}
	if got["sadness"] != 1 {
		t.Errorf("expected sadness 1, got %d", got["sadness"])
	}
	if got["fear"] != 1 {
		t.Errorf("expected fear 1, got %d", got["fear"])
	}
	if _, ok := got["disgust"]; ok {
		t.Error("did not expect disgust")
	}
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		name    string
		content string
		level   string
		urgency string
	}{
		{"high", "sometimes I think about suicide", "high", "immediate"},
		{"high phrase", "I just want to give up", "high", "immediate"},
		{"medium", "everything feels hopeless lately", "medium", "soon"},
		{"low", "feeling stressed and tired at work", "low", "monitor"},
		{"minimal", "a quiet afternoon with tea", "minimal", "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RiskLevel(tt.content)
			if got.Level != tt.level {
				t.Errorf("RiskLevel(%q).Level = %q, want %q", tt.content, got.Level, tt.level)
			}
			if got.Urgency != tt.urgency {
				t.Errorf("RiskLevel(%q).Urgency = %q, want %q", tt.content, got.Urgency, tt.urgency)
			}
		})
	}
}

func TestRiskLevel_HighTierWins(t *testing.T) {
	got := RiskLevel("stressed, hopeless, no point in anything")
	if got.Level != "high" {
		t.Errorf("expected high to outrank lower tiers, got %s", got.Level)
	}
}

func TestRecommendations(t *testing.T) {
	recs := Recommendations("so much stress and I feel sad")
	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %d: %v", len(recs), recs)
	}
	if recs[0] != "Try deep breathing exercises or meditation" {
		t.Errorf("unexpected first recommendation: %s", recs[0])
	}
}

func TestRecommendations_Default(t *testing.T) {
	recs := Recommendations("walked the dog in the park")
	if len(recs) != 2 {
		t.Fatalf("expected 2 default recommendations, got %d", len(recs))
	}
	if recs[0] != "Continue journaling to track your emotional well-being" {
		t.Errorf("unexpected default recommendation: %s", recs[0])
	}
}

func TestKeyThemes(t *testing.T) {
	themes := KeyThemes("my boss at work gave me a new job task, then I saw a friend")
	if len(themes) != 2 {
		t.Fatalf("expected 2 themes, got %v", themes)
	}
	if themes[0] != "work" {
		t.Errorf("expected work first (most hits), got %v", themes)
	}
	if themes[1] != "relationships" {
		t.Errorf("expected relationships second, got %v", themes)
	}
}

func TestKeyThemes_Empty(t *testing.T) {
	if themes := KeyThemes("nothing relevant here"); len(themes) != 0 {
		t.Errorf("expected no themes, got %v", themes)
	}
}

func TestAnalyze_Aggregates(t *testing.T) {
	a := Analyze("I feel anxious and stressed about work")
	if a.Status.Primary != "anxiety" {
		t.Errorf("expected anxiety, got %s", a.Status.Primary)
	}
	if a.Risk.Level != "low" {
		t.Errorf("expected low risk, got %s", a.Risk.Level)
	}
	if len(a.Recommendations) == 0 {
		t.Error("expected recommendations")
	}
	if len(a.KeyThemes) == 0 || a.KeyThemes[0] != "work" {
		t.Errorf("expected work theme, got %v", a.KeyThemes)
	}
}
