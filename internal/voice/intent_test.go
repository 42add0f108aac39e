package voice

import "testing"

func TestExtractIntentPriority(t *testing.T) {
	cases := []struct {
		name       string
		transcript string
		intent     Intent
		isAQI      bool
	}{
		{"forecast beats status, time first", "tomorrow what will the air quality be", IntentAQIForecast, true},
		{"forecast beats status, keyword first", "what is the AQI looking like this evening", IntentAQIForecast, true},
		{"status", "what is the air quality right now", IntentAQIStatus, true},
		{"health advice", "should I wear a mask when cycling", IntentHealthAdvice, false},
		{"location only", "how are things in Whitefield", IntentLocationAQI, false},
		{"general fallback", "tell me a joke", IntentGeneralQuery, false},
		{"time without air quality keyword stays non-forecast", "should i run tomorrow", IntentHealthAdvice, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.transcript)
			if got.Intent != tc.intent {
				t.Errorf("Extract(%q).Intent = %q, want %q", tc.transcript, got.Intent, tc.intent)
			}
			if got.IsAirQualityQuery != tc.isAQI {
				t.Errorf("Extract(%q).IsAirQualityQuery = %v, want %v", tc.transcript, got.IsAirQualityQuery, tc.isAQI)
			}
		})
	}
}

// Entities follow keyword-list order, not position in the transcript.
func TestExtractEntitiesListOrderWins(t *testing.T) {
	got := Extract("is the smog worse in Whitefield or Bengaluru this evening")
	if got.Entities.Location != "bengaluru" {
		t.Errorf("Location = %q, want %q", got.Entities.Location, "bengaluru")
	}
	if got.Entities.Timeframe != "evening" {
		t.Errorf("Timeframe = %q, want %q", got.Entities.Timeframe, "evening")
	}
}

func TestExtractEmptyEntities(t *testing.T) {
	got := Extract("completely unrelated sentence")
	if got.Entities != (Entities{}) {
		t.Errorf("Entities = %+v, want empty", got.Entities)
	}
	if got.Intent != IntentGeneralQuery {
		t.Errorf("Intent = %q, want general_query", got.Intent)
	}
}

func TestPromptTemplates(t *testing.T) {
	r := Extract("what will the AQI be tomorrow in bangalore")
	want := "What will the air quality be like tomorrow in bangalore?"
	if got := Prompt(r, "ignored"); got != want {
		t.Errorf("Prompt = %q, want %q", got, want)
	}

	general := Result{Intent: IntentGeneralQuery}
	if got := Prompt(general, "original words"); got != "original words" {
		t.Errorf("Prompt(general) = %q, want original passthrough", got)
	}
}
