package assistant

import (
	"fmt"
	"strings"

	"github.com/airwatchhq/airwatch/internal/airq"
	"github.com/airwatchhq/airwatch/internal/common"
)

// mockChatResponse produces a deterministic reply from the current context
// when no hosted model is reachable. Responses are recognizably templated but
// grounded in real data, so the dashboard stays usable offline.
func mockChatResponse(message string, ctx airq.AQIContext) string {
	lower := strings.ToLower(message)
	index := ctx.CurrentAQI
	category := ctx.Classification.Category

	switch {
	case common.HasAny(lower, "aqi", "air quality"):
		return fmt.Sprintf("The current AQI in %s is %d, which is considered %s. %s",
			ctx.Location, index, category, healthAdvice(index))

	case common.HasAny(lower, "safe", "outside", "exercise"):
		switch {
		case index <= 100:
			return fmt.Sprintf("With an AQI of %d (%s), it's generally safe for outdoor activities. However, sensitive individuals should still be cautious.", index, category)
		case index <= 150:
			return fmt.Sprintf("The AQI is %d (%s). Sensitive groups should limit outdoor activities. Consider wearing a mask if you must go outside.", index, category)
		default:
			return fmt.Sprintf("The AQI is %d (%s). I recommend staying indoors and avoiding outdoor exercise. If you must go outside, wear an N95 mask.", index, category)
		}

	case strings.Contains(lower, "mask"):
		if index > 100 {
			return fmt.Sprintf("Yes, I recommend wearing an N95 mask when going outside. The current AQI of %d indicates %s air quality.", index, category)
		}
		return fmt.Sprintf("With the current AQI of %d (%s), a mask isn't strictly necessary, but sensitive individuals may still benefit from wearing one.", index, category)

	case common.HasAny(lower, "weather", "temperature"):
		return fmt.Sprintf("Current weather in %s: %.0f°C, %.0f%% humidity, wind speed %.0f km/h. The AQI is %d (%s).",
			ctx.Location, ctx.Weather.Temperature, ctx.Weather.Humidity, ctx.Weather.WindSpeed, index, category)

	default:
		return fmt.Sprintf("I'm here to help with air quality questions for %s. The current AQI is %d (%s). You can ask me about safety recommendations, pollution levels, or health advice.",
			ctx.Location, index, category)
	}
}

// mockVoiceResponse is the short spoken-style variant of the mock path.
func mockVoiceResponse(message string, ctx airq.AQIContext) string {
	lower := strings.ToLower(message)
	index := ctx.CurrentAQI
	category := ctx.Classification.Category

	switch {
	case common.HasAny(lower, "aqi", "air quality"):
		return fmt.Sprintf("The AQI is %d, which is %s.", index, category)

	case common.HasAny(lower, "safe", "outside"):
		if index <= 100 {
			return fmt.Sprintf("It's generally safe to go outside with an AQI of %d.", index)
		}
		return fmt.Sprintf("With an AQI of %d, I recommend limiting outdoor activities.", index)

	case strings.Contains(lower, "mask"):
		if index > 100 {
			return fmt.Sprintf("Yes, wear a mask. The AQI is %d.", index)
		}
		return fmt.Sprintf("A mask isn't necessary right now. AQI is %d.", index)

	default:
		return fmt.Sprintf("The current AQI is %d, which is %s. How can I help you?", index, category)
	}
}

func healthAdvice(index int) string {
	switch {
	case index <= 50:
		return "Air quality is good. Perfect for outdoor activities."
	case index <= 100:
		return "Air quality is moderate. Generally safe for most people."
	case index <= 150:
		return "Sensitive groups should limit outdoor activities."
	case index <= 200:
		return "Everyone should limit outdoor activities and wear masks."
	case index <= 300:
		return "Avoid outdoor activities. Stay indoors with air purifiers."
	default:
		return "Hazardous conditions. Avoid all outdoor activities."
	}
}
