package compose

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raqiba/Weather-ChatBot/internal/chat"
)

const noJSONRule = "Do not include raw JSON, braces, quoted keys or field names in your answer. Write plain conversational prose."

func currentNarrationPrompt(loc string, raw json.RawMessage, query string, recent []chat.Message) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a friendly weather assistant. Summarize the current weather in %s for the user.\n", loc)
	sb.WriteString("Cover the temperature and how it feels, the current conditions, humidity and wind, and any notable phenomena.\n")
	sb.WriteString(noJSONRule + "\n\n")
	writeHistory(&sb, recent)
	fmt.Fprintf(&sb, "Weather data:\n%s\n\n", raw)
	fmt.Fprintf(&sb, "User's question: %s\n", query)
	return sb.String()
}

func forecastNarrationPrompt(loc string, days int, raw json.RawMessage, query string, recent []chat.Message) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a friendly weather assistant. Give a day-by-day forecast summary for %s covering the next %d day(s).\n", loc, days)
	sb.WriteString("For each day mention the temperature, how it feels, the conditions, the chance of precipitation and the wind.\n")
	sb.WriteString(noJSONRule + "\n\n")
	writeHistory(&sb, recent)
	fmt.Fprintf(&sb, "Forecast data:\n%s\n\n", raw)
	fmt.Fprintf(&sb, "User's question: %s\n", query)
	return sb.String()
}

func generalPrompt(query string, recent []chat.Message) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful weather assistant. Answer the user's question based on your knowledge about weather.\n")
	sb.WriteString("Keep your responses concise and informative.\n\n")
	fmt.Fprintf(&sb, "Conversation history:\n%s\n\n", chat.Transcript(recent))
	fmt.Fprintf(&sb, "User's latest question: %s\n", query)
	return sb.String()
}

func writeHistory(sb *strings.Builder, recent []chat.Message) {
	if len(recent) == 0 {
		return
	}
	fmt.Fprintf(sb, "Recent conversation:\n%s\n\n", chat.Transcript(recent))
}
