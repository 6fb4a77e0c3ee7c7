package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/mailsift/internal/model"
)

// BuildPrompt renders the prompt for a request's kind.
func BuildPrompt(req model.SuggestionRequest) string {
	switch req.Kind {
	case model.PromptTopic:
		return topicPrompt(req)
	case model.PromptMarkers:
		return markersPrompt(req)
	default:
		return sourcePrompt(req)
	}
}

func sourcePrompt(req model.SuggestionRequest) string {
	var b strings.Builder
	b.WriteString("Classify the email into one of these categories exactly:\n")
	b.WriteString(strings.Join(req.Categories, ", "))
	b.WriteString(".\n\nSENDER:\n")
	b.WriteString(req.Sender)
	b.WriteString("\n\nCONTENT:\n")
	b.WriteString(req.Content)
	b.WriteString("\n\nReturn ONLY the category name.\n")
	return b.String()
}

func topicPrompt(req model.SuggestionRequest) string {
	var b strings.Builder
	b.WriteString(`You are assisting with academic email labeling.

Context:
Each email already has a known SOURCE (who sent it).
Your task is to help decide the TOPIC (what the email is about).

You MUST choose exactly ONE topic label from the list below.
You are NOT allowed to invent new labels or merge labels.
If none fit perfectly, choose the closest one.

Allowed Topic Labels:
`)
	for i, c := range req.Categories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString(`
Guidelines:
- Topic is based on INTENT, not sender.
- Source is provided only as context, not as a rule.
- If the email requires student action or compliance, prefer "Important Announcements".
- If the email is promotional or optional with no academic consequence, prefer "General Information / Misc".

Input:
SOURCE: `)
	b.WriteString(req.SourceLabel)
	b.WriteString("\nEMAIL CONTENT:\n")
	b.WriteString(req.Content)
	b.WriteString(`

Output format (strict):
Chosen label: <one label from the list>
Reason: <one or two lines on the required student action and urgency>
`)
	return b.String()
}

// MarkerQuestions are the numbered lines the marker prompt asks for, in
// order. ParseMarkers in the topic package reads the same labels back.
var MarkerQuestions = []struct {
	Label    string
	Question string
}{
	{"Required action", "Is there a required student action? (yes / no)"},
	{"Action verb", "What is the action verb? (pay / submit / attend / register / appear / update / verify / upload / prepare / none)"},
	{"Consequence", "Is there a consequence if ignored? (yes / no / unclear)"},
	{"University enforced", "Is the action enforced by the university system? (yes / no)"},
	{"Optional participation", "Is participation optional? (yes / no)"},
	{"Deadline", "Is there a deadline mentioned or implied? (text span or none)"},
	{"Exam related", "Is the action related to an exam process? (yes / no)"},
	{"Schedule changed", "Is there a change in schedule/date/time/location? (yes / no)"},
	{"Optional learning", "Is this an optional learning opportunity? (yes / no)"},
	{"Optional participation event", "Is this an optional participation event? (yes / no)"},
	{"Academic work type", "What is the academic work type? (ongoing_coursework / one_time_requirement / informational_context / optional_activity)"},
}

func markersPrompt(req model.SuggestionRequest) string {
	var b strings.Builder
	b.WriteString(`You are assisting with academic email topic extraction.

Context:
Each email has a known SOURCE (who sent it).
Your task is to extract obligation markers, NOT to assign a topic label.

Answer ONLY the following questions, in the exact format below.
Do NOT invent categories or labels.

Questions:
`)
	for i, q := range MarkerQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
	}
	b.WriteString("\nInput:\nSOURCE: ")
	b.WriteString(req.SourceLabel)
	b.WriteString("\nEMAIL CONTENT:\n")
	b.WriteString(req.Content)
	b.WriteString("\n\nOutput format (strict):\n")
	for i, q := range MarkerQuestions {
		fmt.Fprintf(&b, "%d. %s: <answer>\n", i+1, q.Label)
	}
	return b.String()
}
