package agent

import (
	"strings"
	"text/template"
)

var agentPrompt = template.Must(template.New("agent").Parse(`You are a friendly Hindi tutor helping a student practise synonyms of Hindi words.

You can use these tools:
{{range .Tools}}- {{.Name}}: {{.Description}}
{{end}}
To use a tool, reply with exactly:
Action: <tool name>
Action Input: <input>

When you can answer the student, reply with:
Final Answer: <your reply>

Task: {{.Task}}
{{.Scratchpad}}`))

var hintPrompt = template.Must(template.New("hint").Parse(
	`Give {{.Count}} short hints, one per line, that help a student find a synonym of the Hindi word "{{.Word}}" (word id {{.WordID}}). Do not number the lines.`))

var feedbackPrompt = template.Must(template.New("feedback").Parse(
	`Student {{.StudentID}} answered "{{.Answer}}" for the Hindi word "{{.Word}}" (word id {{.WordID}}). The answer is {{if .Correct}}correct{{else}}incorrect{{end}}.{{if not .Correct}} Accepted synonyms are: {{.Synonyms}}.{{end}} Write one or two encouraging sentences of feedback in Hindi and English.`))

var summaryPrompt = template.Must(template.New("summary").Parse(
	`Summarise a practice session for the student. Correct answers: {{.Correct}}. Incorrect answers: {{.Incorrect}}. Words learned: {{if .Words}}{{.Words}}{{else}}none{{end}}. Keep it short and encouraging.`))

func renderAgentPrompt(tools []Tool, task, scratchpad string) (string, error) {
	return render(agentPrompt, struct {
		Tools      []Tool
		Task       string
		Scratchpad string
	}{tools, task, scratchpad})
}

func render(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
