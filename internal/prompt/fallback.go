package prompt

import (
	"fmt"
	"strings"
)

// FallbackGenreClassifierPrompt renders the system instruction without the template
// engine. Used when the embedded template cannot be loaded or executed.
func FallbackGenreClassifierPrompt(data GenreClassifierData) string {
	builder := &strings.Builder{}
	builder.WriteString("Du bist ein Filmexperte, der Benutzer-Wünsche analysiert.\n\n")
	builder.WriteString("Deine Aufgabe: Analysiere den Benutzer-Prompt und ordne ihn den passenden Film-Genres zu.\n\n")
	builder.WriteString("Verfügbare Genre-Kategorien:\n")
	for _, c := range data.Categories {
		builder.WriteString(fmt.Sprintf("- %s: %s (Genre-IDs: %s)\n", c.Name, c.Description, c.IDList))
	}
	builder.WriteString("\nAntworte NUR mit einer kommagetrennten Liste der passenden Genre-IDs.\n")
	builder.WriteString(fmt.Sprintf("Beispiel: Wenn der Benutzer nach lustigen Alien-Filmen fragt, antworte: %s\n", data.ExampleAnswer))
	builder.WriteString("Antworte NICHTS anderes, nur die Zahlen!")
	return builder.String()
}

// GenreClassifierUserMessage wraps the raw user prompt into the single user turn.
func GenreClassifierUserMessage(data GenreClassifierUserData) string {
	return fmt.Sprintf("Analysiere diesen Film-Wunsch: '%s'", data.UserQuery)
}
