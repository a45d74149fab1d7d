package prompts

import "fmt"

// GetSuggestionsPrompt asks for improvement ideas for an existing layout,
// given as indented JSON.
func GetSuggestionsPrompt(schemaJSON string) string {
	return fmt.Sprintf(`Analyze this UI layout and provide 3-5 specific improvement suggestions:
%s

Respond with a JSON array of suggestion strings. Each suggestion should be actionable and specific.
Example: ["Add a search bar to the header", "Use a pie chart for category distribution", "Add pagination to the table"]

Respond with ONLY the JSON array, no markdown.`, schemaJSON)
}

// GetEnhancePrompt asks for a more detailed version of a UI description.
func GetEnhancePrompt(userPrompt string) string {
	return fmt.Sprintf(`Enhance this UI description to be more detailed and specific, but keep it concise (max 2 sentences):
"%s"

Respond with ONLY the enhanced description, no quotes, no explanation.`, userPrompt)
}
