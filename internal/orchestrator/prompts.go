package orchestrator

import "fmt"

func buildAnalysisPrompt(content, emailContext string) string {
	return fmt.Sprintf(`Analyze the following email for sentiment, intent, and key information.

Context: %s

Email Content:
%s

Respond with a JSON object containing:
- content: string (summary of the analysis)
- confidence: number between 0 and 1
- metadata: object with sentiment, intent, and priority fields

Respond only with the JSON object and nothing else.`, emailContext, content)
}

func buildClassificationPrompt(content string) string {
	return fmt.Sprintf(`Classify the following email into one category (personal, business, marketing, notification, threat).

%s

Respond with a JSON object containing:
- content: string (the category)
- confidence: number between 0 and 1

Respond only with the JSON object and nothing else.`, content)
}

func buildSpamPrompt(content string) string {
	return fmt.Sprintf(`Analyze this email for spam indicators.

%s

Respond with a JSON object containing:
- content: string (brief explanation)
- confidence: number between 0 and 1 (spam probability)

Respond only with the JSON object and nothing else.`, content)
}
