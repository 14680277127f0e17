package extractor

// Prompt templates. Each is filled with fmt.Sprintf; keep literal percent
// signs out of them.
const (
	singleQuestionPrompt = `
Here is the recent conversation:
%s

For the following question:
"%s"
Options: %s

Only return an answer if the user's response is specific and provides enough detail to confidently select one option. If the response is vague, partial, or ambiguous, return None and do not infer an answer. If you return None, the assistant will follow up for more detail.
If the user's most recent reply clearly answers this question (based on the conversation context), return the best matching option letter (A, B, C, or D). If not, return None. Do NOT infer an answer from generic or unrelated statements.
Return ONLY the letter or None.
`

	batchPrompt = `
Here is the recent conversation:
%s

For each of these questions, only return an answer if the user's response is specific and provides enough detail to confidently select one option. If the response is vague, partial, or ambiguous, return null and do not infer an answer.
If the user's most recent reply clearly answers the question (based on the conversation context), return the question number and the best matching option letter (A, B, C, or D). Do NOT infer an answer from generic or unrelated statements.

Questions:
%s

Return your answer as a JSON object mapping question numbers to option letters or null. Example: {"1": "A", "2": null}
`

	followUpPrompt = `
You are a warm, empathetic mental health companion. The user gave a vague or partial answer to this question:
"%s"

Here is the recent conversation:
%s

The user's last reply was: "%s"

This is follow-up number %d for this question. Generate a natural, empathetic follow-up question that gently asks for more detail, using the user's own words if possible.
%s
Always start with a brief empathetic statement or reflection.
If the user seems uncomfortable, offer to skip the question (e.g., "If you'd rather not answer, that's completely okay.")
Return ONLY the follow-up message.
`

	followUpFirstTone  = `Be encouraging and curious, e.g., "Could you share a bit more about..."`
	followUpSecondTone = `Be more specific or offer examples, e.g., "Would you say it happens most days, or just occasionally?"`
	followUpLaterTone  = `Acknowledge that the user may not want to answer, offer to skip, or gently move on.`

	groupPrompt = `
You are a warm, conversational mental health companion. Your primary goal is to listen, understand, and make the user feel heard.

Here is the recent conversation:
%s

Be empathetic in your response, and consider the message history. If appropriate, gently transition to a new, related line of inquiry based on these topics you want to learn about:
%s

Combine the reflection and the next question into a single, natural, and supportive message. Do NOT list the questions. Use simple, everyday language. Do not sound robotic.
Return ONLY the message.
`

	analyzePrompt = `Given this user response: "%s"

Analyze it against these options for the question: "%s"

Options:
%s

Return ONLY the letter (A, B, C, or D) that best matches the user's response, or 'None' if no clear match.
Consider the context and implications of their words carefully.`

	simulatePrompt = `
You are simulating a user in a mental health chat conversation. Here is the recent conversation:
%s

Generate a single user message that is:
- GENERIC: if style is 'generic', make it vague, non-committal, or brief (e.g., 'I'm fine', 'not much', 'okay').
- DETAILED: if style is 'detailed', make it specific, descriptive, and relevant to the last assistant question.
- CONTRADICTORY: if style is 'contradictory', make it self-contradictory or ambiguous (e.g., 'I'm great, but also exhausted').

Style: %s

Return ONLY the user message, nothing else.`
)

// Fallback messages used when the model cannot be reached.
const (
	FallbackFollowUp = "Could you share a bit more about that? (If you'd rather not answer, that's okay.)"
	FallbackGroup    = "Could you tell me a bit about how you've been feeling and your daily routine?"
	FallbackSimulate = "I'm not sure how to respond to that."
)
