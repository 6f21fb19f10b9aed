package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Recognized context keys. Anything else in the map is stored but does not
// shape the coaching prompt.
const (
	contextKeySpeakerTrait  = "speaker_trait"
	contextKeyListener      = "listener"
	contextKeySituation     = "situation"
	contextKeyTopicPriority = "topic_priority"
)

const contextNotAvailable = "N/A"

func contextField(ctx map[string]string, key string) string {
	if v := strings.TrimSpace(ctx[key]); v != "" {
		return v
	}
	return contextNotAvailable
}

// buildCoachingPrompt builds the primary-model prompt from the four recognized
// context fields plus optional feedback directives.
func buildCoachingPrompt(context map[string]string, feedbackType, feedbackGoal string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a communication coach. Evaluate the following speech based on the provided context.

- Speaker Traits: %s
- Listener Type: %s
- Situation: %s
- Priority Topics: %s
`,
		contextField(context, contextKeySpeakerTrait),
		contextField(context, contextKeyListener),
		contextField(context, contextKeySituation),
		contextField(context, contextKeyTopicPriority),
	)

	if ft := strings.TrimSpace(feedbackType); ft != "" {
		fmt.Fprintf(&b, "Give %s feedback.\n", strings.ToLower(ft))
	}
	if fg := strings.TrimSpace(feedbackGoal); fg != "" {
		fmt.Fprintf(&b, "Focus especially on %s.\n", strings.ToLower(fg))
	}

	b.WriteString("Keep the response helpful and clear.")

	return b.String()
}

// buildFallbackPrompt builds the local-model prompt. Unlike the primary
// template it embeds the raw context and the original text.
func buildFallbackPrompt(text string, context map[string]string) string {
	rawContext, err := json.Marshal(context)
	if err != nil || context == nil {
		rawContext = []byte("{}")
	}

	return fmt.Sprintf(`You are a coach helping someone improve their communication.
Context: %s
Speech: %s
How did they do? Give feedback.`, rawContext, text)
}

// transcriptSeparator joins session transcripts inside the improvement prompt.
const transcriptSeparator = "\n\n---\n\n"

// buildImprovementPrompt builds the history summarization prompt.
func buildImprovementPrompt(transcriptions []string) string {
	joined := strings.Join(transcriptions, transcriptSeparator)

	return fmt.Sprintf(`You are an expert communication coach. Analyze the following conversation transcripts over time.

%s

Provide a concise summary on how the speaker's communication has improved.
Also give constructive tips for further improvement.

Keep it under 50 words. Output in plain text.`, joined)
}
