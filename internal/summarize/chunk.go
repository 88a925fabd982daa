package summarize

import "strings"

// SplitChunks splits text into chunks of at most maxLen characters, never
// breaking inside a sentence. A single sentence longer than maxLen becomes
// its own chunk. Concatenating the chunks reproduces the original sentence
// sequence.
func SplitChunks(text string, maxLen int) []string {
	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder
	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+len(sentence) > maxLen {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// splitSentences cuts text after runs of terminal punctuation (. ! ?).
// Trailing text without a terminator counts as a final sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	i := 0
	for i < len(text) {
		if isTerminator(text[i]) {
			for i < len(text) && isTerminator(text[i]) {
				i++
			}
			sentences = append(sentences, text[start:i])
			start = i
			continue
		}
		i++
	}
	if start < len(text) {
		if rest := text[start:]; strings.TrimSpace(rest) != "" {
			sentences = append(sentences, rest)
		}
	}
	return sentences
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}
