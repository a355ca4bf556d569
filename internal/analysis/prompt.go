package analysis

import (
	"fmt"
	"strings"

	"github.com/abhisek/atelier/internal/quiz"
)

const systemPrompt = `You are a seasoned art director and career strategist for independent artists.

Rules:
- Read the images closely: composition, palette, line, texture, subject and mood.
- Judge the current work on its own terms, then describe the ideal it reaches toward.
- Keep the tone warm and specific. Avoid generic praise.
- Never name tools, software, brushes or hardware. Advise from an artistic viewpoint only: composition, color, philosophy, mindset.
- Respond with JSON only.`

// BuildPrompt builds the user message for one analysis. The request
// attaches pastCount current-work images followed by futureCount ideal images.
func BuildPrompt(result quiz.Result, pastCount, futureCount int) string {
	var b strings.Builder

	b.WriteString("Sources:\n")
	fmt.Fprintf(&b, "1. Personality type: %s\n", result.Label)
	fmt.Fprintf(&b, "   (%d of %d answers were intuitive, passion-driven choices)\n", result.TypeACount, result.Total)
	fmt.Fprintf(&b, "2. %s the creator's current work.\n", imageRange(1, pastCount))
	fmt.Fprintf(&b, "3. %s the ideal they want to reach.\n", imageRange(pastCount+1, futureCount))

	b.WriteString("\nProduce:\n")
	b.WriteString("- five_keywords: exactly 5 words that capture the creator's essence.\n")
	b.WriteString("- analysis_scores: originality, technique, passion, market and potential of the current work, each 0-100.\n")
	b.WriteString("- current_worldview and ideal_worldview: a catchphrase and a 2-3 sentence description of features each.\n")
	fmt.Fprintf(&b, "- roadmap_advice: guidance (about 400 characters) grounded in the personality type (%s) on the direction and expression that move the current work toward the ideal.\n", result.Type)
	b.WriteString("  Format it as three bullet points separated by newlines:\n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&b, "  ・[Point %d]: details\n", i)
	}
	fmt.Fprintf(&b, "- roadmap_steps: up to %d short concrete next steps, or an empty list.\n", MaxRoadmapSteps)

	return b.String()
}

func imageRange(first, n int) string {
	if n == 1 {
		return fmt.Sprintf("Image %d shows", first)
	}
	return fmt.Sprintf("Images %d-%d show", first, first+n-1)
}
