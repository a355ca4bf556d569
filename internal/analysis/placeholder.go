package analysis

import "github.com/abhisek/atelier/internal/quiz"

type placeholderCopy struct {
	keywords []string
	current  Worldview
	ideal    Worldview
}

var placeholders = map[quiz.Type]placeholderCopy{
	quiz.TypeIntuitive: {
		keywords: []string{"Impulse", "Color", "Night", "Fever", "Myth"},
		current:  Worldview{"A storm caught mid-breath", "Raw gestures and saturated color carry the feeling before the subject does. The work trusts instinct over plan."},
		ideal:    Worldview{"A storm with a quiet eye", "The same intensity, now framed by deliberate space so the viewer can step inside."},
	},
	quiz.TypeBalancedIntuitive: {
		keywords: []string{"Dream", "Warmth", "Rhythm", "Memory", "Light"},
		current:  Worldview{"Diary pages in color", "Personal moments rendered with a gentle, rhythmic hand. Intuition leads while structure keeps pace."},
		ideal:    Worldview{"A shared dream", "Private memories opened into scenes strangers recognize as their own."},
	},
	quiz.TypeBalancedLogical: {
		keywords: []string{"Balance", "Pattern", "Calm", "Craft", "Space"},
		current:  Worldview{"A well-tuned instrument", "Careful composition and controlled palettes. The craft is visible and reliable."},
		ideal:    Worldview{"An instrument that sings", "Keep the control, and let one unplanned element break the pattern in every piece."},
	},
	quiz.TypeLogical: {
		keywords: []string{"Structure", "Clarity", "System", "Precision", "Grid"},
		current:  Worldview{"Architecture of quiet", "Clear systems and precise execution. Every element has a reason to be there."},
		ideal:    Worldview{"Architecture that breathes", "The system stays, and the space inside it fills with a personal story."},
	},
}

// Placeholder returns the deterministic sample analysis used when the
// provider is unavailable. Scores are derived from the quiz result.
func Placeholder(result quiz.Result) *Analysis {
	c, ok := placeholders[result.Type]
	if !ok {
		c = placeholders[quiz.TypeBalancedLogical]
	}

	p := result.Percent
	a := &Analysis{
		Keywords: append([]string(nil), c.keywords...),
		Scores: Scores{
			Originality: 50 + p/3,
			Technique:   80 - p/3,
			Passion:     p,
			Market:      60,
			Potential:   75,
		},
		Current: c.current,
		Ideal:   c.ideal,
		RoadmapAdvice: "・[Point 1]: Study what already makes your work yours, and name it.\n" +
			"・[Point 2]: Borrow one quality from your ideal images and practice it in small studies.\n" +
			"・[Point 3]: Finish pieces at the pace your type enjoys, and review them as a series.",
		RoadmapSteps: []string{
			"Pick three pieces that feel most like you",
			"Make five small studies toward the ideal",
			"Show one new piece to someone you trust",
		},
	}
	Normalize(a)
	return a
}
