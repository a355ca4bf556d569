package analysis

import "github.com/abhisek/atelier/internal/llm"

var worldviewDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"catchphrase": map[string]any{
			"type":        "string",
			"description": "A short evocative phrase naming the worldview",
		},
		"features": map[string]any{
			"type":        "string",
			"description": "2-3 sentences on the visual and emotional traits",
		},
	},
	"required":             []any{"catchphrase", "features"},
	"additionalProperties": false,
}

func scoreDef(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

// Schema is the response schema of the worldview analysis.
var Schema = &llm.Schema{
	Name:        "worldview-analysis",
	Description: "Worldview analysis comparing a creator's current and ideal work",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"five_keywords": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exactly five keywords capturing the creator's essence",
			},
			"analysis_scores": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"originality": scoreDef("Originality of the current work, 0-100"),
					"technique":   scoreDef("Technical skill, 0-100"),
					"passion":     scoreDef("Emotional intensity, 0-100"),
					"market":      scoreDef("Market appeal, 0-100"),
					"potential":   scoreDef("Room to grow toward the ideal, 0-100"),
				},
				"required":             []any{"originality", "technique", "passion", "market", "potential"},
				"additionalProperties": false,
			},
			"current_worldview": worldviewDef,
			"ideal_worldview":   worldviewDef,
			"roadmap_advice": map[string]any{
				"type":        "string",
				"description": "Three bullet points separated by newlines",
			},
			"roadmap_steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Up to five short concrete next steps; may be empty",
			},
		},
		"required": []any{
			"five_keywords", "analysis_scores", "current_worldview",
			"ideal_worldview", "roadmap_advice", "roadmap_steps",
		},
		"additionalProperties": false,
	},
}
