package textproc

import (
	"go-ocr-pipeline/pkg/models"
)

// suggestionTable maps every content type to its static study-suggestion
// entry. No model inference happens here; the table is total so Suggest is
// defined for all six labels.
var suggestionTable = map[models.ContentType]models.Suggestions{
	models.ContentMathematical: {
		Summary:     "Mathematical content detected. Consider breaking down into steps.",
		Explanation: "Focus on understanding the mathematical concepts and formulas.",
		QuizQuestions: []string{
			"Can you solve this equation step by step?",
			"What mathematical principles are being applied here?",
		},
	},
	models.ContentScientific: {
		Summary:     "Scientific content detected. Focus on key concepts and definitions.",
		Explanation: "Understand the scientific principles and their applications.",
		QuizQuestions: []string{
			"What are the main scientific concepts mentioned?",
			"How would you explain this to someone else?",
		},
	},
	models.ContentHandwritten: {
		Summary:     "Handwritten notes detected. Organize key points into structured format.",
		Explanation: "Review and expand on your notes for better understanding.",
		QuizQuestions: []string{
			"What are the main points from these notes?",
			"How can you organize this information better?",
		},
	},
	models.ContentTextbook: {
		Summary:     "Textbook content detected. Identify headings, definitions and examples.",
		Explanation: "Work through the material section by section and restate each part in your own words.",
		QuizQuestions: []string{
			"What are the key definitions introduced in this passage?",
			"Which examples illustrate the main concept?",
		},
	},
	models.ContentGeneral: {
		Summary:     "General content detected. Extract key information and main ideas.",
		Explanation: "Break down complex concepts into simpler terms.",
		QuizQuestions: []string{
			"What are the main ideas presented?",
			"How would you summarize this content?",
		},
	},
	models.ContentUnknown: {
		Summary:     "Content could not be classified. Review the source image quality.",
		Explanation: "Retake or rescan the image for clearer text before studying from it.",
		QuizQuestions: []string{
			"What was the original material about?",
			"Can a clearer capture of this page be produced?",
		},
	},
}

// Suggest returns the static study-suggestion entry for a content type.
// Unrecognized labels fall back to the unknown entry, so the result is
// always non-empty.
func Suggest(contentType models.ContentType) *models.Suggestions {
	entry, ok := suggestionTable[contentType]
	if !ok {
		entry = suggestionTable[models.ContentUnknown]
	}
	out := entry
	out.QuizQuestions = append([]string(nil), entry.QuizQuestions...)
	return &out
}
