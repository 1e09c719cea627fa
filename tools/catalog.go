package tools

import (
	"fmt"
)

// Catalog order. It is the order tools are listed in.
var catalog = []struct {
	tier  Tier
	build func(model string) Tool
}{
	{TierText, newPalette},
	{TierText, newWriter},
	{TierVision, newVision},
	{TierText, newIdeas},
	{TierCoding, newCode},
	{TierText, newTravel},
	{TierText, newRecipe},
	{TierText, newTrivia},
	{TierText, newDream},
	{TierText, newCareer},
	{TierText, newGift},
	{TierText, newWorkout},
	{TierText, newSong},
	{TierText, newLanguage},
	{TierText, newMovie},
	{TierText, newCharacter},
	{TierText, newFlashcards},
	{TierText, newTech},
	{TierText, newNames},
	{TierText, newStory},
	{TierText, newBio},
}

const (
	writerFallback = "Could not generate content."
	visionFallback = "Could not analyze image."
	codeFallback   = "// Could not generate code."
)

func newPalette(model string) Tool {
	return &structuredTool[PaletteResponse]{
		spec: Spec{
			Name: "palette", Title: "Color Palette", Tier: TierText, Model: model, Output: "json",
			Description: "Generate a five-color UI palette from a mood or theme.",
			Fields: []Field{
				{Name: "mood", Label: "Mood or theme", Kind: KindText, Placeholder: "e.g. Cyberpunk sunset, Calm forest", Required: true},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Generate a color palette based on this mood or theme: "%s". Provide a creative name for the theme, and 5 distinct colors with their hex codes, names, and a suggested usage for each in a UI context.`, v.Get("mood"))
		},
		finish: finishPalette,
	}
}

func newWriter(model string) Tool {
	return &textTool{
		spec: Spec{
			Name: "writer", Title: "Smart Writer", Tier: TierText, Model: model, Output: "text",
			Description: "Rewrite text in a chosen tone.",
			Fields: []Field{
				{Name: "text", Label: "Text", Kind: KindTextarea, Placeholder: "Paste the text to rewrite", Required: true},
				{Name: "tone", Label: "Tone", Kind: KindSelect, Options: []string{"Professional", "Witty", "Concise", "Poetic"}, Default: "Professional"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf("Rewrite the following text to have a %s tone. Keep the core meaning but improve flow and vocabulary.\n\nText:\n%s", v.Get("tone"), v.Get("text"))
		},
		fallback: writerFallback,
	}
}

func newVision(model string) Tool {
	return &structuredTool[VisionResult]{
		spec: Spec{
			Name: "vision", Title: "Vision Analyzer", Tier: TierVision, Model: model, Output: "json",
			Description: "Describe an image: what happens, the mood and the main objects.",
			Fields: []Field{
				{Name: "image", Label: "Image", Kind: KindImage, Required: true},
			},
		},
		prompt: func(Values) string {
			return "Analyze this image. Describe what is happening, the mood, and the main objects visible. Keep it under 150 words."
		},
		finish: finishVision,
		fallback: func() VisionResult {
			return VisionResult{Description: visionFallback, Tags: []string{}}
		},
	}
}

func newIdeas(model string) Tool {
	return &structuredTool[IdeaResponse]{
		spec: Spec{
			Name: "ideas", Title: "Idea Generator", Tier: TierText, Model: model, Output: "json",
			Description: "Brainstorm five ideas for a topic.",
			Fields: []Field{
				{Name: "topic", Label: "Topic", Kind: KindText, Placeholder: "e.g. Sustainable urban living", Required: true},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Generate 5 creative and unique ideas/concepts for the following topic: "%s". For each idea, provide a catchy title, a clear description, and a potential impact/benefit.`, v.Get("topic"))
		},
		finish: func(r *IdeaResponse, v Values) { backfill(&r.Topic, v.Get("topic")) },
	}
}

func newCode(model string) Tool {
	return &textTool{
		spec: Spec{
			Name: "code", Title: "Code Assistant", Tier: TierCoding, Model: model, Output: "text",
			Description: "Write code for a task in a chosen language.",
			Fields: []Field{
				{Name: "prompt", Label: "Task", Kind: KindTextarea, Placeholder: "Describe what the code should do", Required: true},
				{Name: "language", Label: "Language", Kind: KindSelect, Options: []string{"JavaScript", "TypeScript", "Python", "HTML/CSS", "SQL", "React", "Shell"}, Default: "JavaScript"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf("Write efficient and clean %s code for the following task. Provide only the code within markdown code blocks. Add brief comments within the code where necessary.\n\nTask: %s", v.Get("language"), v.Get("prompt"))
		},
		fallback: codeFallback,
	}
}

func newTravel(model string) Tool {
	return &structuredTool[TripResponse]{
		spec: Spec{
			Name: "travel", Title: "Travel Planner", Tier: TierText, Model: model, Output: "json",
			Description: "Plan a day-by-day itinerary.",
			Fields: []Field{
				{Name: "destination", Label: "Destination", Kind: KindText, Placeholder: "e.g. Kyoto, Japan", Required: true},
				{Name: "days", Label: "Days", Kind: KindNumber, Min: 1, Max: 14, Default: "3"},
				{Name: "budget", Label: "Budget", Kind: KindSelect, Options: []string{"Budget", "Medium", "Luxury"}, Default: "Medium"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf("Plan a %d-day trip to %s with a %s budget. Provide a name for the trip, and a daily itinerary. For each day, give a theme title and a list of specific activities.", v.Int("days"), v.Get("destination"), v.Get("budget"))
		},
		finish: finishTrip,
	}
}

func newRecipe(model string) Tool {
	return &structuredTool[RecipeResponse]{
		spec: Spec{
			Name: "recipe", Title: "Recipe Chef", Tier: TierText, Model: model, Output: "json",
			Description: "Create a recipe from the ingredients at hand.",
			Fields: []Field{
				{Name: "ingredients", Label: "Ingredients", Kind: KindTextarea, Placeholder: "e.g. chicken, rice, spinach", Required: true},
				{Name: "mealType", Label: "Meal type", Kind: KindSelect, Options: []string{"Breakfast", "Lunch", "Dinner", "Snack", "Dessert"}, Default: "Dinner"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf("Create a delicious %s recipe using these ingredients: %s. You can assume basic pantry staples (salt, oil, etc.). Provide a name, description, estimated cooking time, difficulty level, calorie estimate, list of ingredients with quantities, and step-by-step instructions.", v.Get("mealType"), v.Get("ingredients"))
		},
	}
}

func newTrivia(model string) Tool {
	return &structuredTool[TriviaResponse]{
		spec: Spec{
			Name: "trivia", Title: "Trivia Quiz", Tier: TierText, Model: model, Output: "json",
			Description: "Generate a five-question multiple choice quiz.",
			Fields: []Field{
				{Name: "topic", Label: "Topic", Kind: KindText, Placeholder: "e.g. Space exploration", Required: true},
				{Name: "difficulty", Label: "Difficulty", Kind: KindSelect, Options: []string{"Easy", "Medium", "Hard"}, Default: "Medium"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Generate 5 trivia questions about "%s" at a "%s" difficulty level. For each question, provide 4 options (one correct, three wrong), the correct answer string (must match one of the options exactly), and a brief explanation.`, v.Get("topic"), v.Get("difficulty"))
		},
		finish: finishTrivia,
	}
}

func newDream(model string) Tool {
	return &structuredTool[DreamResponse]{
		spec: Spec{
			Name: "dream", Title: "Dream Interpreter", Tier: TierText, Model: model, Output: "json",
			Description: "Interpret a dream, its symbols and mood.",
			Fields: []Field{
				{Name: "dream", Label: "Dream", Kind: KindTextarea, Placeholder: "Describe your dream", Required: true},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Act as a professional dream interpreter (Jungian/Freudian blend). Interpret the following dream: "%s" Provide a thoughtful interpretation, identify key symbols, determine the overall mood, and give one piece of actionable advice or reflection.`, v.Get("dream"))
		},
	}
}

func newCareer(model string) Tool {
	return &structuredTool[CareerResponse]{
		spec: Spec{
			Name: "career", Title: "Career Coach", Tier: TierText, Model: model, Output: "json",
			Description: "Draft a cover letter or resume tips for a job description.",
			Fields: []Field{
				{Name: "jobDescription", Label: "Job description", Kind: KindTextarea, Placeholder: "Paste the job description", Required: true},
				{Name: "background", Label: "Your background", Kind: KindTextarea, Placeholder: "Experience, skills, achievements", Required: true},
				{Name: "mode", Label: "Mode", Kind: KindSelect, Options: []string{"cover_letter", "resume_tips"}, Default: "cover_letter"},
			},
		},
		prompt: func(v Values) string {
			if v.Get("mode") == "resume_tips" {
				return fmt.Sprintf(`Analyze the following job description and candidate background. Provide a list of actionable tips to optimize the resume for this specific role, and highlight missing keywords. Job Description: "%s" Candidate Background: "%s"`, v.Get("jobDescription"), v.Get("background"))
			}
			return fmt.Sprintf(`Write a professional cover letter for the following job description, incorporating the candidate's background. Job Description: "%s" Candidate Background: "%s"`, v.Get("jobDescription"), v.Get("background"))
		},
	}
}

func newGift(model string) Tool {
	return &structuredTool[GiftResponse]{
		spec: Spec{
			Name: "gift", Title: "Gift Finder", Tier: TierText, Model: model, Output: "json",
			Description: "Suggest five gifts for a person and occasion.",
			Fields: []Field{
				{Name: "recipient", Label: "Recipient", Kind: KindText, Placeholder: "e.g. Dad, best friend", Required: true},
				{Name: "occasion", Label: "Occasion", Kind: KindText, Placeholder: "e.g. Birthday"},
				{Name: "budget", Label: "Budget", Kind: KindText, Placeholder: "e.g. $50"},
				{Name: "interests", Label: "Interests", Kind: KindText, Placeholder: "e.g. hiking, coffee, sci-fi", Required: true},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Suggest 5 unique and thoughtful gift ideas for a "%s" for the occasion of "%s". Budget: %s. Interests: %s. For each gift, provide the item name, an estimated price range, a reason why it fits, and a generic type of store to buy it from.`,
				v.Get("recipient"), firstNonEmpty(v.Get("occasion"), "any occasion"), firstNonEmpty(v.Get("budget"), "flexible"), v.Get("interests"))
		},
		finish: func(r *GiftResponse, v Values) { backfill(&r.Recipient, v.Get("recipient")) },
	}
}

func newWorkout(model string) Tool {
	return &structuredTool[WorkoutResponse]{
		spec: Spec{
			Name: "workout", Title: "Workout Builder", Tier: TierText, Model: model, Output: "json",
			Description: "Build a structured workout with warm-up and cool-down.",
			Fields: []Field{
				{Name: "level", Label: "Fitness level", Kind: KindSelect, Options: []string{"Beginner", "Intermediate", "Advanced"}, Default: "Intermediate"},
				{Name: "goal", Label: "Goal", Kind: KindText, Placeholder: "e.g. Build strength", Required: true},
				{Name: "equipment", Label: "Equipment", Kind: KindText, Placeholder: "e.g. Dumbbells, none", Required: true},
				{Name: "duration", Label: "Duration (minutes)", Kind: KindSelect, Options: []string{"15", "30", "45", "60"}, Default: "30"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf("Create a structured %s minute workout for a %s fitness level. Goal: %s. Equipment available: %s. Include a warm-up, a main workout with exercises (sets, reps/time, brief notes), and a cool-down.", v.Get("duration"), v.Get("level"), v.Get("goal"), v.Get("equipment"))
		},
	}
}

func newSong(model string) Tool {
	return &structuredTool[SongResponse]{
		spec: Spec{
			Name: "song", Title: "Songwriter", Tier: TierText, Model: model, Output: "json",
			Description: "Write song lyrics with chords per section.",
			Fields: []Field{
				{Name: "topic", Label: "Topic", Kind: KindText, Placeholder: "e.g. Summer road trip", Required: true},
				{Name: "genre", Label: "Genre", Kind: KindText, Placeholder: "e.g. Indie folk", Required: true},
				{Name: "mood", Label: "Mood", Kind: KindText, Placeholder: "e.g. Nostalgic"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Write a song about "%s" in the style of "%s" with a "%s" mood. Structure the song with standard sections (Verse, Chorus, Bridge, etc). For each section, provide the lyrics AND the chord progression used.`,
				v.Get("topic"), v.Get("genre"), firstNonEmpty(v.Get("mood"), "any"))
		},
		finish: func(r *SongResponse, v Values) { backfill(&r.Style, v.Get("genre")) },
	}
}

func newLanguage(model string) Tool {
	return &structuredTool[LangLessonResponse]{
		spec: Spec{
			Name: "language", Title: "Language Tutor", Tier: TierText, Model: model, Output: "json",
			Description: "Teach five phrases for a real-life scenario.",
			Fields: []Field{
				{Name: "language", Label: "Language", Kind: KindText, Placeholder: "e.g. Spanish", Required: true},
				{Name: "scenario", Label: "Scenario", Kind: KindText, Placeholder: "e.g. Ordering at a restaurant", Required: true},
				{Name: "level", Label: "Level", Kind: KindSelect, Options: []string{"Beginner", "Intermediate", "Advanced"}, Default: "Beginner"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Create a mini language lesson for "%s" at a "%s" level. Scenario: "%s". Provide 5 essential phrases for this scenario. For each, include the original text, a phonetic pronunciation guide, the English translation, and a helpful usage tip.`, v.Get("language"), v.Get("level"), v.Get("scenario"))
		},
		finish: func(r *LangLessonResponse, v Values) {
			backfill(&r.Language, v.Get("language"))
			backfill(&r.Scenario, v.Get("scenario"))
		},
	}
}

func newMovie(model string) Tool {
	return &structuredTool[MovieResponse]{
		spec: Spec{
			Name: "movie", Title: "Movie Night", Tier: TierText, Model: model, Output: "json",
			Description: "Recommend five movies for a taste and mood.",
			Fields: []Field{
				{Name: "genre", Label: "Genre", Kind: KindText, Placeholder: "e.g. Sci-fi", Required: true},
				{Name: "mood", Label: "Mood", Kind: KindText, Placeholder: "e.g. Thoughtful", Required: true},
				{Name: "similarTo", Label: "Similar to", Kind: KindText, Placeholder: "e.g. Arrival, Interstellar"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Recommend 5 movies for someone who likes "%s" movies, is currently in a "%s" mood, and enjoys films like "%s". Provide a collection title, and for each recommendation include the title, release year, director, and a convincing reason why it fits.`,
				v.Get("genre"), v.Get("mood"), firstNonEmpty(v.Get("similarTo"), "any"))
		},
	}
}

func newCharacter(model string) Tool {
	return &structuredTool[CharacterResponse]{
		spec: Spec{
			Name: "character", Title: "Character Creator", Tier: TierText, Model: model, Output: "json",
			Description: "Create a character profile for a story.",
			Fields: []Field{
				{Name: "genre", Label: "Genre", Kind: KindText, Placeholder: "e.g. Dark fantasy", Required: true},
				{Name: "role", Label: "Role", Kind: KindText, Placeholder: "e.g. Reluctant hero", Required: true},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Create a detailed and unique character profile for a "%s" character in a "%s" story. Include their name, a catchy tagline, age, occupation, 3 personality traits, a compelling 1-paragraph backstory, 3 key strengths, and 2 major weaknesses.`, v.Get("role"), v.Get("genre"))
		},
	}
}

func newFlashcards(model string) Tool {
	return &structuredTool[FlashcardSet]{
		spec: Spec{
			Name: "flashcards", Title: "Flashcards", Tier: TierText, Model: model, Output: "json",
			Description: "Make a set of study flashcards for a topic.",
			Fields: []Field{
				{Name: "topic", Label: "Topic", Kind: KindText, Placeholder: "e.g. Photosynthesis", Required: true},
				{Name: "count", Label: "Cards", Kind: KindSelect, Options: []string{"4", "6", "8", "10"}, Default: "6"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Create a set of %d study flashcards for the topic "%s". For each card, provide a "front" (a question or term) and a "back" (the answer or definition). Ensure they are concise and accurate.`, v.Int("count"), v.Get("topic"))
		},
		finish: finishFlashcards,
	}
}

func newTech(model string) Tool {
	return &structuredTool[TechExplanationResponse]{
		spec: Spec{
			Name: "tech", Title: "Tech Explainer", Tier: TierText, Model: model, Output: "json",
			Description: "Explain a technical concept at a chosen level.",
			Fields: []Field{
				{Name: "topic", Label: "Concept", Kind: KindText, Placeholder: "e.g. Blockchain", Required: true},
				{Name: "level", Label: "Audience", Kind: KindSelect, Options: []string{"5-Year-Old", "Beginner", "Advanced"}, Default: "Beginner"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Explain the concept of "%s" to an audience with a "%s" level of understanding. Provide a clear and simple explanation, a relatable real-world analogy to help visualize it, and define 3 key terms related to the topic.`, v.Get("topic"), v.Get("level"))
		},
		finish: func(r *TechExplanationResponse, v Values) { backfill(&r.Topic, v.Get("topic")) },
	}
}

func newNames(model string) Tool {
	return &structuredTool[NameGenResponse]{
		spec: Spec{
			Name: "names", Title: "Name Generator", Tier: TierText, Model: model, Output: "json",
			Description: "Suggest ten names with a rationale for each.",
			Fields: []Field{
				{Name: "category", Label: "Category", Kind: KindSelect, Options: []string{"Brand", "Startup", "Product", "Podcast", "Pet", "Fantasy Character"}, Default: "Brand"},
				{Name: "description", Label: "Description", Kind: KindTextarea, Placeholder: "What is it about?", Required: true},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Generate 10 creative and unique names for a "%s" described as: "%s". For each name, provide a brief rationale explaining why it fits or the meaning behind it.`, v.Get("category"), v.Get("description"))
		},
		finish: func(r *NameGenResponse, v Values) { backfill(&r.Category, v.Get("category")) },
	}
}

func newStory(model string) Tool {
	return &structuredTool[StoryResponse]{
		spec: Spec{
			Name: "story", Title: "Story Plotter", Tier: TierText, Model: model, Output: "json",
			Description: "Outline a story plot with a twist.",
			Fields: []Field{
				{Name: "genre", Label: "Genre", Kind: KindText, Placeholder: "e.g. Mystery", Required: true},
				{Name: "theme", Label: "Theme", Kind: KindText, Placeholder: "e.g. Redemption", Required: true},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Create a compelling story plot outline for a "%s" story with the theme "%s". Include a Title, a one-sentence Logline, a brief Protagonist description, key Plot Points (Inciting Incident, Rising Action, Climax, Falling Action, Resolution), and a Plot Twist.`, v.Get("genre"), v.Get("theme"))
		},
		finish: func(r *StoryResponse, v Values) { backfill(&r.Genre, v.Get("genre")) },
	}
}

func newBio(model string) Tool {
	return &structuredTool[BioResponse]{
		spec: Spec{
			Name: "bio", Title: "Social Bio", Tier: TierText, Model: model, Output: "json",
			Description: "Write five social media bios for a platform.",
			Fields: []Field{
				{Name: "name", Label: "Name", Kind: KindText, Placeholder: "e.g. Alex Rivera", Required: true},
				{Name: "role", Label: "Role", Kind: KindText, Placeholder: "e.g. Product designer", Required: true},
				{Name: "vibe", Label: "Vibe", Kind: KindSelect, Options: []string{"Professional", "Witty", "Minimalist", "Creative", "Emoji-heavy"}, Default: "Professional"},
				{Name: "platform", Label: "Platform", Kind: KindSelect, Options: []string{"LinkedIn", "Twitter / X", "Instagram", "TikTok"}, Default: "LinkedIn"},
			},
		},
		prompt: func(v Values) string {
			return fmt.Sprintf(`Generate 5 varied social media bios for "%s", who is a "%s". The vibe should be "%s". These bios are for "%s". Ensure they fit the typical character limits and style of that platform. Return a list of strings.`, v.Get("name"), v.Get("role"), v.Get("vibe"), v.Get("platform"))
		},
		finish: func(r *BioResponse, v Values) { backfill(&r.Platform, v.Get("platform")) },
	}
}
