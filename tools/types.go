package tools

// Reply shapes requested from the model. Field order is the order the model
// is asked to emit fields in.

// ColorItem is one swatch of a palette.
type ColorItem struct {
	Hex   string `json:"hex" jsonschema_description:"Hex code e.g. #FF0000"`
	Name  string `json:"name"`
	Usage string `json:"usage" jsonschema_description:"e.g. Primary button, Background, Accent"`
}

// PaletteResponse is the palette tool reply.
type PaletteResponse struct {
	ThemeName string      `json:"themeName"`
	Colors    []ColorItem `json:"colors"`
}

// VisionResult is the analysis of an uploaded image.
type VisionResult struct {
	Description string   `json:"description" jsonschema_description:"What is happening, the mood, and the main objects visible. Under 150 words."`
	Tags        []string `json:"tags" jsonschema_description:"Short labels for the main objects and themes"`
}

// IdeaItem is one brainstormed idea.
type IdeaItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// IdeaResponse is the ideas tool reply.
type IdeaResponse struct {
	Topic string     `json:"topic"`
	Ideas []IdeaItem `json:"ideas"`
}

// DayPlan is one day of a trip itinerary.
type DayPlan struct {
	Day        int      `json:"day"`
	Theme      string   `json:"theme"`
	Activities []string `json:"activities"`
}

// TripResponse is the travel tool reply.
type TripResponse struct {
	Destination string    `json:"destination"`
	TripName    string    `json:"tripName"`
	Days        []DayPlan `json:"days"`
}

// RecipeResponse is the recipe tool reply.
type RecipeResponse struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CookingTime  string   `json:"cookingTime"`
	Difficulty   string   `json:"difficulty"`
	Calories     string   `json:"calories"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// TriviaQuestion is one multiple-choice question. CorrectAnswer is one of Options.
type TriviaQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// TriviaResponse is the trivia tool reply.
type TriviaResponse struct {
	Topic     string           `json:"topic"`
	Questions []TriviaQuestion `json:"questions"`
}

// DreamResponse is the dream tool reply.
type DreamResponse struct {
	Interpretation   string   `json:"interpretation"`
	Symbols          []string `json:"symbols"`
	Mood             string   `json:"mood"`
	ActionableAdvice string   `json:"actionableAdvice"`
}

// CareerResponse is a cover letter or a list of resume tips.
type CareerResponse struct {
	Title    string   `json:"title" jsonschema_description:"Title of the document or analysis"`
	Content  string   `json:"content" jsonschema_description:"The full body of the cover letter or list of tips (can be markdown)"`
	Keywords []string `json:"keywords" jsonschema_description:"Important ATS keywords to include"`
}

// GiftIdea is one gift suggestion.
type GiftIdea struct {
	Item           string `json:"item"`
	EstimatedPrice string `json:"estimatedPrice"`
	Reason         string `json:"reason"`
	WhereToBuy     string `json:"whereToBuy"`
}

// GiftResponse is the gift tool reply.
type GiftResponse struct {
	Recipient   string     `json:"recipient"`
	Suggestions []GiftIdea `json:"suggestions"`
}

// Exercise is one entry of a workout.
type Exercise struct {
	Name  string `json:"name"`
	Sets  string `json:"sets"`
	Reps  string `json:"reps"`
	Notes string `json:"notes"`
}

// WorkoutResponse is the workout tool reply.
type WorkoutResponse struct {
	RoutineName string     `json:"routineName"`
	Warmup      []string   `json:"warmup"`
	Exercises   []Exercise `json:"exercises"`
	Cooldown    []string   `json:"cooldown"`
}

// SongSection is a verse, chorus or bridge with its chords.
type SongSection struct {
	Type   string `json:"type" jsonschema_description:"e.g. Verse 1, Chorus"`
	Chords string `json:"chords" jsonschema_description:"e.g. Am - F - C - G"`
	Lyrics string `json:"lyrics" jsonschema_description:"The lyrics for this section"`
}

// SongResponse is the song tool reply.
type SongResponse struct {
	Title    string        `json:"title"`
	Style    string        `json:"style"`
	Sections []SongSection `json:"sections"`
}

// Phrase is one phrase of a language lesson.
type Phrase struct {
	Original    string `json:"original"`
	Phonetic    string `json:"phonetic"`
	Translation string `json:"translation"`
	Tip         string `json:"tip"`
}

// LangLessonResponse is the language tool reply.
type LangLessonResponse struct {
	Language string   `json:"language"`
	Scenario string   `json:"scenario"`
	Phrases  []Phrase `json:"phrases"`
}

// MovieRec is one recommended film.
type MovieRec struct {
	Title    string `json:"title"`
	Year     string `json:"year"`
	Director string `json:"director"`
	Reason   string `json:"reason"`
}

// MovieResponse is the movie tool reply.
type MovieResponse struct {
	CollectionTitle string     `json:"collectionTitle"`
	Recommendations []MovieRec `json:"recommendations"`
}

// CharacterResponse is a generated character profile.
type CharacterResponse struct {
	Name       string   `json:"name"`
	Tagline    string   `json:"tagline"`
	Age        string   `json:"age"`
	Occupation string   `json:"occupation"`
	Traits     []string `json:"traits"`
	Backstory  string   `json:"backstory"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Flashcard is one card of a study set.
type Flashcard struct {
	ID    int    `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardSet is the flashcards tool reply.
type FlashcardSet struct {
	Topic string      `json:"topic"`
	Cards []Flashcard `json:"cards"`
}

// TechTerm is a glossary entry of a tech explanation.
type TechTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// TechExplanationResponse is the tech tool reply.
type TechExplanationResponse struct {
	Topic       string     `json:"topic"`
	Explanation string     `json:"explanation"`
	Analogy     string     `json:"analogy"`
	KeyTerms    []TechTerm `json:"keyTerms"`
}

// NameSuggestion is one proposed name.
type NameSuggestion struct {
	Name      string `json:"name"`
	Rationale string `json:"rationale"`
}

// NameGenResponse is the names tool reply.
type NameGenResponse struct {
	Category    string           `json:"category"`
	Suggestions []NameSuggestion `json:"suggestions"`
}

// PlotPoints is the five-act outline of a story.
type PlotPoints struct {
	IncitingIncident string `json:"incitingIncident"`
	RisingAction     string `json:"risingAction"`
	Climax           string `json:"climax"`
	FallingAction    string `json:"fallingAction"`
	Resolution       string `json:"resolution"`
}

// StoryResponse is the story tool reply.
type StoryResponse struct {
	Title       string     `json:"title"`
	Logline     string     `json:"logline"`
	Genre       string     `json:"genre"`
	Protagonist string     `json:"protagonist"`
	PlotPoints  PlotPoints `json:"plotPoints"`
	Twist       string     `json:"twist"`
}

// BioResponse holds alternative bios for one platform.
type BioResponse struct {
	Platform string   `json:"platform"`
	Options  []string `json:"options"`
}
