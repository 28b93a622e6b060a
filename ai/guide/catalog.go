package guide

// Feature describes one platform feature in the static catalog. Priority is
// the fixed tie-break order: lower value wins.
type Feature struct {
	Name        string
	Description string
	NextSteps   string
	Keywords    []string
	Priority    int
}

// Catalog returns the static feature catalog. Ordering here is the canonical
// priority order used for tie-breaking.
func Catalog() []Feature {
	return []Feature{
		{
			Name:        "Journaling",
			Description: "Write journal entries and receive analysis of emotions, sentiments, and therapeutic insights.",
			NextSteps:   "Try writing about how you're feeling today in the journal section.",
			Keywords:    []string{"journal", "write", "writing", "diary", "entry", "analyze", "feelings", "insight"},
			Priority:    1,
		},
		{
			Name:        "Exercises",
			Description: "Customized mental well-being exercises including morning reflections and CBT exercises.",
			NextSteps:   "Open the exercises section to generate a practice tailored to your recent journal.",
			Keywords:    []string{"exercise", "practice", "cbt", "reflection", "routine", "morning", "activity"},
			Priority:    2,
		},
		{
			Name:        "Therapy Chat",
			Description: "A conversation with an AI therapist that uses CBT, mindfulness, and self-reflection techniques.",
			NextSteps:   "Start a therapy chat session and share what's on your mind.",
			Keywords:    []string{"therapy", "talk", "chat", "conversation", "therapist", "listen", "support", "stressed", "anxious"},
			Priority:    3,
		},
		{
			Name:        "Gratitude Practice",
			Description: "Guided gratitude prompts that help you recognize positive aspects in daily life.",
			NextSteps:   "Generate a gratitude exercise to close out your day.",
			Keywords:    []string{"gratitude", "grateful", "thankful", "appreciate", "positive"},
			Priority:    4,
		},
		{
			Name:        "Community Support",
			Description: "Connect with others on similar mental health journeys.",
			NextSteps:   "Browse the community section for groups that match your interests.",
			Keywords:    []string{"community", "others", "group", "connect", "share", "people"},
			Priority:    5,
		},
		{
			Name:        "Resource Library",
			Description: "Articles and videos about mental well-being.",
			NextSteps:   "Search the library for topics you want to learn more about.",
			Keywords:    []string{"article", "video", "learn", "read", "resource", "library", "information"},
			Priority:    6,
		},
	}
}
