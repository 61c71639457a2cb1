package narrative

// Side-channel section labels the merged-story template instructs the model
// to emit. The metadata extractor excises them; keep the two in sync.
const (
	CorrectionsHeading     = "Corrected & Conflicted Replies"
	QuoteHighlightsHeading = "Quotes Highlights"
)

// Spec describes one generation template: the structural sections the output
// must follow plus sampling parameters. Templates are data so tone and
// structure can evolve without touching the generator.
type Spec struct {
	Kind        Kind
	Sections    []string
	System      string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// templateSpecs is the built-in template registry.
var templateSpecs = map[Kind]Spec{
	KindProviderSummary: {
		Kind: KindProviderSummary,
		Sections: []string{
			"Title", "Hero Paragraph", "The Challenge", "The Solution",
			"Implementation & Collaboration", "Results & Impact",
			"Client Quote", "Reflections & Closing",
		},
		Temperature: 0.5,
		TopP:        0.9,
		System: `You are a professional case study writer. Generate a rich, structured,
human-style business case study from the transcript of a real voice
interview with a solution provider describing a project delivered to a
client. Write the entire case study in {{.Language}}, including quotes.

Use ONLY what is in the transcript. Do not invent details, dialogue, or
metrics. If no verbatim client quote exists, craft one brief realistic
quote that captures the sentiment the transcript actually describes.

Structure (mandatory):
- First line is the title only, in the exact format:
  **[Solution Provider] x [Client]: [Project]**
- Hero paragraph (no header): 3-4 sentences introducing client, industry,
  challenge, and provider.
- Section 1 - The Challenge
- Section 2 - The Solution
- Section 3 - Implementation & Collaboration
- Section 4 - Results & Impact (real metrics only)
- Section 5 - Client Quote
- Section 6 - Reflections & Closing

Transcript:
{{.Transcript}}`,
	},
	KindClientSummary: {
		Kind:        KindClientSummary,
		Sections:    []string{"Project Reflection (Client Voice)", "Client Quote"},
		Temperature: 0.5,
		TopP:        0.9,
		System: `You are a professional case study writer. Generate a short, structured
client-voice reflection from the transcript of an interview with the
client who received the solution. Write it in {{.Language}}.

Use only information in the transcript; do not invent details and do not
include the transcript itself in the output.

Structure:
- Section 1 - Project Reflection (Client Voice): a warm, professional
  3-5 sentence paragraph covering what the project was, the experience,
  and the results or value received.
- Section 2 - Client Quote: a short quote, verbatim if given, otherwise
  crafted from the client's actual words and tone.

Transcript:
{{.Transcript}}`,
	},
	KindMergedStory: {
		Kind: KindMergedStory,
		Sections: []string{
			"Title Block", "Hero Statement", "Introduction", "Background",
			"Challenges", "The Solution", "Implementation & Collaboration",
			"Results & Impact", "Customer Reflection", "Provider Reflection",
			CorrectionsHeading, QuoteHighlightsHeading, "Call to Action",
		},
		Temperature: 0.5,
		TopP:        0.9,
		System: `You are a top-tier business case study writer. Write the entire case
study in {{.Language}}.
{{if .Client}}
Merge the Solution Provider and Client summaries below into one rich,
multi-perspective case study. The provider version is the base; wherever
the client corrects, contradicts, or updates a fact or number, ALWAYS use
the client's version in the main story. List every such correction in a
section titled "` + CorrectionsHeading + `" as short bullets, e.g.
"Client stated project delivered in 7 weeks, not 6." Accuracy is
critical: every detail must match the input summaries exactly; never
guess.
{{else}}
Expand the Solution Provider summary below into a polished case study.
No client summary exists: compose exactly ONE plausible client-voice
quote consistent with the outcomes the provider describes, clearly
representative rather than sourced. Keep provider-attributed quotes
exactly as given.
{{end}}
Quote structure:
- Exactly ONE client quote in the Customer Reflection section and exactly
  ONE provider quote in the Provider Reflection section.
- After the main story, add a section titled "` + QuoteHighlightsHeading + `"
  with 2-3 additional quotes NOT used in the main story, each formatted
  as: - **Client:** "..." or - **Provider:** "..."

Structure: punchy title, one-sentence hero statement, introduction,
background, challenges (bullets), the solution, implementation and
collaboration, results and impact with specific metrics, customer
reflection, provider reflection{{if .Client}}, ` + CorrectionsHeading + `{{end}},
` + QuoteHighlightsHeading + `, call to action. Section headers in ALL CAPS or
plain text; do not use markdown asterisks in the output.

Provider Summary:
{{.Provider}}
{{if .Client}}
Client Summary:
{{.Client}}
{{end}}`,
	},
	KindLinkedInPost: {
		Kind:        KindLinkedInPost,
		Sections:    []string{"Hook", "Challenge", "Approach", "Outcomes", "Reflection", "Hashtags"},
		Temperature: 0.7,
		MaxTokens:   500,
		System: `You are writing an engaging LinkedIn post as the solution provider who
delivered the project in the case study below. Open with a strong hook,
frame the client's challenge in relatable language, describe the
approach, share specific measurable outcomes, include one short client
quote if available, and close with an open-ended question. Confident but
relatable tone, no jargon or sales cliches. Add 3-5 targeted hashtags.
Total length 1000-1300 characters including hashtags.

Case Study:
{{.Story}}`,
	},
	KindVideoScript: {
		Kind:        KindVideoScript,
		Sections:    []string{"Opening Hook", "Main Story", "Closing Impact"},
		Temperature: 0.7,
		MaxTokens:   500,
		System: `Transform this case study into a conversational script for an AI avatar
video. Hard limit: 1300 characters. Structure: opening hook (1-2
sentences with the most impressive result), main story (3-4 sentences:
challenge, solution, specific metrics), closing impact (1-2 sentences).
Natural speaking rhythm, active voice, no jargon. Respond with a single
flowing paragraph.

Case Study:
{{.Story}}`,
	},
	KindSceneScript: {
		Kind: KindSceneScript,
		Sections: []string{
			"Hook", "Challenge", "Who We Are", "What", "How",
			"Outcome", "Metric", "Impact",
		},
		Temperature: 0.6,
		MaxTokens:   400,
		System: `Turn this case study into a short-form video script of EXACTLY eight
scene sentences, one per line, no numbering and no blank lines, in this
narrative arc: 1 hook, 2 the client's challenge, 3 who the provider is,
4 what was delivered, 5 how it worked, 6 the outcome, 7 the strongest
metric, 8 the lasting impact. Each sentence short enough to read on
screen in a few seconds.

Case Study:
{{.Story}}`,
	},
	KindPodcastBrief: {
		Kind:        KindPodcastBrief,
		Sections:    []string{"Episode Brief"},
		Temperature: 0.6,
		MaxTokens:   400,
		System: `Write a natural-language podcast episode brief (not a transcript) for a
short episode discussing this case study: what the project was, why it
mattered, how the collaboration went, and the results. At most 250
words, plain prose, no headings.

Case Study:
{{.Story}}`,
	},
	KindClientTakeaways: {
		Kind:        KindClientTakeaways,
		Sections:    []string{"Key Takeaways"},
		Temperature: 0.3,
		MaxTokens:   500,
		System: `Analyze the client interview summary below and extract the 3-5 most
important key takeaways: main pain points, most valued aspects of the
solution, benefits experienced, overall satisfaction, and any specific
metrics mentioned. Respond as a bullet-point list and nothing else.

Client Summary:
{{.Client}}`,
	},
}

// TemplateSpec returns the registered template for a kind.
func TemplateSpec(kind Kind) (Spec, bool) {
	spec, ok := templateSpecs[kind]
	return spec, ok
}
