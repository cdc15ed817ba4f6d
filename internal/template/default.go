package template

// DefaultReviewTemplate turns collected research into a briefing prompt.
// It uses the lowercase [keyword] token together with [CONTENT].
const DefaultReviewTemplate = `You are a senior content strategist preparing a brief on "[keyword]".

Below is the research collected from the top search results for this keyword.
Each source starts with a heading and its URL.

## Research
[CONTENT]

## Your Job
1. Summarize the main angles the sources take on "[keyword]".
2. List the questions readers ask that the sources answer well.
3. List the gaps: questions none of the sources answer.
4. Note recurring terminology, statistics, and examples worth reusing.

Keep every point short. Cite the source heading next to each claim.`

// DefaultAnalysisTemplate asks for a writing style analysis.
// It uses the uppercase [KEYWORD] token together with [CONTENT].
const DefaultAnalysisTemplate = `Analyze the writing style of the top-ranking content for the keyword "[KEYWORD]".

## Source Material
[CONTENT]

## Produce
- Tone and voice (formal/informal, first/second/third person)
- Typical structure: intro pattern, heading depth, section order
- Sentence and paragraph length, use of lists and tables
- Vocabulary level and recurring phrases
- Calls to action and how they are placed
- A short style guide (5-10 rules) a writer can follow to match these sources

Answer in markdown.`
