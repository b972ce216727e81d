package groq

import "fmt"

// knowledgePromptTemplate asks which knowledge items an insight draws from.
const knowledgePromptTemplate = `You analyze knowledge documents. Given a DOK3 Insight, identify which DOK2 items have a DIRECT relationship.

DOK3 INSIGHT:
%s

DOK2 KNOWLEDGE ITEMS:
%s

Instructions:
- Pick AT MOST 1 DOK2 item that DIRECTLY relates to this insight
- A relationship can be:
  - SUPPORTS: The DOK2 provides evidence/foundation for the insight
  - CONTRADICTS: The DOK2 challenges or conflicts with the insight
- Only pick if there's a SPECIFIC, DIRECT connection (not thematic similarity)
- If nothing strongly connects, return empty

Respond ONLY with JSON:
{"connections": [{"id": 1, "type": "supports"}]} or {"connections": [{"id": 2, "type": "contradicts"}]} or {"connections": []} /no_think`

// insightPromptTemplate asks which insights a SPOV builds on.
const insightPromptTemplate = `You analyze knowledge documents. Given a DOK4 Spiky POV, identify which DOK3 Insights have a DIRECT relationship.

DOK4 SPIKY POV:
%s

DOK3 INSIGHTS:
%s

Instructions:
- Pick AT MOST 1 DOK3 insight that DIRECTLY relates to this SPOV
- A relationship can be:
  - SUPPORTS: The insight provides foundation for this SPOV
  - CONTRADICTS: The insight challenges or conflicts with this SPOV
- Only pick if there's a SPECIFIC, DIRECT connection (not thematic similarity)
- If nothing strongly connects, return empty

Respond ONLY with JSON:
{"connections": [{"id": 1, "type": "supports"}]} or {"connections": [{"id": 2, "type": "contradicts"}]} or {"connections": []} /no_think`

func knowledgePrompt(insight, candidates string) string {
	return fmt.Sprintf(knowledgePromptTemplate, insight, candidates)
}

func insightPrompt(spov, candidates string) string {
	return fmt.Sprintf(insightPromptTemplate, spov, candidates)
}
