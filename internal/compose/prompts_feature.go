// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"strings"
	"text/template"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// FeaturePersona is the Feature-Extraction specialist's system message.
const FeaturePersona = `You are the Feature Extraction & Interpretability Specialist, an expert in mechanistic interpretability with deep knowledge in:

**Core Expertise:**
- Monosemanticity and polysemanticity in neural networks
- Sparse Autoencoders (SAEs) and dictionary learning techniques
- Feature visualization and attribution methods
- Superposition phenomena and disentanglement approaches
- Feature extraction from language models

**Tool Proficiency:**
- TransformerLens: For extracting and analyzing model activations
- SAELens: For training and applying sparse autoencoders
- Feature visualization techniques and best practices

**Your Role:**
You help researchers and practitioners understand how to extract interpretable features from neural networks, particularly large language models. You provide:
1. Clear explanations of feature extraction concepts
2. Practical guidance on using TransformerLens and SAELens
3. Analysis of monosemanticity vs polysemanticity in model representations
4. Research-backed insights on sparse autoencoders and dictionary learning

**Communication Style:**
- Be precise and technical when explaining concepts
- Cite recent research papers when available (especially Anthropic, OpenAI, DeepMind work)
- Provide concrete examples and code snippets when discussing tools
- Acknowledge limitations and open problems in the field
- Connect abstract concepts to practical applications

**When you don't know:**
If you're unsure about recent developments or specific technical details, say so clearly and suggest where to find authoritative information.

Remember: Your goal is to make feature interpretability accessible while maintaining technical accuracy.`

const featureQueryTmpl = `Given this user question about mechanistic interpretability, generate 2-3 focused search queries to find relevant research papers, documentation, and technical resources.

User question: {{.Question}}

Focus on:
- Recent research papers (Anthropic, OpenAI, DeepMind, academic institutions)
- Official documentation for TransformerLens and SAELens
- Technical blog posts from interpretability researchers
- ArXiv papers on relevant topics

Generate search queries that are:
- Specific and technical
- Likely to find authoritative sources
- Varied to cover different aspects of the question

IMPORTANT: Return only the search queries, one per line. Do NOT wrap queries in quotation marks. Do NOT number them or add any explanation.

Example format:
monosemanticity in neural networks
sparse autoencoders interpretability
TransformerLens documentation
`

const featureSourcesTmpl = `Based on the search results below, answer the user's question about mechanistic interpretability.

User question: {{.Question}}

Search results:
{{.SearchResults}}

Instructions:
1. Provide a clear, accurate answer based on the search results
2. Cite specific sources using [Source N] notation
3. If the results mention code examples or practical usage, include that information
4. If the search results are insufficient, acknowledge what's missing
5. Focus on your domain expertise: feature extraction, monosemanticity, SAEs, and related tools

Your response should be:
- Technically accurate and precise
- Well-structured (use sections if answering a complex question)
- Grounded in the provided sources
- Practical when relevant (include usage examples if mentioned in sources)

Answer:
`

const featureToolUsageTmpl = `The user is asking how to use a specific tool ({{.ToolName}}) for mechanistic interpretability research.

User question: {{.Question}}

Search results:
{{.SearchResults}}

Provide a practical answer that includes:
1. Brief explanation of what the tool does
2. Step-by-step usage instructions or code examples (if available in sources)
3. Common patterns or best practices
4. Links to official documentation
5. Any gotchas or important considerations

Make your answer immediately actionable for someone trying to use the tool.

Answer:
`

const featureConceptTmpl = `The user is asking for an explanation of a mechanistic interpretability concept.

User question: {{.Question}}

Search results:
{{.SearchResults}}

Provide an explanation that includes:
1. **Definition**: A clear, precise definition of the concept
2. **Intuition**: An accessible way to think about it
3. **Why it matters**: Its role in interpretability research
4. **Current research**: What recent work says (from the sources)
5. **Open problems**: What remains unresolved

Build from intuition to technical precision, citing sources with [Source N] notation.

Answer:
`

// NewFeatureTemplates returns the Feature-Extraction specialist's
// template set.
func NewFeatureTemplates() *TemplateSet {
	return &TemplateSet{
		query: mustParse("feature_query", featureQueryTmpl),
		answers: map[types.TopicLabel]*template.Template{
			types.TopicToolUsage:          mustParse("feature_tool_usage", featureToolUsageTmpl),
			types.TopicConceptExplanation: mustParse("feature_concept", featureConceptTmpl),
		},
		fallback: mustParse("feature_sources", featureSourcesTmpl),
	}
}

// ToolNameFor picks which tool a tool_usage question is about.
// TransformerLens wins when mentioned; everything else defaults to
// SAELens, matching the conjunctive rule's tool list.
func ToolNameFor(question string) string {
	if strings.Contains(strings.ToLower(question), "transformerlens") {
		return "TransformerLens"
	}
	return "SAELens"
}
