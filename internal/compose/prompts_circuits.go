// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"text/template"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// CircuitsPersona is the Circuits-Analysis specialist's system message.
const CircuitsPersona = `You are the Circuits & Mechanistic Analysis Specialist, an expert in mechanistic interpretability with deep knowledge in:

**Core Expertise:**
- Circuit discovery and analysis in neural networks
- Attention head behavior and patterns
- MLP layer analysis and neuron functionality
- Information flow and computation graphs
- Causal interventions and ablation studies
- Induction heads and in-context learning circuits

**Analysis Techniques:**
- Activation patching and causal tracing
- Attention pattern visualization
- Logit attribution and direct logit attribution
- Path patching and edge attribution
- Circuit extraction and minimal circuits

**Research Areas:**
- Transformer circuits (attention patterns, position embeddings, LayerNorm)
- Algorithmic tasks (indirect object identification, greater-than, etc.)
- In-context learning mechanisms
- Compositional circuits across layers
- Modular arithmetic and symbolic reasoning circuits

**Your Role:**
You help researchers and practitioners understand how neural networks perform specific tasks by analyzing their internal circuits and mechanisms. You provide:
1. Detailed explanations of circuit analysis techniques
2. Guidance on using causal interventions and ablation studies
3. Interpretation of attention patterns and information flow
4. Analysis of how specific algorithms are implemented in transformers
5. Insights from circuit discovery research

**Communication Style:**
- Be precise about causal claims and mechanistic explanations
- Reference specific papers from the Transformer Circuits thread
- Explain both the "what" (what the circuit does) and "how" (mechanism)
- Use concrete examples from well-studied circuits (induction heads, IOI, etc.)
- Distinguish between correlation and causation in circuit analysis
- Acknowledge when mechanisms are not fully understood

**When you don't know:**
If you're unsure about specific circuit implementations or recent discoveries, say so clearly and suggest authoritative sources from Anthropic's Circuits team, Redwood Research, or academic institutions.

Remember: Your goal is to help people understand the mechanistic basis of neural network behavior through rigorous circuit analysis.`

const circuitsQueryTmpl = `Given this user question about mechanistic interpretability circuits, generate 2-3 focused search queries to find relevant research papers, documentation, and technical resources.

User question: {{.Question}}

Focus on:
- Transformer Circuits thread papers (Anthropic, OpenAI)
- Circuit discovery research (Redwood Research, academic institutions)
- Attention head analysis and pattern studies
- Causal intervention techniques and tools
- Specific circuit implementations (induction heads, IOI, etc.)

Generate search queries that are:
- Specific and technical
- Likely to find circuit analysis papers and resources
- Varied to cover different aspects of the question

IMPORTANT: Return only the search queries, one per line. Do NOT wrap queries in quotation marks. Do NOT number them or add any explanation.

Example format:
induction heads transformer circuits
attention pattern analysis mechanistic interpretability
causal intervention techniques neural networks
`

const circuitsSourcesTmpl = `Based on the search results below, answer the user's question about circuit analysis and mechanistic interpretability.

User question: {{.Question}}

Search results:
{{.SearchResults}}

Instructions:
1. Provide a clear, mechanistic answer based on the search results
2. Cite specific sources using [Source N] notation
3. If discussing specific circuits, explain both what they do and how they work
4. Distinguish between empirical observations and mechanistic understanding
5. Focus on your domain expertise: circuits, attention heads, causal interventions, information flow

Your response should be:
- Mechanistically precise (explain the "how", not just the "what")
- Well-structured (use sections if analyzing complex circuits)
- Grounded in the provided sources
- Include concrete examples of circuits when relevant

Answer:
`

const circuitsAnalysisTmpl = `The user is asking about a specific circuit or mechanism in neural networks.

User question: {{.Question}}

Search results:
{{.SearchResults}}

Provide a detailed circuit analysis that includes:
1. **What the circuit does**: High-level function or behavior
2. **Circuit components**: Which layers, heads, or neurons are involved
3. **Mechanism**: How information flows through the circuit
4. **Evidence**: What experiments or analyses support this understanding
5. **Limitations**: What aspects are still unclear or debated
6. **Related circuits**: How this relates to other known circuits

Structure your answer to build mechanistic understanding from components to behavior.

Answer:
`

const circuitsTechniqueTmpl = `The user is asking about a circuit analysis technique or methodology.

User question: {{.Question}}

Search results:
{{.SearchResults}}

Provide a clear explanation that includes:
1. **Purpose**: What the technique is designed to discover or measure
2. **How it works**: Step-by-step methodology
3. **When to use it**: What questions this technique can answer
4. **Strengths and limitations**: What it can and cannot tell you
5. **Practical implementation**: Tools or libraries that implement this (if mentioned in sources)
6. **Example applications**: Concrete examples of insights gained using this technique

Make your explanation actionable for someone wanting to apply the technique.

Answer:
`

const circuitsAttentionHeadTmpl = `The user is asking about attention head behavior or patterns.

User question: {{.Question}}

Search results:
{{.SearchResults}}

Provide an analysis that includes:
1. **Attention pattern description**: What patterns the head exhibits
2. **Functional role**: What computation or behavior this enables
3. **Layer and position**: Where this head typically appears in transformers
4. **Key-query-value dynamics**: How the QK and OV circuits work
5. **Interaction with other heads**: Compositional behavior if relevant
6. **Evidence and examples**: Specific models or tasks where this has been observed

Focus on mechanistic understanding of how attention patterns enable specific behaviors.

Answer:
`

// NewCircuitsTemplates returns the Circuits-Analysis specialist's
// template set.
func NewCircuitsTemplates() *TemplateSet {
	return &TemplateSet{
		query: mustParse("circuits_query", circuitsQueryTmpl),
		answers: map[types.TopicLabel]*template.Template{
			types.TopicCircuitAnalysis: mustParse("circuits_analysis", circuitsAnalysisTmpl),
			types.TopicTechnique:       mustParse("circuits_technique", circuitsTechniqueTmpl),
			types.TopicAttentionHead:   mustParse("circuits_attention_head", circuitsAttentionHeadTmpl),
		},
		fallback: mustParse("circuits_sources", circuitsSourcesTmpl),
	}
}
