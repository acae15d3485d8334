package discovery

import "fmt"

// ServerInstructions is sent to MCP clients on initialize.
const ServerInstructions = `This server provides access to OpenBB Workspace documentation.
Use 'identify_openbb_docs_sections' to get the table of contents and pick the
relevant sections, then use 'fetch_openbb_content' with those exact titles to
retrieve their content. 'list_openbb_sections' and 'search_openbb_sections'
narrow the table of contents by substring or keyword.`

const citationFormat = `CITATION FORMAT (for OpenBB Copilot compatibility):
If any section is relevant, include every documentation URL in the following format:

    answer="Your answer text here",
    citations=[
        Citation(
            source_info=SourceInfo(type="web", name=url),
            details=[{"Website": url}]
        )
    ]

Key citation structure:
- Return a result object with answer (str) and citations (list[Citation])
- Each Citation needs source_info and details
- For URLs: source_info=SourceInfo(type="web", name=url) and details=[{"Website": url}]`

// SelectionInstruction accompanies the table of contents returned by
// IdentifySections.
const SelectionInstruction = `This is the COMPLETE table of contents of the OpenBB documentation.
Analyze it to identify the sections most relevant to the user's query and
return a list of up to 3 section titles.

SELECTION GUIDELINES:
1. **Carefully read** both the title AND description of each section. Titles give primary signals.
   Descriptions clarify scope (setup vs. concept vs. workflow vs. integration).
2. **Understand intent**: Match the semantic meaning of the user's query, not just keywords
3. **Evaluate relevance**: Consider which sections would most likely contain the information needed
4. **Prioritize quality**: Only select sections that are truly relevant to the query
5. **Rank by relevance**: Return up to 3 sections, ordered from most to least relevant
6. **Be selective**: If no sections are genuinely relevant, return an empty list. Do NOT force matches

SELECTION CRITERIA:
- Does the section title/description directly address the user's question?
- Would this section likely contain detailed information about the query topic?
- Is this section more relevant than other available options?
- Consider both exact matches AND semantically related topics

OUTPUT REQUIREMENTS:
- Return a list of up to 3 section titles
- Maximum 3 sections (can be 0, 1, 2, or 3)
- Must be ranked by relevance (most relevant first)
- Return empty if truly no relevant sections exist

` + citationFormat

const responseGuidelines = `The relevant documentation sections have been extracted in 'extracted_content'.

RESPONSE GUIDELINES:
1. **Stay grounded**: Use only facts present in extracted_content. No speculation or unstated assumptions.
2. **Synthesize across sections**: If the answer spans multiple sections, merge them coherently. Prefer the most specific, actionable details.
3. **Cite precisely**:
   - After each factual claim or step, cite the section with the shortest sufficient reference in square brackets, e.g., [Copilot Basics], [Data Handling]
   - When a claim depends on multiple sections, include up to two citations, e.g., [MCP Tools; Orchestrator Mode]
   - Keep citations lightweight: do not include URLs unless explicitly present and relevant
4. **Be exact**: Preserve terminology, parameter names, and constraints exactly as shown. If docs present syntax, show it verbatim in a code block.
5. **Respect scope**: If extracted_content does not contain the needed information, state this plainly and direct the user to support@openbb.co
6. **Multilingual**: Respond in the same language as the user query where possible
7. **No chain-of-thought**: Provide conclusions and steps, not internal reasoning

OUTPUT STYLE:
- Direct and actionable. Use clear steps for how-to, compact explanation for concepts
- Use code blocks for commands/code snippets (specify language when obvious)
- Use short bullet lists for options/parameters
- Use tables only when they improve clarity
- Citations at the end of relevant sentence/step (not grouped at the end)
- No extra boilerplate (don't restate the prompt or list all sections)

`

// ResponseInstruction returns the answering guidelines for FetchContent,
// quoting the user's question.
func ResponseInstruction(userQuery string) string {
	return fmt.Sprintf("User's question: %s\n\n", userQuery) + responseGuidelines + citationFormat
}
