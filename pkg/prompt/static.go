package prompt

// Static prompt templates. Every template ends with an explicit markdown
// formatting instruction so downstream rendering can assume structured
// output.

// imagePromptFormat builds the multi-modal instruction prompt. Page and
// domain context are never included on this path.
// Args: image noun phrase ("this image" / "these 2 images"), question, image noun.
const imagePromptFormat = `Please analyze %s and answer the following question:
%s

Please provide a detailed response that:
1. Describes what you see in the %s
2. Answers the specific question asked
3. Provides relevant context or details
4. Uses markdown for formatting
`

// knowledgePromptFormat answers from general knowledge. Args: question,
// optional situational context block (empty or pre-rendered).
const knowledgePromptFormat = `You are a knowledgeable AI assistant. Please answer this question using your comprehensive knowledge:
Question: %s
%s
Provide a detailed answer that:
1. Uses your comprehensive knowledge base to answer
2. Includes relevant facts and sources
3. Stays focused on the question without page context unless explicitly requested
4. Uses markdown for formatting
`

// situationalContextFormat is injected into the knowledge prompt only when
// the question carries a referential cue. Args: url, title.
const situationalContextFormat = `
Previous context:
- User is on: %s
- Page title: %s
`

// domainPromptFormat focuses answers on the owning domain. Args: domain, url,
// title, meta description, meta keywords, question, domain.
const domainPromptFormat = `You are analyzing content from the domain: %s
Current page: %s

Website context:
Title: %s
Description: %s
Keywords: %s

Question: %s

Please provide an answer that:
1. Focuses on information specific to %s
2. References relevant content from the current page
3. Considers the website's context and purpose
4. Uses markdown for formatting
`

// pagePromptFormat answers strictly from the supplied page content. Args:
// url, title, headings, body text, question.
const pagePromptFormat = `You are analyzing this specific page:
URL: %s
Title: %s

Page content:
%s
---
%s

Question: %s

Please provide an answer that:
1. Only uses information from this specific page
2. Cites relevant sections or quotes
3. Maintains context of the current content
4. Uses markdown for formatting
`

// summaryPromptFormat summarizes a generic page. Args: url, title, body text.
const summaryPromptFormat = `Please analyze this webpage:

URL: %s
Title: %s

Content:
%s

Provide a well-structured summary including:
1. Main topic and purpose
2. Key points and findings
3. Important details and context
4. Related links or references
Use markdown for formatting.
`

// videoSummaryPromptFormat summarizes a recognized long-form video page,
// emphasizing timestamps and highlights. Args: title, url, optional video id
// line, body text.
const videoSummaryPromptFormat = `This is a video page. Please analyze and provide:

1. Video Title: %s
2. URL: %s%s

Content from the page:
%s

Please provide a comprehensive summary including:
1. Main topic and key points
2. Key timestamps if available
3. Important discussions or highlights
4. Related links or references mentioned
Use markdown for formatting.
`

// definePromptFormat asks for a definition of selected text. Args: text.
const definePromptFormat = `Please provide a comprehensive definition and explanation for: "%s"

Your response should:
1. Start with a clear, concise definition
2. Provide relevant context and background
3. Include examples or use cases if applicable
4. Use markdown for formatting
5. End with a "Delve Deeper" section suggesting related concepts

Format the response with clear headings and bullet points where appropriate.
`

// elaboratePromptFormat asks for a detailed explanation of selected text.
// Args: text.
const elaboratePromptFormat = `Please provide a detailed explanation and analysis of this text:

"%s"

Your response should:
1. Break down the key concepts
2. Provide additional context and background
3. Explain any complex terms or ideas
4. Draw connections to related topics
5. Use markdown for formatting
6. End with a "Related Concepts" section

Make the explanation clear and engaging, using examples where helpful.
`

// previousContextHeading opens the serialized prior-turn block.
const previousContextHeading = "Previous context:"

// newQuestionPrefix separates the prior-turn block from the final question.
const newQuestionPrefix = "New question: "
