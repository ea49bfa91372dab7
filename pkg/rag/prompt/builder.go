package prompt

import (
	"fmt"
	"strings"
)

// ContextChunk is one retrieved excerpt injected into the prompt.
type ContextChunk struct {
	Filename string
	Content  string
}

// GroundedBuilder assembles a prompt that anchors the model on
// retrieved document excerpts.
type GroundedBuilder struct {
	chunks   []ContextChunk
	question string
}

func NewGroundedBuilder(chunks []ContextChunk, question string) *GroundedBuilder {
	return &GroundedBuilder{
		chunks:   chunks,
		question: question,
	}
}

func (b *GroundedBuilder) Build() string {
	var prompt strings.Builder

	b.writeReferenceMaterial(&prompt)
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeUserQuestion(&prompt)

	return prompt.String()
}

func (b *GroundedBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	if len(b.chunks) == 0 {
		return
	}

	prompt.WriteString("<reference_material>\n")
	for i, chunk := range b.chunks {
		prompt.WriteString(fmt.Sprintf("[Excerpt %d from %s]\n", i+1, chunk.Filename))
		prompt.WriteString(chunk.Content)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</reference_material>\n\n")
}

func (b *GroundedBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a knowledgeable assistant helping the user understand their uploaded documents.\n")
	prompt.WriteString("Answer the question using the reference material excerpts above.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *GroundedBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the reference material provided\n")
	prompt.WriteString("2. Cite the excerpt you draw from, e.g. (Excerpt 2)\n")
	prompt.WriteString("3. Be complete - don't skip relevant information from the material\n")
	prompt.WriteString("4. If no reference material is provided, or it doesn't contain what's being asked, say so honestly\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *GroundedBuilder) writeUserQuestion(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.question)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Now provide your complete response based on the reference material:")
}
