package chat

import (
	"fmt"
	"strings"
)

// BuildSuggestionPrompt asks the model for exactly three starter questions
// about the given sources, returned as a fenced JSON object. The worked
// example anchors the output shape.
func BuildSuggestionPrompt(refs []string) string {
	var sb strings.Builder
	sb.WriteString("Basado en el contenido potencial de las siguientes fuentes, genera una lista de 3 preguntas interesantes y concisas que un usuario podría hacer.\n")
	sb.WriteString("Fuentes: ")
	sb.WriteString(strings.Join(refs, ", "))
	sb.WriteString("\n\n")
	sb.WriteString("Devuelve SOLAMENTE un objeto JSON con una clave \"suggestions\" que contenga una lista de strings.\n")
	sb.WriteString("Ejemplo de formato:\n")
	sb.WriteString("```json\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"suggestions\": [\n")
	sb.WriteString("    \"¿Cuáles son los modelos de Gemini disponibles?\",\n")
	sb.WriteString("    \"¿Cómo funciona el grounding?\",\n")
	sb.WriteString("    \"Explica los precios de la API.\"\n")
	sb.WriteString("  ]\n")
	sb.WriteString("}\n")
	sb.WriteString("```\n")
	return sb.String()
}

// BuildAnswerPrompt grounds the question in the supplied context and asks
// the model to say so explicitly when the answer is not in it.
func BuildAnswerPrompt(contextBlock, question string) string {
	var sb strings.Builder
	sb.WriteString("Eres un asistente experto en la documentación proporcionada.\n")
	sb.WriteString("Usando el siguiente contexto como fuente principal, responde la pregunta del usuario.\n")
	sb.WriteString("Si la respuesta no se encuentra en el contexto, indícalo.\n\n")
	sb.WriteString("Contexto:\n")
	sb.WriteString(contextBlock)
	sb.WriteString("\n\nPregunta del usuario:\n")
	sb.WriteString(fmt.Sprintf("%q", question))
	sb.WriteString("\n\nRespuesta:\n")
	return sb.String()
}
