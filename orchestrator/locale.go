package orchestrator

import "github.com/hupe1980/omnimesh/core"

// locale holds the user-facing strings of one output language.
type locale struct {
	Apology  string
	System   string
	Header   string
	Steps    []string
	Question string
	Memory   string
	Received string
	Closing  string
}

var locales = map[string]locale{
	"pt-BR": {
		Apology: "Desculpe, não foi possível obter respostas dos provedores de IA no momento.",
		System:  "Você é um consolidador de respostas de IA. Combine as respostas de múltiplos provedores em uma resposta única, concisa e útil.",
		Header:  "VOCÊ É UM CONSOLIDADOR LLM (RESPONDA EM PT-BR).\nTarefa: com base na pergunta do usuário e nas respostas das várias fontes abaixo (cada resposta prefixada com [PROVIDER]), faça:",
		Steps: []string{
			"Avalie a factualidade e a utilidade de cada resposta.",
			"Extraia os melhores trechos (máx. 2 por provedor).",
			"Combine-os em UMA resposta final concisa e prática.",
			`Cite, ao final, a seção "FONTES" com os provedores usados.`,
			"Se houver contradições, destaque-as e dê um veredito breve.",
			"Se a informação parecer sensível ou incerta, indique claramente as limitações.",
		},
		Question: "Pergunta do usuário:",
		Memory:   "Contexto de memória:",
		Received: "Respostas recebidas:",
		Closing:  `Instruções: responda em PT-BR; seja direto; inclua a seção "FONTES".`,
	},
	"en-US": {
		Apology: "Sorry, we could not get answers from the AI providers right now.",
		System:  "You are an AI answer consolidator. Merge the answers of multiple providers into a single, concise and useful answer.",
		Header:  "YOU ARE A CONSOLIDATOR LLM (ANSWER IN EN-US).\nTask: based on the user's question and the answers from the sources below (each prefixed with [PROVIDER]), do the following:",
		Steps: []string{
			"Assess the factuality and usefulness of each answer.",
			"Extract the best excerpts (at most 2 per provider).",
			"Merge them into ONE concise, practical final answer.",
			`At the end, add a "SOURCES" section naming the providers used.`,
			"If there are contradictions, point them out and give a brief verdict.",
			"If the information looks sensitive or uncertain, state the limitations clearly.",
		},
		Question: "User question:",
		Memory:   "Memory context:",
		Received: "Answers received:",
		Closing:  `Instructions: answer in EN-US; be direct; include the "SOURCES" section.`,
	},
	"es-ES": {
		Apology: "Lo sentimos, no fue posible obtener respuestas de los proveedores de IA en este momento.",
		System:  "Eres un consolidador de respuestas de IA. Combina las respuestas de varios proveedores en una respuesta única, concisa y útil.",
		Header:  "ERES UN CONSOLIDADOR LLM (RESPONDE EN ES-ES).\nTarea: a partir de la pregunta del usuario y de las respuestas de las fuentes de abajo (cada una precedida por [PROVIDER]), haz lo siguiente:",
		Steps: []string{
			"Evalúa la veracidad y la utilidad de cada respuesta.",
			"Extrae los mejores fragmentos (máx. 2 por proveedor).",
			"Combínalos en UNA respuesta final concisa y práctica.",
			`Añade al final la sección "FUENTES" con los proveedores usados.`,
			"Si hay contradicciones, señálalas y da un veredicto breve.",
			"Si la información parece sensible o incierta, indica claramente las limitaciones.",
		},
		Question: "Pregunta del usuario:",
		Memory:   "Contexto de memoria:",
		Received: "Respuestas recibidas:",
		Closing:  `Instrucciones: responde en ES-ES; sé directo; incluye la sección "FUENTES".`,
	},
}

// localeFor resolves lang to a supported language tag and its strings.
// Unknown or empty languages fall back to core.DefaultLanguage.
func localeFor(lang string) (string, locale) {
	if l, ok := locales[lang]; ok {
		return lang, l
	}
	return core.DefaultLanguage, locales[core.DefaultLanguage]
}

// Apology returns the zero-valid message for lang.
func Apology(lang string) string {
	_, l := localeFor(lang)
	return l.Apology
}
