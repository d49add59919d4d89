package keywords

// defaultStopwords is the builtin Spanish stopword list. Tokens are compared
// after normalization, so accented entries only match if the accent survives
// normalization (it never does), which keeps domain words like "subvencion"
// searchable while their accented dictionary forms stay listed.
var defaultStopwords = newSet(
	// Articles, prepositions, conjunctions
	"el", "la", "los", "las", "un", "una", "unos", "unas", "lo",
	"de", "del", "a", "ante", "bajo", "con", "contra", "desde", "durante",
	"en", "entre", "hacia", "hasta", "mediante", "para", "por", "según",
	"sin", "sobre", "tras", "versus", "y", "o", "pero", "mas", "ni",
	"aunque", "sino", "que", "quien", "cuyo", "cuya",

	// Pronouns and demonstratives
	"yo", "tú", "él", "ella", "nosotros", "vosotros", "ellos", "ellas",
	"me", "te", "se", "nos", "os", "mi", "tu", "su", "nuestro", "vuestro",
	"este", "ese", "aquel", "esta", "esa", "aquella", "esto", "eso", "aquello",

	// Common and auxiliary verbs
	"ser", "estar", "haber", "tener", "hacer", "poder", "decir", "ir", "ver",
	"dar", "saber", "querer", "llegar", "pasar", "deber", "creer", "volver",
	"parecer", "quedar", "sentir", "tratar", "dejar", "existir", "seguir",
	"encontrar", "llamar", "venir", "pensar", "vivir", "hablar",

	// Adverbs and connectors
	"muy", "más", "menos", "tan", "tanto", "tanto como", "como", "así",
	"también", "tampoco", "sí", "no", "jamás", "nunca", "siempre", "a veces",
	"aquí", "allí", "ahí", "donde", "cuando", "por qué", "para qué",
	"además", "incluso", "incluso si", "por eso", "por lo tanto", "sin embargo",

	// Very common words in aid announcements
	"subvención", "beca", "convocatoria", "solicitud", "solicitar",
	"presentar", "plazo", "fecha", "año", "meses", "días",
	"público", "pública", "gobierno", "administración", "junta", "castilla",
	"león", "trámite", "procedimiento", "documentación", "requisito", "cumplir",

	// Ordinals and small numbers
	"primero", "segundo", "tercero", "cuarto", "quinto", "sexto", "séptimo",
	"octavo", "noveno", "décimo", "uno", "dos", "tres", "cuatro", "cinco",

	// Other generic terms
	"nuevo", "nueva", "nuevos", "nuevas", "general", "generales", "distinto",
	"diferente", "varios", "varias", "cada", "todo", "todos", "todas", "otro",
	"otra", "otros", "otras", "mismo", "misma", "mismos", "mismas", "propio",
	"propia", "propios", "propias", "solo", "sola", "sólo", "único", "única",
)

func newSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
