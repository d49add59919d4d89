package taxonomy

// Rule attaches a tag when any of its patterns matches the input text. A
// pattern is a case-insensitive regular expression; one that fails to compile
// is matched as a literal substring instead.
type Rule struct {
	Patterns []string
	Tag      string
}

// Topic term dictionaries. A topic tag fires when any term appears as a
// substring of the combined lowercase text.
var topicTerms = map[string][]string{
	"employment": {
		"empleo", "trabajo", "contrato", "laboral", "trabajador", "empresa", "contratación",
		"desempleo", "paro", "desempleado", "buscar trabajo", "inserción laboral", "orientación laboral",
		"prácticas", "becas empresa", "formación profesional", "certificado profesionalidad",
	},
	"training": {
		"formación", "curso", "taller", "capacitación", "aprendizaje", "educación", "enseñanza",
		"formación profesional", "reciclaje", "competencias", "habilidades", "perfeccionamiento",
		"curso online", "e-learning", "formación continua", "formación ocupacional", "profesional", "ocupacional",
	},
	"education": {
		"educación", "enseñanza", "colegio", "instituto", "universidad", "estudios", "título",
		"educación infantil", "educación primaria", "educación secundaria", "bachillerato",
		"educación superior", "master", "postgrado", "doctorado", "título universitario",
	},
	"housing": {
		"vivienda", "alquiler", "hipoteca", "casa", "piso", "alojamiento", "residencia",
		"alquiler vivienda", "vivienda protegida", "vpo", "vivienda pública", "rehabilitación",
		"compra vivienda", "vivienda juvenil", "hogar",
	},
	"family": {
		"familia", "familiar", "hogar", "unidad familiar", "convivencia", "matrimonio", "pareja",
		"familia monoparental", "familia numerosa", "dependiente", "cuidados familiares",
		"conciliación", "vida familiar", "apoyo familiar", "monoparental", "numerosa",
		"ayuda familiar", "apoyo económico", "prestación",
	},
	"care": {
		"cuidados", "dependencia", "atención", "asistencia", "cuidador", "dependiente",
		"cuidado dependientes", "atención temprana", "cuidado mayores", "cuidado infantil",
		"servicio cuidado", "asistencia personal", "ayuda domicilio",
	},
	"health": {
		"salud", "médico", "sanitario", "enfermedad", "tratamiento", "medicina", "hospital",
		"salud mental", "bienestar", "prevención", "salud pública", "atención sanitaria",
		"seguridad social", "cobertura sanitaria", "medicamentos",
	},
	"disability": {
		"discapacidad", "minusvalía", "discapacitado", "accesibilidad", "inclusión",
		"movilidad reducida", "discapacidad física", "discapacidad intelectual",
		"discapacidad sensorial", "accesibilidad universal", "apoyo discapacidad",
	},
	"energy": {
		"energía", "electricidad", "gas", "combustible", "energético", "eficiencia energética",
		"energía renovable", "término variable", "factura energía", "bono social eléctrico",
		"bono social térmico", "energía solar", "ahorro energético", "consumo energético",
	},
	"transport": {
		"transporte", "movilidad", "vehículo", "coche", "transporte público", "autobús",
		"tren", "metro", "tarjeta transporte", "abono transporte", "movilidad sostenible",
		"conducción", "carnet conducir", "transporte escolar",
	},
	"entrepreneurship": {
		"emprendimiento", "empresa", "negocio", "autónomo", "emprendedor", "creación empresa",
		"pyme", "pequeña empresa", "mediana empresa", "start up", "innovación empresarial",
		"plan negocio", "proyecto empresarial", "financiación empresarial", "crear empresas", "emprender",
	},
	"social_support": {
		"apoyo social", "inclusión social", "exclusión social", "vulnerabilidad", "renta mínima",
		"inserción social", "cohesión social", "desarrollo social", "acción social",
		"servicio social", "trabajador social", "asistencia social", "protección social",
		"apoyo económico", "prestación", "subvención", "ayuda económica", "beneficio",
	},
	"digital_inclusion": {
		"digital", "tecnología", "informática", "internet", "ordenador", "teléfono",
		"alfabetización digital", "brecha digital", "competencias digitales", "teletrabajo",
		"administración digital", "firma digital", "identidad digital", "conectividad",
	},
}

// topicOrder fixes the evaluation order of the topic dictionaries.
var topicOrder = []string{
	"employment", "training", "education", "housing", "family", "care",
	"health", "disability", "energy", "transport", "entrepreneurship",
	"social_support", "digital_inclusion",
}

var ageRules = []Rule{
	{Patterns: []string{"menor de 18 años", "menores", "infantil", "adolescente"}, Tag: "age_under_18"},
	{Patterns: []string{"jóvenes menores de 30", "menores de 30 años", "joven.*30"}, Tag: "age_under_30"},
	{Patterns: []string{"jóvenes menores de 35", "menores de 35 años", "joven.*35"}, Tag: "age_under_35"},
	{Patterns: []string{"menores de 45 años", "< 45"}, Tag: "age_under_45"},
	{Patterns: []string{"mayores de 45 años", "> 45", "45 años.*más"}, Tag: "age_over_45"},
	{Patterns: []string{"mayores de 55 años", "> 55", "55 años.*más"}, Tag: "age_over_55"},
	{Patterns: []string{"mayores de 65 años", "jubilados", "pensionistas", "> 65"}, Tag: "age_over_65"},
}

var employmentStatusRules = []Rule{
	{Patterns: []string{"desempleado", "parado", "en paro", "sin empleo"}, Tag: "unemployed"},
	{Patterns: []string{"demandante de empleo", "inscrito", "inscripción demandante", "sepe", "inscritas como demandantes"}, Tag: "jobseeker_registered"},
	{Patterns: []string{"larga duración", "paro largo", "desempleo largo"}, Tag: "long_term_unemployed"},
	{Patterns: []string{"trabajador", "asalariado", "empleado"}, Tag: "employee"},
	{Patterns: []string{"autónomo", "trabajador por cuenta propia", "freelance"}, Tag: "self_employed"},
	{Patterns: []string{"nuevo autónomo", "nueva actividad"}, Tag: "new_self_employed"},
	{Patterns: []string{"creación empresa", "emprender", "crear negocio", "crear empresas", "crear empresas en", "creen empresas"}, Tag: "business_creation"},
	{Patterns: []string{"estudiante", "educativo", "formación", "aprendizaje"}, Tag: "student"},
}

var incomeRules = []Rule{
	{Patterns: []string{"renta baja", "bajos ingresos", "ingresos bajos", "ingresos inferiores"}, Tag: "low_income"},
	{Patterns: []string{"IPREM", "indicador público renta efectos múltiples"}, Tag: "income_below_iprem"},
	{Patterns: []string{"SMI", "salario mínimo interprofesional"}, Tag: "income_below_smi"},
	{Patterns: []string{"exclusión social", "riesgo exclusión", "vulnerabilidad"}, Tag: "risk_of_exclusion"},
	{Patterns: []string{"vulnerabilidad social", "situación vulnerabilidad", "colectivos vulnerables"}, Tag: "social_vulnerability"},
}

var familyRules = []Rule{
	{Patterns: []string{"familia numerosa", "familia numeros", "monoparental", "solo padre", "sola madre"}, Tag: "large_family"},
	{Patterns: []string{"monoparental", "padre solo", "madre sola"}, Tag: "single_parent"},
	{Patterns: []string{"dependiente", "cuidado dependiente", "dependencia"}, Tag: "dependent_person_care"},
	{Patterns: []string{"menores de 3 años", "niños pequeños", "bebés"}, Tag: "children_under_3"},
	{Patterns: []string{"menores de 12 años", "niños", "adolescentes"}, Tag: "children_under_12"},
	{Patterns: []string{"nacimiento", "parto", "maternidad", "paternidad", "adopción"}, Tag: "birth_or_adoption"},
}

var healthRules = []Rule{
	{Patterns: []string{"discapacidad reconocida", "grado discapacidad", "certificado"}, Tag: "disability_recognized"},
	{Patterns: []string{"dependencia reconocida", "grado dependencia", "valoración"}, Tag: "dependency_recognized"},
	{Patterns: []string{"enfermedad crónica", "patología crónica", "enfermedad prolongada"}, Tag: "chronic_illness"},
}

var territoryRules = []Rule{
	{Patterns: []string{"castilla.*león", "cyl", "castilla león", "junta castilla león"}, Tag: "castilla_y_leon_specific"},
	{Patterns: []string{"municipal", "ayuntamiento", "local"}, Tag: "municipal_scope"},
	{Patterns: []string{"provincial", "diputación"}, Tag: "provincial_scope"},
	{Patterns: []string{"rural", "mundo rural", "entorno rural"}, Tag: "rural_area"},
	{Patterns: []string{"despoblación", "despoblado", "área despoblada", "retos demográficos"}, Tag: "depopulation_area"},
}

var modalityRules = []Rule{
	{Patterns: []string{"online", "telemático", "digital", "internet"}, Tag: "online_available"},
	{Patterns: []string{"presencial", "cara a cara", "físico"}, Tag: "in_person_available"},
	{Patterns: []string{"procesamiento electrónico", "tramitación electrónica", "trámite telemático"}, Tag: "electronic_processing_preferred"},
	{Patterns: []string{"cita previa", "se requiere cita previa", "necesaria cita previa", "con cita previa", "previa cita", "entrevista previa"}, Tag: "appointment_required"},
}

// facetRules lists every rule table in evaluation order.
var facetRules = [][]Rule{
	ageRules,
	employmentStatusRules,
	incomeRules,
	familyRules,
	healthRules,
	territoryRules,
	modalityRules,
}

// Terms that signal a direct economic benefit. Any match implies the
// social_support tag.
var supportIndicatorTerms = []string{
	"ayuda económica", "apoyo económico", "subvención", "prestación", "beneficio",
	"bono", "apoyo financiero", "ayuda directa", "subvencionar", "apoyar", "apoyo para",
}

// Social-vulnerability contexts which, combined with a generic "apoyo"
// mention, also imply social_support.
var socialContextTerms = []string{
	"discapacidad", "vulnerabilidad", "dependencia", "monoparental", "numerosa",
}
