package catalog

// Default returns the built-in rubric used when the CSV source cannot be
// loaded. One representative question per dimension keeps the assessment flow
// functional; option scores follow the A-E ladder.
func Default() *Catalog {
	c := New()
	for _, q := range defaultQuestions {
		c.add(q)
	}
	return c
}

func ladder(options ...string) []Option {
	out := make([]Option, len(options))
	for i, text := range options {
		out[i] = Option{Text: text, Score: i + 1}
	}
	return out
}

var defaultQuestions = []Question{
	{
		Dimension:   "Build and Deployment",
		Text:        "Do you have a defined and documented build and deployment process?",
		Description: "A build process defines how source code is compiled, tested, and packaged.",
		Options: ladder(
			"A) No defined process; builds and deployment are manual or ad hoc.",
			"B) Some projects have defined processes, but these are undocumented and inconsistent.",
			"C) A documented process exists but lacks adoption in all teams.",
			"D) All teams follow a consistent, well-documented process.",
			"E) Processes are optimized, automated, and integrated with CI/CD.",
		),
	},
	{
		Dimension:   "Information Gathering",
		Text:        "Do you perform threat modeling or security risk assessments?",
		Description: "Systematic approach to identifying and evaluating security threats.",
		Options: ladder(
			"A) No formal threat modeling or risk assessment is performed.",
			"B) Ad hoc security considerations without formal process.",
			"C) Basic threat modeling performed for some projects.",
			"D) Comprehensive threat modeling for all major projects.",
			"E) Advanced threat modeling integrated into development lifecycle.",
		),
	},
	{
		Dimension:   "Implementation",
		Text:        "Do you follow secure coding practices?",
		Description: "Implementation of security-focused programming practices.",
		Options: ladder(
			"A) No formal secure coding practices.",
			"B) Basic awareness but inconsistent application.",
			"C) Documented guidelines with some enforcement.",
			"D) Well-established practices with regular training.",
			"E) Advanced secure coding with automated enforcement.",
		),
	},
	{
		Dimension:   "Test and Verification",
		Text:        "Do you perform security testing?",
		Description: "Systematic testing to identify security vulnerabilities.",
		Options: ladder(
			"A) No dedicated security testing.",
			"B) Basic manual security checks.",
			"C) Some automated security testing tools.",
			"D) Comprehensive security testing program.",
			"E) Advanced testing with continuous security validation.",
		),
	},
	{
		Dimension:   "Response",
		Text:        "Do you have an incident response plan?",
		Description: "Documented procedures for handling security incidents.",
		Options: ladder(
			"A) No formal incident response plan.",
			"B) Basic informal response procedures.",
			"C) Documented plan with limited testing.",
			"D) Well-tested incident response procedures.",
			"E) Advanced response capabilities with regular drills.",
		),
	},
}
