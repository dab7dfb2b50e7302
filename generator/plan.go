package generator

const implementationGuideTitle = "Implementation Guide"

// Plan returns the fixed section plan. Each call returns a fresh slice.
func Plan() []Section {
	return []Section{
		{Title: "Introduction and Project Overview"},
		{Title: "Setup and Installation"},
		{
			Title: implementationGuideTitle,
			Subsections: []string{
				"File structure and configuration",
				"Core implementation steps",
				"Code changes and explanations",
			},
		},
		{Title: "Testing and Troubleshooting"},
	}
}
