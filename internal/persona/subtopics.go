package persona

// domainSubtopics maps each specialist knowledge domain to the subtopics its
// persona researches autonomously.
var domainSubtopics = map[string][]string{
	"medical informatics and healthcare data analysis": {
		"electronic health records",
		"predictive diagnostics",
		"telemedicine platforms",
		"healthcare AI ethics",
		"patient data privacy",
		"clinical decision support",
	},
	"user experience design and interface optimization": {
		"accessibility standards",
		"mobile-first design",
		"user behavior analytics",
		"design systems",
		"usability testing",
		"interaction design",
	},
	"academic research and data discovery methodologies": {
		"systematic literature review",
		"meta-analysis techniques",
		"research data management",
		"open science practices",
		"peer review processes",
		"citation analysis",
	},
	"artificial intelligence and machine learning development": {
		"neural network architectures",
		"deep learning frameworks",
		"reinforcement learning",
		"natural language processing",
		"computer vision",
		"AI ethics and bias",
	},
}

// genericSubtopics is the fallback list for domains without a dedicated table.
var genericSubtopics = []string{
	"advanced techniques",
	"current trends",
	"best practices",
	"future developments",
}

// SubtopicsForDomain returns the research subtopics for a knowledge domain.
func SubtopicsForDomain(domain string) []string {
	if topics, ok := domainSubtopics[domain]; ok {
		return topics
	}
	return genericSubtopics
}
