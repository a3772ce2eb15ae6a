// Package persona defines the fixed catalog of conversational personas and
// their declared knowledge domains. The catalog is immutable process-wide
// configuration: personas are never created or destroyed at runtime.
package persona

import "strings"

// Persona keys. KeyGeneral is the fallback identity for any unrecognized key.
const (
	KeyGeneral = "general"
	KeyChrono  = "chrono"
	KeyVega    = "vega"
	KeyAria    = "aria"
	KeyKilo    = "kilo"
)

// Persona is a named conversational identity.
type Persona struct {
	Key      string
	Name     string
	Role     string
	Greeting string
	Style    string
	Domain   string
}

// Registry exposes the closed persona set in a stable order.
type Registry struct {
	order    []string
	personas map[string]Persona
}

// NewRegistry builds the static persona catalog.
func NewRegistry() *Registry {
	list := []Persona{
		{
			Key:      KeyGeneral,
			Name:     "AI Assistant",
			Role:     "General Purpose",
			Greeting: "Hello! I'm your AI assistant. How can I help you today?",
			Style:    "Friendly and helpful",
			Domain:   "general programming and technology",
		},
		{
			Key:      KeyChrono,
			Name:     "Chrono",
			Role:     "Medical Informatics",
			Greeting: "Greetings! I am Chrono, specializing in medical data analysis and healthcare informatics.",
			Style:    "Professional, data-focused, healthcare-oriented",
			Domain:   "medical informatics and healthcare data analysis",
		},
		{
			Key:      KeyVega,
			Name:     "Vega",
			Role:     "UX & Engagement",
			Greeting: "Hi there! I'm Vega, your UX and user engagement specialist. Let's make interfaces amazing!",
			Style:    "Creative, user-centric, design-focused",
			Domain:   "user experience design and interface optimization",
		},
		{
			Key:      KeyAria,
			Name:     "Aria",
			Role:     "Research & Data Discovery",
			Greeting: "Hello! I'm Aria, dedicated to research and data discovery. What knowledge shall we uncover?",
			Style:    "Analytical, research-oriented, curious",
			Domain:   "academic research and data discovery methodologies",
		},
		{
			Key:      KeyKilo,
			Name:     "Kilo Code",
			Role:     "AI Developer",
			Greeting: "Hey! Kilo Code here, your AI development expert. Ready to build some intelligent systems?",
			Style:    "Technical, coding-focused, innovative",
			Domain:   "artificial intelligence and machine learning development",
		},
	}

	r := &Registry{personas: make(map[string]Persona, len(list))}
	for _, p := range list {
		r.order = append(r.order, p.Key)
		r.personas[p.Key] = p
	}
	return r
}

// Lookup returns the persona for key.
func (r *Registry) Lookup(key string) (Persona, bool) {
	p, ok := r.personas[strings.ToLower(strings.TrimSpace(key))]
	return p, ok
}

// Resolve returns the persona for key, falling back to general for any
// unrecognized key. A persona is never invented downstream.
func (r *Registry) Resolve(key string) Persona {
	if p, ok := r.Lookup(key); ok {
		return p
	}
	return r.personas[KeyGeneral]
}

// Valid reports whether key names a registered persona.
func (r *Registry) Valid(key string) bool {
	_, ok := r.Lookup(key)
	return ok
}

// Keys returns all persona keys in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DomainKeys returns the keys of the domain specialists (everything except
// general) in registration order.
func (r *Registry) DomainKeys() []string {
	var out []string
	for _, k := range r.order {
		if k != KeyGeneral {
			out = append(out, k)
		}
	}
	return out
}
