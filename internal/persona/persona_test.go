package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCatalog(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{KeyGeneral, KeyChrono, KeyVega, KeyAria, KeyKilo}, r.Keys())
	assert.Equal(t, []string{KeyChrono, KeyVega, KeyAria, KeyKilo}, r.DomainKeys())

	vega, ok := r.Lookup("vega")
	require.True(t, ok)
	assert.Equal(t, "Vega", vega.Name)
	assert.Equal(t, "UX & Engagement", vega.Role)
	assert.Contains(t, vega.Domain, "user experience")
}

func TestLookupNormalizesKey(t *testing.T) {
	r := NewRegistry()

	p, ok := r.Lookup("  VEGA ")
	require.True(t, ok)
	assert.Equal(t, KeyVega, p.Key)
}

func TestResolveFallsBackToGeneral(t *testing.T) {
	r := NewRegistry()

	p := r.Resolve("nonexistent")
	assert.Equal(t, KeyGeneral, p.Key)

	p = r.Resolve("kilo")
	assert.Equal(t, "Kilo Code", p.Name)
}

func TestValid(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Valid("chrono"))
	assert.False(t, r.Valid("zorp"))
	assert.False(t, r.Valid(""))
}

func TestSubtopicsForDomain(t *testing.T) {
	r := NewRegistry()

	for _, key := range r.DomainKeys() {
		p := r.Resolve(key)
		subs := SubtopicsForDomain(p.Domain)
		assert.NotEmpty(t, subs, "persona %s should have subtopics", key)
	}

	// Unknown domains get the generic set, never an empty slice.
	subs := SubtopicsForDomain("quantum basket weaving")
	assert.NotEmpty(t, subs)
}
