package importer

import (
	"strings"

	"github.com/zaelmari/controle/internal/model"
)

// Individual maps account-holder name fragments to a responsible-party label.
type Individual struct {
	Label     string
	Fragments []string
}

// DefaultIndividuals are the household members known out of the box.
func DefaultIndividuals() []Individual {
	return []Individual{
		{Label: "Zael", Fragments: []string{"metusael"}},
		{Label: "Mari", Fragments: []string{"mariana"}},
	}
}

// PartyResolver maps a free-text card holder name to a responsible party.
type PartyResolver struct {
	individuals []Individual
	joint       string
}

// NewPartyResolver builds a resolver. Individuals are checked in the given
// order; a name matching none of them resolves to joint.
func NewPartyResolver(individuals []Individual, joint string) *PartyResolver {
	if joint == "" {
		joint = model.PartyJoint
	}
	lowered := make([]Individual, 0, len(individuals))
	for _, ind := range individuals {
		frags := make([]string, 0, len(ind.Fragments))
		for _, f := range ind.Fragments {
			f = strings.ToLower(strings.TrimSpace(f))
			if f != "" {
				frags = append(frags, f)
			}
		}
		lowered = append(lowered, Individual{Label: ind.Label, Fragments: frags})
	}
	return &PartyResolver{individuals: lowered, joint: joint}
}

// Resolve returns the label of the first individual with a fragment contained
// in name, ignoring case, or the joint label.
func (r *PartyResolver) Resolve(name string) string {
	lower := strings.ToLower(name)
	for _, ind := range r.individuals {
		for _, f := range ind.Fragments {
			if strings.Contains(lower, f) {
				return ind.Label
			}
		}
	}
	return r.joint
}

// Labels returns every label the resolver can produce, joint last.
func (r *PartyResolver) Labels() []string {
	labels := make([]string, 0, len(r.individuals)+1)
	for _, ind := range r.individuals {
		labels = append(labels, ind.Label)
	}
	return append(labels, r.joint)
}
