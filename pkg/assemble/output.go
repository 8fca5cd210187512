package assemble

import (
	"slices"

	"github.com/matzehuels/lyphgraph/pkg/diag"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/resource"
)

// Stats summarizes an assembled model.
type Stats struct {
	Resources int            `json:"resources"`
	Generated int            `json:"generated"`
	ByClass   map[string]int `json:"byClass"`
	Warnings  int            `json:"warnings"`
	Errors    int            `json:"errors"`
	Status    diag.Status    `json:"status"`
}

// Stats counts the resources of the model by class.
func (r *Result) Stats() Stats {
	st := Stats{
		ByClass:  make(map[string]int),
		Warnings: r.Diag.Count(diag.Warn),
		Errors:   r.Diag.Count(diag.Error),
		Status:   r.Diag.Status(),
	}
	for _, res := range r.Store.All() {
		st.Resources++
		st.ByClass[res.Class]++
		if res.Generated {
			st.Generated++
		}
	}
	return st
}

// Groups returns the root and every nested group, parents first.
func (r *Result) Groups() []*resource.Resource {
	return slices.Clone(r.groups)
}

// JSON serializes the model: the root with references as fully qualified
// ids, every nested group flattened into the nested collection, and the
// diagnostics under "logger".
func (r *Result) JSON() model.Object {
	out := r.Store.ToJSON(r.Root, 0, nil)
	nested := []any{}
	for _, g := range r.Groups()[1:] {
		nested = append(nested, r.Store.ToJSON(g, 0, nil))
	}
	out[model.NestedKey(r.Root.Class)] = nested
	out["logger"] = r.Diag.Report()
	return out
}

// Entities serializes every resource of the model flatly.
func (r *Result) Entities() []model.Object {
	return r.Store.EntitiesToJSON()
}
