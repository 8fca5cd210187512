package assemble_test

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/lyphgraph/pkg/assemble"
	"github.com/matzehuels/lyphgraph/pkg/model"
)

func ExampleFromJSON() {
	var doc model.Object
	_ = json.Unmarshal([]byte(`{
		"id": "heart",
		"lyphs": [{"id": "atrium"}, {"id": "ventricle"}],
		"chains": [{"id": "flow", "lyphs": ["atrium", "ventricle"]}]
	}`), &doc)

	res, err := assemble.FromJSON(doc, assemble.Options{})
	if err != nil {
		panic(err)
	}
	flow := res.Store.Get("flow")
	fmt.Println("Levels:", flow.Refs("levels"))
	fmt.Println("Root:", flow.Ref("root"), "Leaf:", flow.Ref("leaf"))
	fmt.Println("Status:", res.Diag.Status())
	// Output:
	// Levels: [flow_lnk_1 flow_lnk_2]
	// Root: flow_node_0 Leaf: flow_node_2
	// Status: OK
}
