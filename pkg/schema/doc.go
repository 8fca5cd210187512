// Package schema reflects the lyph model JSON-Schema into typed class
// descriptors and validates input documents against it.
//
// # Overview
//
// Every resource class of the model (Lyph, Chain, Group, Scaffold, ...) is a
// definition in the embedded graphScheme.json. [Load] walks the definitions
// once and resolves each field into a [Field] descriptor that tells the rest
// of the engine whether the field is a plain property or a relationship to
// another resource, which class it points to, whether it holds one or many
// references, and which field on the target class is its inverse.
//
//	reg := schema.Default()
//	lyph := reg.MustClass("Lyph")
//	f, _ := lyph.Field("layers")
//	// f.Kind == schema.Relationship, f.Target == "Lyph", f.Many, f.Inverse == "layerIn"
//
// # Inheritance
//
// Classes extend each other through allOf references. A class sees every
// field of its ancestors exactly once; a field redeclared by a subclass
// replaces the inherited descriptor.
//
// # Keywords
//
// Besides standard JSON-Schema, the definitions use four annotations:
//
//   - relatedTo: the inverse field name on the target class
//   - abstract: the class cannot be instantiated (no placeholders are created)
//   - readOnly: the field is derived and not taken from input
//   - default: the value a new resource receives when the field is absent
//
// # Validation
//
// [Validator] checks a whole model document. Violations are returned, not
// raised: assembly continues on invalid input and reports them as
// diagnostics.
package schema
