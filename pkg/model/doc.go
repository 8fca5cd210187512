// Package model holds the unstructured form of a lyph model: the decoded JSON
// document that template expanders rewrite before resources are instantiated.
//
// # Objects
//
// A model is a tree of map[string]any values as produced by encoding/json.
// The helpers in this package read and write fields of such objects without
// type assertions scattered over the expanders: [String], [Int], [Refs],
// [AddRef] and friends.
//
// # Identifiers
//
// Resources are identified by id within a namespace. [FullID] joins both with
// "#"; an id that already contains "#" is used verbatim. Generated resources
// get ids from [GenID], which joins its parts with "_":
//
//	model.GenID("c1", model.PrefixLink, 1) // "c1_lnk_1"
//
// # Index
//
// [Index] maps every definition of the model, including those in nested
// groups, by fully qualified id. Expanders look up references and register
// the resources they generate through it, so all phases see one consistent
// view of the model.
package model
