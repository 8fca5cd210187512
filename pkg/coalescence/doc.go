// Package coalescence instantiates and checks coalescences between lyphs.
//
// # Abstract coalescences
//
// A coalescence whose members include a lyph template or a material stands
// for every combination of concrete lyphs it describes. [Expand] replaces it
// with one concrete coalescence per combination:
//
//   - a template member is represented by its concrete subtypes, found
//     through subtypes recursively;
//   - a material member is represented by the lyphs generated from it;
//   - any other lyph represents itself.
//
// The combinations are the Cartesian product of the representative sets.
// Repeated lyphs within a combination collapse, combinations with a single
// lyph are dropped, and combinations with the same lyphs are generated once.
// Instances are named <coalescence>_<k> and point back through instanceOf.
//
// # Validation
//
// [Validate] reports coalescences with fewer than two lyphs, lyphs that are
// layers or containers of another member, and, for CONNECTING coalescences,
// members without an axis. Members after the first of a CONNECTING
// coalescence are turned to face the first one.
package coalescence
