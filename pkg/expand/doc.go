// Package expand rewrites template definitions of a lyph model into the
// concrete resources they stand for.
//
// # Overview
//
// Expanders work on the decoded JSON model through a [model.Index], before
// anything is instantiated. Every expander reads its template, generates
// nodes, links, lyphs and coalescences with deterministic identifiers (see
// [model.GenID]) and appends them to a group owned by the template:
//
//	group_<template id>
//
// The template references that group through its group field, so the
// generated resources can be told apart from the author's own.
//
// Running an expander twice has no effect: templates are marked once
// expanded and generated identifiers are looked up before being created.
//
// # Expanders
//
//   - [Context.ReplaceTemplateRefs] turns references to lyph templates and
//     materials into generated subtype lyphs.
//   - [Context.ExpandChain] builds the links, nodes and lyphs of a chain from
//     its lyphs, levels or housing.
//   - [Context.ExpandLyphTemplates] gives subtypes and clones their own copies
//     of the template's layers.
//   - [Context.ExpandVillus] grows a protrusion chain out of a host lyph.
//   - [Context.EmbedChain] places chain levels and nodes inside housing lyphs.
//   - [Context.ReplicateChain] clones a chain into every concrete descendant
//     of a housing lyph template.
//   - [Context.ExpandChannels] and [Context.ChannelInstances] build the three
//     segment channel templates and embed them into housing lyphs.
//   - [Context.TreeInstances] clones a tree's chain per instance and branch.
//   - [Context.ReplicateBorderNodes] clones nodes that ended up in more than
//     one place.
//   - [Context.RemapInternalLayers] moves internal resources into the layers
//     they ask for.
//
// # Level topology
//
// Lyphs generated for chain levels derive their topology from the template
// and their position, see [LevelTopology]. [ValidTopology] checks a finished
// sequence.
package expand
