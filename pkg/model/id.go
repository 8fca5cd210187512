package model

import (
	"fmt"
	"strings"
)

// NamespaceSeparator joins a namespace and a local id.
const NamespaceSeparator = "#"

// Prefixes used in generated identifiers.
const (
	PrefixNode        = "node"
	PrefixLink        = "lnk"
	PrefixLyph        = "lyph"
	PrefixLayer       = "layer"
	PrefixClone       = "clone"
	PrefixCoalescence = "coalescence"
	PrefixInstance    = "inst"
	PrefixBorder      = "border"
	PrefixGroup       = "group"
	PrefixVillus      = "villus"
	PrefixChannel     = "channel"
	PrefixChain       = "chain"
	PrefixWire        = "wire"
)

// GenID joins parts into a generated identifier. Namespaces are stripped
// from string parts.
func GenID(parts ...any) string {
	strs := make([]string, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			if v = LocalID(v); v != "" {
				strs = append(strs, v)
			}
		default:
			strs = append(strs, fmt.Sprint(v))
		}
	}
	return strings.Join(strs, "_")
}

// FullID qualifies id with namespace. An id that already carries a namespace
// is returned verbatim, and an empty namespace leaves the id unqualified.
func FullID(namespace, id string) string {
	if id == "" || namespace == "" || strings.Contains(id, NamespaceSeparator) {
		return id
	}
	return namespace + NamespaceSeparator + id
}

// Split separates a qualified id into namespace and local id.
func Split(fullID string) (namespace, id string) {
	if i := strings.Index(fullID, NamespaceSeparator); i >= 0 {
		return fullID[:i], fullID[i+1:]
	}
	return "", fullID
}

// LocalID drops the namespace of a qualified id.
func LocalID(fullID string) string {
	_, id := Split(fullID)
	return id
}

// RefFrom returns how a resource in namespace from refers to fullID: the
// local id inside the same namespace, the qualified id otherwise.
func RefFrom(from, fullID string) string {
	ns, id := Split(fullID)
	if ns == from {
		return id
	}
	return fullID
}
