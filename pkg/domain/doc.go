/*
Package domain contains the architecture model graph the query layer works on.

The graph has two interleaved layers: the conceptual layer (elements and the
relationships between them) and the visual layer (diagrams holding diagram
objects and connections that draw those concepts). Folders hold the top-level
members of both. This package only provides the raw structure; the proxy
package exposes it to scripting callers.

# Key Entities

  - Node: any element of the graph. It has a stable id, a declared type name,
    a structural container, ordered children, cross references and a raw
    attribute store.
  - Model: owns the node tree, the id index and the read-only guard. Detach
    enforces the graph's referential-integrity rule for diagram connections.
  - TypeRegistry: maps declared type names to a Category. It is passed around
    explicitly instead of living in a global.
*/
package domain
