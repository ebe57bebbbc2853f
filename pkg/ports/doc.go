/*
Package ports defines the driven ports (interfaces) of the archiscript engine.

These interfaces decouple the query layer from where models come from and
from how concurrent writers are coordinated.

# Key Interfaces

  - ModelLoader: produces the record form of a model (e.g., from a YAML file, Loam or memory).
  - ModelLocker: provides a cross-process write lock for a model (e.g., Redis).
*/
package ports
