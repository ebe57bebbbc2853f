/*
Package archiscript is a query and edit layer over typed architecture models:
folders, ArchiMate elements and relationships, diagrams and the objects and
connections drawn on them.

Every node of a model is handed out wrapped in a proxy.Proxy whose variant
matches the node category. Proxies navigate the model (Parent, Parents,
Children, Find, InRels, OutRels, ReferencedConcept), read and write visual
attributes through a fixed key set, and delete nodes with a cascade that
never leaves dangling diagram references or connections behind.

# Selectors

Find and Filter take selectors:

	*                 every concept, diagram, folder and diagram component
	concepts          elements and relationships
	elements          elements only
	relations         relationships only (also "relationships")
	views             diagrams
	#id               the node with that id (stops at the first match)
	.Name             nodes whose resolved concept is named Name
	Type              nodes whose resolved concept has that type
	Type.Name         both of the above

# Usage

Models are loaded from a YAML or JSON document, from a Loam directory of
Markdown documents, or from any ports.ModelLoader.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/archiscript"
	)

	func main() {
		eng, err := archiscript.Open(context.Background(), "archisurance.yaml")
		if err != nil {
			log.Fatal(err)
		}
		defer eng.Close()

		for _, actor := range eng.Find("BusinessActor").All() {
			fmt.Println(actor.ID(), actor.Name(), actor.ViewRefs().IDs())
		}

		if err := eng.Get("old-view").Delete(); err != nil {
			log.Fatal(err)
		}
	}
*/
package archiscript
