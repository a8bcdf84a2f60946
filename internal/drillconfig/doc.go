// Package drillconfig compiles drill configuration written in CUE.
//
// A configuration directory holds one CUE package with a top-level drill
// struct:
//
//	drill: {
//		workspace: "ws1"
//		grouping:  true
//		items: [
//			{uri: "/gdc/md/p/obj/1"},
//			{identifier: "ws1:revenue"},
//			{uri: "/u", identifier: "legacy"},
//			{expr: "kind == \"measure\" && localIdentifier == \"m1\""},
//			{composedFrom: {uri: "/gdc/md/p/obj/9"}},
//			{localIdentifier: "m2"},
//			{attributeItemName: "Pink"},
//		]
//	}
//
// Each item compiles to a drill.Spec. Errors carry the CUE source position
// of the offending item.
package drillconfig
