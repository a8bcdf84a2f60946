// Package harness runs drill conformance scenarios.
//
// A scenario is a YAML file naming an execution facade and a drill
// configuration (a CUE config directory or inline items), plus any of:
//
//   - checks: headers with their expected drillability
//   - intersections: header paths with the expected intersection elements
//   - clicks: chart point clicks, dispatched and journaled
//   - grouping: result pages with the expected repeats and boundaries
//
// Example:
//
//	name: composed-from
//	description: arithmetic measures drill through their operands
//	facade: facade.json
//	items:
//	  - composedFrom: {uri: /gdc/md/p/obj/1}
//	checks:
//	  - name: sum is drillable
//	    header: sum
//	    drillable: true
//
// Each run uses a fresh in-memory journal, a deterministic clock and a fixed
// session, so the trace is reproducible and can be compared against golden
// files (see RunWithGolden).
package harness
