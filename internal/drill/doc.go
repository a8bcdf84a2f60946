// Package drill decides which result headers are drillable and builds the
// drill events fired when a drillable chart point or table cell is clicked.
//
// The package has three parts:
//
//   - resolver: converts drill specs (uri, identifier, legacy pairs,
//     expressions and prebuilt predicates) into header predicates
//   - intersection: flattens a header path into the intersection carried
//     by a drill event, merging attribute values with their descriptors
//   - dispatch: composes the drill context of a click and hands the event
//     to the host callback, then to an EventTarget unless suppressed
//
// Nothing here performs I/O. EventTarget implementations (the SQLite
// journal, the embedding bridge) live in their own packages.
package drill
