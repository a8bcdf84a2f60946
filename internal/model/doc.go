// Package model provides the header and execution-definition types shared by
// every drillkit package.
//
// This package contains type definitions, accessors and serialization only.
// All other internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - MappingHeader and ObjRef are sealed sum types; the set of variants is closed
//   - Headers are passed by value, never by pointer
//   - JSON tags use the camelCase wire names of the analytical backend
//   - Identity accessors return a *HeaderError instead of guessing
package model
