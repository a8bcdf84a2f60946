// Package grouping computes pivot table row grouping over paginated rows.
//
// A value cell is "repeated" when it equals the cell directly above it and
// every attribute column to its left is repeated at that row too. Repeated
// cells are rendered blank; group boundaries get a separator.
//
// Pages may arrive in any order. Rows not loaded yet are gaps: they never
// repeat and always count as boundaries. An Engine is not safe for
// concurrent use; callers serialize ProcessPage per table.
package grouping
