// Package quarry provides the typed columnar data model and checked
// arithmetic kernel of a proof-capable SQL engine.
//
// The module is organized around a closed set of column types (boolean,
// machine integers up to 128 bits, fixed-point decimals up to 75 digits,
// strings, byte strings and epoch timestamps) and eager element-wise
// operations over them. Every value has an embedding into a prime-order
// scalar field, which is what lets decimals of different scales, wide
// integers and hashed strings all participate in the same comparison and
// aggregation machinery.
//
// # Packages
//
//   - pkg/scalar: the finite-field value type backing decimals, hashes
//     and aggregation.
//   - pkg/arena: the explicit allocator threaded through every
//     evaluation step.
//   - pkg/column: column types, type promotion, borrowed and owned
//     columns, NULL overlays, and the arithmetic/comparison kernels.
//   - pkg/aggregate: sort-and-dedup group-by primitives folding runs
//     into sums, counts, minima and maxima.
//   - pkg/arrowconv: the boundary between Arrow arrays and typed
//     columns, in both directions.
//   - cmd/quarry: CLI for inspecting and aggregating Arrow IPC files
//     through the column model.
//
// All operations are eager: they validate shapes first, allocate output
// buffers once through an arena, and return fully materialized results
// or a typed error. Nothing in the kernel logs, panics on data, or
// retains global state.
package quarry
