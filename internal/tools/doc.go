// Package tools implements the assistant's local directory tools.
//
// The hosted model requests these tools mid-stream via function calls; the
// assistant resolves them synchronously against an in-memory snapshot of
// the portal datasets and sends the results back. Resolution is pure
// filtering and ranking: it never performs I/O and never fails on an empty
// match set (an empty result list is a valid answer, rendered by the model
// as "nothing found").
//
// Three tools are declared to the provider:
//   - findLocalEvents:   optional interest and date-range filters,
//     sorted ascending by date
//   - findLocalServices: verified listings only, best-rated first, top 3
//   - findLocalProducts: category or name match, dataset order, top 5
//
// Provider-supplied arguments are decoded into tagged variants with fixed,
// validated shapes (see ParseCall) rather than trusted blindly.
package tools
