// Package types defines the product model entities: product component
// types and their properties, product components with their generations,
// property values, value holders, value sets, links, the project index,
// validation messages, and the standard error values.
//
// Entity methods modify structs in memory only. Resolution of template
// values lives in internal/template, delta computation in internal/delta.
package types
