// Package catalog implements the write path for stores and products.
//
// Product writes compute the description embedding inline so the catalog is
// searchable right after a save. An embedding failure does not block the
// save: the product lands without a vector and the reembed batch picks it
// up later.
package catalog
