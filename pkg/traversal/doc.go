// Package traversal is HelixDB's query execution runtime: the operator
// catalog compiled HelixQL handlers call into (source, mutation, step,
// filter, order/group, search, path, rerank, intersect/exist, map), built
// as a chain of iter.Seq[Item] stages over pkg/storage and pkg/vector.
package traversal
