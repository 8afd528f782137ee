package traversal

import "github.com/cuemby/helixdb/pkg/herrors"

func errNotANode(op string) error {
	return herrors.Newf(herrors.SchemaViolation, "%s: element is not a node", op)
}

func errNotAnEdge(op string) error {
	return herrors.Newf(herrors.SchemaViolation, "%s: element is not an edge", op)
}

func errNotAVector(op string) error {
	return herrors.Newf(herrors.SchemaViolation, "%s: element is not a vector", op)
}
