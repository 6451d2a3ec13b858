package ports

import "github.com/aretw0/turtle/pkg/domain"

// Tessellator converts primitives into renderable meshes. For fills it
// receives every contour of the bracket and the fill rule, and is
// responsible for hole detection and for ignoring degenerate contours.
// The engine treats the returned mesh as an unexamined payload.
type Tessellator interface {
	Tessellate(p domain.Primitive) (domain.Mesh, error)
}

// TessellatorFunc adapts a function to the Tessellator interface.
type TessellatorFunc func(domain.Primitive) (domain.Mesh, error)

// Tessellate calls f(p).
func (f TessellatorFunc) Tessellate(p domain.Primitive) (domain.Mesh, error) {
	return f(p)
}

// PassThrough is a Tessellator that wraps the primitive itself as the mesh.
var PassThrough = TessellatorFunc(func(p domain.Primitive) (domain.Mesh, error) {
	return domain.Mesh{Payload: p}, nil
})
