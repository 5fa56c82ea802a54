package ports

import "context"

// Renderer composites raw artwork into a finished card image. Pure
// function of its inputs; holds no state.
type Renderer interface {
	// RenderCard returns the finished PNG for a card of the given kind.
	RenderCard(ctx context.Context, name string, art []byte, kind string) ([]byte, error)
}
