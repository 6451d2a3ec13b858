/*
Package ports defines the driven ports (interfaces) for the turtle engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with different tessellation backends, presentation surfaces and
command producers.

# Key Interfaces

  - Tessellator: Turns a drawable primitive into an opaque mesh payload.
  - Surface: Presents the ordered meshes of one frame.
  - Submitter: Hands command batches to the frame thread from any goroutine.
  - SnapshotSource: Exposes the most recent drawable state to readers.
*/
package ports
