/*
Package registry manages the set of live turtles.

A Registry owns one animation controller per turtle, keyed by a stable
domain.TurtleID that is independent of storage position. It is driven by a
single frame thread:

	reg := registry.New()
	id := reg.Create()
	_ = reg.Append(id, plan)
	for !reg.Idle() {
		reg.Step(time.Second / 60)
	}

Producers on other goroutines submit batches through the Inbox (or a Sender
bound to one turtle). Batches are applied at the start of the next frame, in
submission order.
*/
package registry
