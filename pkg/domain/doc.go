/*
Package domain contains the core value types of the turtle engine.

It defines the closed set of turtle commands, the Plan that sequences them,
the logical TurtleState they mutate, and the drawable primitives handed to a
tessellator. This package is kept pure and free of I/O, following Hexagonal
Architecture principles.

# Key Entities

  - Command: one of Move, Turn, Circle, PenUp, PenDown, SetSpeed, SetStrokeColor,
    SetStrokeWidth, SetFillColor, BeginFill, EndFill, SetVisible, SetShape,
    Teleport or Reset.
  - Plan: an ordered command sequence, frozen once handed to a turtle.
  - TurtleState: position, heading, pen and style of one turtle.
  - Primitive: a line, arc, fill or marker ready for tessellation.
  - TurtleID: a stable identity that survives removal of other turtles.

The drawing frame is screen-like: +X right, +Y down, heading 0 faces +X and
positive turns rotate clockwise on screen.
*/
package domain
