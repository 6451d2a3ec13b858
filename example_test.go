package turtle_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/turtle"
	"github.com/aretw0/turtle/pkg/domain"
	"github.com/aretw0/turtle/pkg/dsl"
)

// ExampleWorld_Draw draws a filled square instantly and reads the result
// from the snapshot.
func ExampleWorld_Draw() {
	w := turtle.New()

	plan := dsl.New().
		Instant().
		FillColorName("gold").
		Fill(func(b *dsl.Builder) {
			b.Repeat(4, func(_ int, b *dsl.Builder) {
				b.Forward(100).Right(90)
			})
		}).
		MustBuild()

	id, err := w.Spawn(plan)
	if err != nil {
		log.Fatal(err)
	}
	frames, err := w.Draw(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	t, _ := w.Snapshot().Turtle(id)
	fmt.Println("frames:", frames)
	fmt.Println("status:", t.Status)
	fmt.Println("back at origin:", t.State.Position.Dist(domain.Pt(0, 0)) < 1e-9)
	// Output:
	// frames: 1
	// status: done
	// back at origin: true
}
