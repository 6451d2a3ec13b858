/*
Package dsl provides a fluent builder for turtle command plans.

It lets programs describe drawings with chained calls instead of assembling
domain.Command values by hand:

	plan, err := dsl.New().
		FillColorName("gold").
		Fill(func(b *dsl.Builder) {
			b.Repeat(4, func(_ int, b *dsl.Builder) {
				b.Forward(100).Right(90)
			})
		}).
		Build()

The resulting plan is frozen and can be appended to any turtle in a
registry.Registry.
*/
package dsl
