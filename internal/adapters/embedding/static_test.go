package embedding_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/maven/internal/adapters/embedding"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStaticProvider_Embed(t *testing.T) {
	Convey("Given a static embedding provider", t, func() {
		p := embedding.NewStatic(64)
		ctx := context.Background()

		Convey("When embedding the same text twice", func() {
			a, err1 := p.Embed(ctx, "machine learning and optimization")
			b, err2 := p.Embed(ctx, "machine learning and optimization")

			Convey("Then the vectors should be identical and unit length", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(a, ShouldResemble, b)
				So(a, ShouldHaveLength, 64)

				var norm float64
				for _, v := range a {
					norm += v * v
				}
				So(math.Sqrt(norm), ShouldAlmostEqual, 1.0, 1e-9)
			})
		})

		Convey("When texts share vocabulary", func() {
			a, _ := p.Embed(ctx, "optimization methods for catalysis")
			b, _ := p.Embed(ctx, "optimization methods for robotics")
			c, _ := p.Embed(ctx, "medieval poetry analysis")

			dot := func(x, y []float64) float64 {
				var s float64
				for i := range x {
					s += x[i] * y[i]
				}
				return s
			}

			Convey("Then overlapping texts should be closer than disjoint ones", func() {
				So(dot(a, b), ShouldBeGreaterThan, dot(a, c))
			})
		})

		Convey("When casing and punctuation differ", func() {
			a, _ := p.Embed(ctx, "Machine Learning.")
			b, _ := p.Embed(ctx, "machine learning")
			So(a, ShouldResemble, b)
		})

		Convey("When the text is empty", func() {
			_, err := p.Embed(ctx, "   ")
			So(errors.Is(err, embedding.ErrEmptyText), ShouldBeTrue)
		})

		Convey("When the dimension is non-positive", func() {
			Convey("Then the default dimension should apply", func() {
				So(embedding.NewStatic(0).Dim(), ShouldEqual, 256)
			})
		})
	})
}
