package tagmatch_test

import (
	"testing"

	"github.com/okian/maven/internal/domain/model"
	"github.com/okian/maven/internal/domain/tagmatch"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBaseWeights(t *testing.T) {
	Convey("Given base weight generation", t, func() {
		Convey("When asking for a single tag", func() {
			w := tagmatch.BaseWeights(1)

			Convey("Then it should carry full weight", func() {
				So(w, ShouldHaveLength, 1)
				So(w[0], ShouldEqual, 1.0)
			})
		})

		Convey("When asking for four tags", func() {
			w := tagmatch.BaseWeights(4)

			Convey("Then weights should descend linearly from 1.0 to 0.7", func() {
				So(w, ShouldHaveLength, 4)
				So(w[0], ShouldEqual, 1.0)
				So(w[1], ShouldAlmostEqual, 0.9, 1e-9)
				So(w[2], ShouldAlmostEqual, 0.8, 1e-9)
				So(w[3], ShouldAlmostEqual, 0.7, 1e-9)
			})
		})

		Convey("When asking for zero tags", func() {
			Convey("Then it should return nil", func() {
				So(tagmatch.BaseWeights(0), ShouldBeNil)
			})
		})
	})
}

func TestMatcher_Score(t *testing.T) {
	Convey("Given a matcher and a query with ordered required tags", t, func() {
		m := tagmatch.New()
		q := &model.ProblemQuery{
			RequiredTags: []string{"machine learning", "optimization"},
		}

		Convey("When an expert declares every required tag", func() {
			score, matching := m.Score(q, []string{"optimization", "machine learning", "robotics"})

			Convey("Then the score should be exactly 100", func() {
				So(score, ShouldAlmostEqual, 100.0, 1e-9)
			})

			Convey("And matching tags should follow the required order", func() {
				So(matching, ShouldResemble, []string{"machine learning", "optimization"})
			})
		})

		Convey("When an expert declares none of the required tags", func() {
			score, matching := m.Score(q, []string{"robotics"})

			Convey("Then the score should be 0 with no matches", func() {
				So(score, ShouldEqual, 0)
				So(matching, ShouldBeNil)
			})
		})

		Convey("When an expert declares only the less important tag", func() {
			score, matching := m.Score(q, []string{"optimization"})

			Convey("Then the score should reflect its lower base weight", func() {
				// base weights 1.0 and 0.7: 0.7 / 1.7 * 100
				So(score, ShouldAlmostEqual, 0.7/1.7*100, 1e-9)
				So(matching, ShouldResemble, []string{"optimization"})
			})
		})

		Convey("When tag casing and whitespace differ", func() {
			score, _ := m.Score(q, []string{"  Machine Learning ", "OPTIMIZATION"})

			Convey("Then matching should be case-insensitive", func() {
				So(score, ShouldAlmostEqual, 100.0, 1e-9)
			})
		})

		Convey("When domains carry different weights", func() {
			q.TagDomains = map[string]string{
				"machine learning": "Computer Science",
				"optimization":     "Mathematics",
			}
			q.DomainWeights = map[string]float64{
				"Computer Science": 0.9,
				"Mathematics":      0.3,
			}

			Convey("Then a tag in a heavier domain should be worth more", func() {
				mlOnly, _ := m.Score(q, []string{"machine learning"})
				optOnly, _ := m.Score(q, []string{"optimization"})
				So(mlOnly, ShouldBeGreaterThan, optOnly)
			})

			Convey("And full coverage should still score 100", func() {
				score, _ := m.Score(q, []string{"machine learning", "optimization"})
				So(score, ShouldAlmostEqual, 100.0, 1e-9)
			})
		})

		Convey("When the query has no required tags", func() {
			empty := &model.ProblemQuery{}
			score, matching := m.Score(empty, []string{"anything"})

			Convey("Then the score should be 0", func() {
				So(score, ShouldEqual, 0)
				So(matching, ShouldBeNil)
			})
		})
	})
}
