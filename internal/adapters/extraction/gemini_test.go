package extraction

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeGenerator returns a canned model response.
type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) generate(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

const validResponse = `{
  "required_tags": ["machine learning", "optimization"],
  "key_domains": {"Computer Science": 0.9, "Mathematics": 0.4},
  "tag_domains": {"machine learning": "Computer Science", "optimization": "Mathematics"},
  "explanation": "Apply learned models with optimization techniques."
}`

func TestGeminiExtractor_Extract(t *testing.T) {
	Convey("Given an extractor with a fake model backend", t, func() {
		ctx := context.Background()

		Convey("When the model returns clean JSON", func() {
			e := &GeminiExtractor{generator: &fakeGenerator{response: validResponse}}
			res, err := e.Extract(ctx, "We need ML expertise")

			Convey("Then the result should be parsed", func() {
				So(err, ShouldBeNil)
				So(res.RequiredTags, ShouldResemble, []string{"machine learning", "optimization"})
				So(res.DomainWeights["Computer Science"], ShouldEqual, 0.9)
				So(res.TagDomains["optimization"], ShouldEqual, "Mathematics")
				So(res.Explanation, ShouldNotBeEmpty)
			})
		})

		Convey("When the model wraps the JSON in a code fence", func() {
			e := &GeminiExtractor{generator: &fakeGenerator{response: "```json\n" + validResponse + "\n```"}}
			res, err := e.Extract(ctx, "We need ML expertise")

			Convey("Then the fence should be stripped", func() {
				So(err, ShouldBeNil)
				So(res.RequiredTags, ShouldHaveLength, 2)
			})
		})

		Convey("When the problem statement is empty", func() {
			e := &GeminiExtractor{generator: &fakeGenerator{response: validResponse}}
			_, err := e.Extract(ctx, "   ")

			Convey("Then it should reject before calling the model", func() {
				So(errors.Is(err, ErrEmptyProblem), ShouldBeTrue)
			})
		})

		Convey("When the model call fails", func() {
			e := &GeminiExtractor{generator: &fakeGenerator{err: errors.New("quota exceeded")}}
			_, err := e.Extract(ctx, "problem")

			Convey("Then the extraction error should be request-fatal", func() {
				So(errors.Is(err, ErrExtraction), ShouldBeTrue)
			})
		})

		Convey("When the model returns garbage", func() {
			e := &GeminiExtractor{generator: &fakeGenerator{response: "sorry, I cannot help"}}
			_, err := e.Extract(ctx, "problem")
			So(errors.Is(err, ErrExtraction), ShouldBeTrue)
		})

		Convey("When the response has no usable tags", func() {
			e := &GeminiExtractor{generator: &fakeGenerator{response: `{"required_tags": ["", "  "]}`}}
			_, err := e.Extract(ctx, "problem")
			So(errors.Is(err, ErrExtraction), ShouldBeTrue)
		})

		Convey("When the response carries non-positive domain weights", func() {
			resp := `{"required_tags": ["ml"], "key_domains": {"Good": 0.5, "Bad": 0, "Worse": -1}}`
			e := &GeminiExtractor{generator: &fakeGenerator{response: resp}}
			res, err := e.Extract(ctx, "problem")

			Convey("Then invalid weights should be dropped", func() {
				So(err, ShouldBeNil)
				So(res.DomainWeights, ShouldResemble, map[string]float64{"Good": 0.5})
			})
		})
	})
}

func TestSanitizeTags(t *testing.T) {
	Convey("Given raw tag lists from the model", t, func() {
		Convey("When tags carry whitespace, blanks, and duplicates", func() {
			got := sanitizeTags([]string{" ml ", "", "ML", "optimization", "  "})

			Convey("Then they should be cleaned preserving order", func() {
				So(got, ShouldResemble, []string{"ml", "optimization"})
			})
		})

		Convey("When the model over-delivers", func() {
			many := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
			got := sanitizeTags(many)

			Convey("Then the list should be capped", func() {
				So(got, ShouldHaveLength, maxRequiredTags)
				So(got[0], ShouldEqual, "a")
			})
		})
	})
}

func TestExtractJSON(t *testing.T) {
	Convey("Given model responses with assorted formatting", t, func() {
		Convey("Plain JSON should pass through", func() {
			So(extractJSON(`{"a":1}`), ShouldEqual, `{"a":1}`)
		})

		Convey("Fenced JSON should be unwrapped", func() {
			So(extractJSON("```json\n{\"a\":1}\n```"), ShouldEqual, `{"a":1}`)
			So(extractJSON("```\n{\"a\":1}\n```"), ShouldEqual, `{"a":1}`)
		})

		Convey("Stray backticks should be trimmed", func() {
			So(extractJSON("`{\"a\":1}`"), ShouldEqual, `{"a":1}`)
		})
	})
}
