package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/maven/internal/adapters/embedding"
	"github.com/okian/maven/internal/adapters/extraction"
	"github.com/okian/maven/internal/adapters/roster"
	app "github.com/okian/maven/internal/app"
	"github.com/okian/maven/internal/domain/model"
	"github.com/okian/maven/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testRoster() *roster.MemStore {
	return roster.NewMemStore(roster.WithExperts([]model.ExpertProfile{
		{
			ID:         "alice",
			Department: "Department of Computer Science",
			Position:   "Professor",
			ScholarID:  "AAA111",
			Tags:       []string{"machine learning", "optimization"},
		},
		{
			ID:         "bob",
			Department: "Materials Engineering",
			Position:   "Associate Professor",
			Tags:       []string{"optimization", "catalysis"},
		},
		{
			ID:         "carol",
			Department: "Department of Chemistry",
			Position:   "Professor",
			Tags:       []string{"catalysis"},
		},
	}))
}

func startService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()
	store := testRoster()
	base := []app.Option{
		app.WithRoster(store),
		app.WithExtractor(extraction.NewKeyword(store.Snapshot(context.Background()).AllTags())),
		app.WithEmbedder(embedding.NewStatic(64)),
		app.WithWorkerCount(4),
	}
	svc := app.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_Match(t *testing.T) {
	Convey("Given a started service over a small roster", t, func() {
		svc := startService(t)
		ctx := context.Background()

		Convey("When matching a problem that names roster tags", func() {
			result, err := svc.Match(ctx, "We need machine learning and catalysis expertise for a pilot plant.")

			Convey("Then the extraction should surface the mentioned tags", func() {
				So(err, ShouldBeNil)
				So(result.Tags, ShouldResemble, []string{"machine learning", "catalysis"})
				So(result.SessionID, ShouldNotBeEmpty)
				So(result.SemanticDegraded, ShouldBeFalse)
			})

			Convey("And the individual list should be complete and ordered", func() {
				So(err, ShouldBeNil)
				So(result.Individual, ShouldHaveLength, 3)
				for i, e := range result.Individual {
					So(e.Rank, ShouldEqual, i+1)
					So(e.Semantic, ShouldBeBetweenOrEqual, 0, 100)
					So(e.Weighted, ShouldBeBetweenOrEqual, 0, 100)
					if i > 0 {
						So(result.Individual[i-1].Score, ShouldBeGreaterThanOrEqualTo, e.Score)
					}
				}
			})

			Convey("And the team should cover every requested tag exactly once", func() {
				So(err, ShouldBeNil)
				So(result.NotFoundTags, ShouldBeEmpty)
				covered := make(map[string]int)
				for _, m := range result.Team {
					So(m.Tags, ShouldNotBeEmpty)
					for _, tag := range m.Tags {
						covered[tag]++
					}
				}
				for _, tag := range result.Tags {
					So(covered[tag], ShouldEqual, 1)
				}
			})

			Convey("And the scholar link should be denormalized onto rows", func() {
				So(err, ShouldBeNil)
				for _, e := range result.Individual {
					if e.ID == "alice" {
						So(e.ScholarURL, ShouldContainSubstring, "AAA111")
					}
				}
			})
		})

		Convey("When matching a problem no extraction can handle", func() {
			_, err := svc.Match(ctx, "Entirely unrelated prose about gardening.")

			Convey("Then the request should fail outright", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, extraction.ErrExtraction), ShouldBeTrue)
			})
		})

		Convey("When the result cap is configured", func() {
			capped := startService(t, app.WithMaxResults(1))
			result, err := capped.Match(ctx, "optimization challenges")

			Convey("Then only the top expert should be listed", func() {
				So(err, ShouldBeNil)
				So(result.Individual, ShouldHaveLength, 1)
				So(result.Individual[0].Rank, ShouldEqual, 1)
			})
		})
	})
}

func TestService_Degradation(t *testing.T) {
	Convey("Given a service without an embedding provider", t, func() {
		ctx := context.Background()
		store := testRoster()
		bare := app.New(
			app.WithRoster(store),
			app.WithExtractor(extraction.NewKeyword(store.Snapshot(ctx).AllTags())),
		)
		So(bare.Start(ctx), ShouldBeNil)
		defer bare.Stop()

		Convey("When matching", func() {
			result, err := bare.Match(ctx, "catalysis and optimization questions")

			Convey("Then the request should degrade to tag overlap only", func() {
				So(err, ShouldBeNil)
				So(result.SemanticDegraded, ShouldBeTrue)
				So(result.Individual, ShouldNotBeEmpty)
				for _, e := range result.Individual {
					So(e.Semantic, ShouldEqual, 0)
				}
			})
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a match that created a session", t, func() {
		svc := startService(t)
		ctx := context.Background()

		result, err := svc.Match(ctx, "We study optimization and catalysis.")
		So(err, ShouldBeNil)

		Convey("When fetching the team view", func() {
			view, err := svc.Team(ctx, result.SessionID)

			Convey("Then it should mirror the match result", func() {
				So(err, ShouldBeNil)
				So(view.SessionID, ShouldEqual, result.SessionID)
				So(view.Members, ShouldResemble, result.Team)
			})
		})

		Convey("When fetching an unknown session", func() {
			_, err := svc.Team(ctx, "nope")
			So(errors.Is(err, app.ErrSessionNotFound), ShouldBeTrue)
		})

		Convey("When reassigning a held tag to a declaring expert", func() {
			// optimization is held by one of alice/bob; both declare it.
			var from, to string
			for _, m := range result.Team {
				for _, tag := range m.Tags {
					if tag == "optimization" {
						from = m.ID
					}
				}
			}
			if from == "alice" {
				to = "bob"
			} else {
				to = "alice"
			}

			res, err := svc.Reassign(ctx, result.SessionID, []string{"optimization"}, from, to)

			Convey("Then the move should apply and update the view", func() {
				So(err, ShouldBeNil)
				So(res.Applied, ShouldBeTrue)
				So(res.Moved, ShouldResemble, []string{"optimization"})

				view, err := svc.Team(ctx, result.SessionID)
				So(err, ShouldBeNil)
				found := false
				for _, m := range view.Members {
					for _, tag := range m.Tags {
						if tag == "optimization" {
							So(m.ID, ShouldEqual, to)
							found = true
						}
					}
				}
				So(found, ShouldBeTrue)
			})

			Convey("And replaying the move should be rejected without change", func() {
				So(err, ShouldBeNil)
				again, err := svc.Reassign(ctx, result.SessionID, []string{"optimization"}, from, to)
				So(err, ShouldBeNil)
				So(again.Applied, ShouldBeFalse)
				So(again.Members, ShouldResemble, res.Members)
			})
		})

		Convey("When reassigning with an unknown expert", func() {
			_, err := svc.Reassign(ctx, result.SessionID, nil, "ghost", "alice")
			So(err, ShouldNotBeNil)
		})

		Convey("When the session cap is exceeded", func() {
			small := startService(t, app.WithMaxSessions(1))
			first, err := small.Match(ctx, "optimization work")
			So(err, ShouldBeNil)
			_, err = small.Match(ctx, "catalysis work")
			So(err, ShouldBeNil)

			Convey("Then the oldest session should be evicted", func() {
				_, err := small.Team(ctx, first.SessionID)
				So(errors.Is(err, app.ErrSessionNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Maintenance(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t)
		ctx := context.Background()

		Convey("When listing all tags", func() {
			tags, err := svc.AllTags(ctx)

			Convey("Then the roster vocabulary should come back sorted", func() {
				So(err, ShouldBeNil)
				So(tags, ShouldResemble, []string{"catalysis", "machine learning", "optimization"})
			})
		})

		Convey("When invalidating a known expert", func() {
			So(svc.InvalidateExpert(ctx, "alice"), ShouldBeNil)
		})

		Convey("When invalidating an unknown expert", func() {
			err := svc.InvalidateExpert(ctx, "ghost")
			So(errors.Is(err, roster.ErrNotFound), ShouldBeTrue)
		})

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then the service state should be reported", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["rosterSize"], ShouldEqual, 3)
				So(stats["workerCount"], ShouldEqual, 4)
			})
		})
	})
}
