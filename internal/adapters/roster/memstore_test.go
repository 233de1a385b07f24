package roster_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/maven/internal/adapters/roster"
	"github.com/okian/maven/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleRoster = `
experts:
  - id: alice
    department: Department of Computer Science
    position: Professor
    profile_url: https://example.edu/alice
    scholar_id: AAA111
    tags:
      - machine learning
      - optimization
  - id: bob
    department: Materials Engineering
    position: Associate Professor
    tags:
      - Optimization
      - catalysis
  - id: silent
    department: Administration
    position: Dean
`

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMemStore_LoadFile(t *testing.T) {
	Convey("Given a YAML roster document", t, func() {
		ctx := context.Background()
		store := roster.NewMemStore()

		Convey("When loading a valid roster", func() {
			err := store.LoadFile(ctx, writeRoster(t, sampleRoster))
			So(err, ShouldBeNil)
			snap := store.Snapshot(ctx)

			Convey("Then tagged experts should be available", func() {
				So(snap.Len(), ShouldEqual, 2)
				p, ok := snap.Get("alice")
				So(ok, ShouldBeTrue)
				So(p.Department, ShouldEqual, "Department of Computer Science")
				So(p.ScholarURL(), ShouldContainSubstring, "AAA111")
			})

			Convey("And experts without tags should be skipped", func() {
				_, ok := snap.Get("silent")
				So(ok, ShouldBeFalse)
			})

			Convey("And the tag list should be unique, sorted, and case-folded", func() {
				// "optimization" and "Optimization" collapse to one entry
				// keeping the first spelling seen.
				So(snap.AllTags(), ShouldResemble, []string{"catalysis", "machine learning", "optimization"})
			})

			Convey("And the tag index should resolve declaring experts", func() {
				So(snap.IDsWithTag("OPTIMIZATION"), ShouldResemble, []string{"alice", "bob"})
			})
		})

		Convey("When the file does not exist", func() {
			err := store.LoadFile(ctx, "/nonexistent/roster.yaml")

			Convey("Then it should report a load error", func() {
				So(errors.Is(err, roster.ErrLoadRoster), ShouldBeTrue)
			})
		})

		Convey("When the document is not valid YAML", func() {
			err := store.LoadFile(ctx, writeRoster(t, "experts: [broken"))

			Convey("Then it should report an invalid roster", func() {
				So(errors.Is(err, roster.ErrInvalidRoster), ShouldBeTrue)
			})
		})

		Convey("When an expert has no id", func() {
			err := store.LoadFile(ctx, writeRoster(t, "experts:\n  - tags: [x]\n"))
			So(errors.Is(err, roster.ErrInvalidRoster), ShouldBeTrue)
		})

		Convey("When two experts share an id", func() {
			doc := "experts:\n  - id: dup\n    tags: [x]\n  - id: dup\n    tags: [y]\n"
			err := store.LoadFile(ctx, writeRoster(t, doc))
			So(errors.Is(err, roster.ErrInvalidRoster), ShouldBeTrue)
		})
	})
}

func TestMemStore_Access(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		ctx := context.Background()
		store := roster.NewMemStore(roster.WithExperts([]model.ExpertProfile{
			{ID: "e1", Tags: []string{"ml"}},
			{ID: "e2", Tags: []string{"robotics"}},
		}))

		Convey("When listing", func() {
			experts, err := store.List(ctx)
			So(err, ShouldBeNil)
			So(experts, ShouldHaveLength, 2)
			So(experts[0].ID, ShouldEqual, "e1")
		})

		Convey("When getting a known expert", func() {
			p, err := store.Get(ctx, "e2")
			So(err, ShouldBeNil)
			So(p.Tags, ShouldResemble, []string{"robotics"})
		})

		Convey("When getting an unknown expert", func() {
			_, err := store.Get(ctx, "ghost")
			So(errors.Is(err, roster.ErrNotFound), ShouldBeTrue)
		})

		Convey("When replacing the roster", func() {
			old := store.Snapshot(ctx)
			store.Replace(ctx, []model.ExpertProfile{{ID: "e3", Tags: []string{"imaging"}}})

			Convey("Then the old snapshot should stay intact", func() {
				So(old.Len(), ShouldEqual, 2)
				So(store.Snapshot(ctx).Len(), ShouldEqual, 1)
			})
		})
	})
}
