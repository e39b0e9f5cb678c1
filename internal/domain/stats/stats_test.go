package stats_test

import (
	"testing"

	"github.com/okian/radar/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given the stat generator", t, func() {
		Convey("When generating for known names", func() {
			cases := map[string][]int{
				"Alice":        {4, 14, 9, 5, 60, 28},
				"":             {100, 18, 79, 49, 39, 24},
				"Budi":         {95, 83, 27, 35, 69, 5},
				"Ólafur":       {86, 18, 70, 78, 73, 40},
				"KARBIT":       {83, 50, 45, 70, 38, 29},
				"Sepuh Master": {16, 27, 23, 47, 59, 29},
			}

			Convey("Then the scores match the reference stream", func() {
				for name, want := range cases {
					So(stats.Generate(name).Values(), ShouldResemble, want)
				}
			})
		})

		Convey("When generating twice for the same name", func() {
			a := stats.Generate("Rudi")
			b := stats.Generate("Rudi")

			Convey("Then both sets are identical", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When names differ only by case or whitespace", func() {
			Convey("Then the scores differ", func() {
				So(stats.Generate("alice").Values(), ShouldResemble, []int{24, 68, 72, 42, 4, 77})
				So(stats.Generate("Alice ").Values(), ShouldResemble, []int{19, 42, 42, 9, 38, 70})
				So(stats.Generate("alice"), ShouldNotResemble, stats.Generate("Alice"))
			})
		})

		Convey("When generating for many names", func() {
			Convey("Then every set has all six categories within bounds", func() {
				for _, name := range []string{"a", "b", "Joko Widodo", "  ", "名前", "x\x00y"} {
					scores := stats.Generate(name).Scores()
					So(scores, ShouldHaveLength, stats.NumCategories)
					for i, s := range scores {
						So(s.Category, ShouldEqual, stats.Categories()[i])
						So(s.Value, ShouldBeBetweenOrEqual, 0, stats.MaxScore)
					}
				}
			})
		})
	})
}

func TestDigest(t *testing.T) {
	Convey("Given names to digest", t, func() {
		Convey("Then the digest is the hex md5 of the UTF-8 bytes", func() {
			So(stats.Digest("Alice"), ShouldEqual, "64489c85dc2fe0787b85cd87214b3810")
			So(stats.Digest(""), ShouldEqual, "d41d8cd98f00b204e9800998ecf8427e")
			So(stats.Digest("Ólafur"), ShouldEqual, "955ee9065fb7c8d6eaea59cbd348c911")
		})
	})
}

func TestCategories(t *testing.T) {
	Convey("Given the category list", t, func() {
		cats := stats.Categories()

		Convey("Then it is in draw order", func() {
			So(cats, ShouldResemble, []stats.Category{
				stats.Karbit, stats.Gay, stats.Sepuh, stats.Cerdas, stats.SaranTeks, stats.SaranTeksSpaced,
			})
		})

		Convey("And mutating the returned slice does not leak", func() {
			cats[0] = "NOPE"
			So(stats.Categories()[0], ShouldEqual, stats.Karbit)
		})

		Convey("And near-duplicate labels parse to distinct categories", func() {
			a, err := stats.ParseCategory("SARAN_TEKS")
			So(err, ShouldBeNil)
			b, err := stats.ParseCategory("SARAN TEKS")
			So(err, ShouldBeNil)
			So(a, ShouldNotEqual, b)
		})

		Convey("And unknown labels are rejected without normalization", func() {
			_, err := stats.ParseCategory("karbit")
			So(err, ShouldEqual, stats.ErrUnknownCategory)
			_, err = stats.ParseCategory("SARAN-TEKS")
			So(err, ShouldEqual, stats.ErrUnknownCategory)
		})
	})
}

func TestStatSet(t *testing.T) {
	Convey("Given a StatSet built from values", t, func() {
		s := stats.FromValues(10, -5, 150, 40)

		Convey("Then values are clamped and missing ones are zero", func() {
			So(s.Values(), ShouldResemble, []int{10, 0, 100, 40, 0, 0})
		})

		Convey("And lookups work by category", func() {
			v, ok := s.Get(stats.Sepuh)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 100)

			_, ok = s.Get(stats.Category("OTHER"))
			So(ok, ShouldBeFalse)
		})

		Convey("And the map view has exactly six keys", func() {
			m := s.Map()
			So(m, ShouldHaveLength, stats.NumCategories)
			So(m["SARAN_TEKS"], ShouldEqual, 0)
			So(m["CERDAS"], ShouldEqual, 40)
		})
	})
}
