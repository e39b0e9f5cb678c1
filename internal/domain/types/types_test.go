package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/radar/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given an Entry", t, func() {
		entry := types.Entry{Name: "Alice", Photo: "alice.png", Category: "SARAN TEKS", Value: 42}

		Convey("When encoding it as JSON", func() {
			b, err := json.Marshal(entry)

			Convey("Then it uses the persisted field names", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"name":"Alice","photo":"alice.png","category":"SARAN TEKS","value":42}`)
			})
		})

		Convey("When decoding a row with unknown fields", func() {
			var got types.Entry
			err := json.Unmarshal([]byte(`{"name":"B","category":"GAY","value":7,"extra":true}`), &got)

			Convey("Then known fields are kept and missing ones are zero", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, types.Entry{Name: "B", Category: "GAY", Value: 7})
			})
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given ordered entries", t, func() {
		entries := []types.Entry{
			{Name: "B", Category: "X", Value: 90},
			{Name: "A", Category: "X", Value: 90},
			{Name: "C", Category: "X", Value: 10},
		}

		Convey("When ranking them", func() {
			ranked := types.Rank(entries)

			Convey("Then positions follow slice order, ties included", func() {
				So(ranked, ShouldHaveLength, 3)
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[1].Rank, ShouldEqual, 2)
				So(ranked[1].Name, ShouldEqual, "A")
				So(ranked[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When ranking nothing", func() {
			Convey("Then the result is empty, not nil", func() {
				So(types.Rank(nil), ShouldNotBeNil)
				So(types.Rank(nil), ShouldBeEmpty)
			})
		})

		Convey("When encoding a ranked entry", func() {
			b, err := json.Marshal(types.Rank(entries[:1])[0])

			Convey("Then the entry fields are flattened", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"rank":1,"name":"B","photo":"","category":"X","value":90}`)
			})
		})
	})
}
