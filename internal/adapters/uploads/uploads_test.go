package uploads

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSecureFilename(t *testing.T) {
	Convey("Given uploaded filenames", t, func() {
		cases := map[string]string{
			"My cool movie.mov":          "My_cool_movie.mov",
			"../../../etc/passwd":        "etc_passwd",
			"i contain cool ümläuts.txt": "i_contain_cool_umlauts.txt",
			"  .hidden ":                 "hidden",
			"名前.png":                     "png",
			"Ólafur (1).JPG":             "Olafur_1.JPG",
			"a\x1cb.png":                 "a_b.png",
			`foo\bar.jpg`:                "foobar.jpg",
			"__init__.py":                "init__.py",
			"照片":                         "",
			"":                           "",
		}

		Convey("Then each is reduced to a flat ASCII name", func() {
			for in, want := range cases {
				So(SecureFilename(in), ShouldEqual, want)
			}
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given no upload dir", t, func() {
		_, err := New("")

		Convey("Then the store is refused", func() {
			So(errors.Is(err, ErrInvalidDir), ShouldBeTrue)
		})
	})
}

func TestStoreSave(t *testing.T) {
	Convey("Given an upload store", t, func() {
		ctx := context.Background()
		dir := filepath.Join(t.TempDir(), "uploads")
		s, err := New(dir, WithMaxBytes(16))
		So(err, ShouldBeNil)

		Convey("When saving a photo", func() {
			name, err := s.Save(ctx, "../me photo.png", strings.NewReader("png-bytes"))

			Convey("Then it lands under the sanitized name", func() {
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "me_photo.png")
				b, err := os.ReadFile(filepath.Join(dir, name))
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, "png-bytes")
			})

			Convey("And a second upload with the same name overwrites it", func() {
				again, err := s.Save(ctx, "me photo.png", strings.NewReader("newer"))
				So(err, ShouldBeNil)
				So(again, ShouldEqual, name)
				b, _ := os.ReadFile(filepath.Join(dir, name))
				So(string(b), ShouldEqual, "newer")
			})
		})

		Convey("When the name sanitizes to nothing", func() {
			name, err := s.Save(ctx, "照片", strings.NewReader("x"))

			Convey("Then a generated name is used", func() {
				So(err, ShouldBeNil)
				So(name, ShouldStartWith, generatedNamePrefix)
				So(len(name), ShouldEqual, len(generatedNamePrefix)+36)
			})
		})

		Convey("When the upload exceeds the size limit", func() {
			_, err := s.Save(ctx, "big.png", bytes.NewReader(make([]byte, 17)))

			Convey("Then it is rejected and nothing is kept", func() {
				So(IsTooLarge(err), ShouldBeTrue)
				_, statErr := os.Stat(filepath.Join(dir, "big.png"))
				So(errors.Is(statErr, os.ErrNotExist), ShouldBeTrue)
				entries, _ := os.ReadDir(dir)
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When the upload is exactly the limit", func() {
			_, err := s.Save(ctx, "edge.png", bytes.NewReader(make([]byte, 16)))

			Convey("Then it is accepted", func() {
				So(err, ShouldBeNil)
				So(s.MaxBytes(), ShouldEqual, int64(16))
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := s.Save(cctx, "x.png", strings.NewReader("x"))

			Convey("Then nothing is saved", func() {
				So(err, ShouldEqual, context.Canceled)
			})
		})
	})

	Convey("Given an empty upload dir", t, func() {
		_, err := New("")

		Convey("Then construction fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
