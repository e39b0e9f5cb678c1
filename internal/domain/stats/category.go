// Package stats derives a fixed set of category scores from a name.
//
// The same name always yields the same StatSet: the name is hashed with MD5,
// the digest, read as a big-endian integer and split into little-endian
// 32-bit words, seeds a Mersenne Twister through init_by_array, and six
// scores in [0, 100] are drawn in category order.
package stats

// Category names a scored attribute. Only the six constants below exist.
type Category string

// Scored categories, in draw order. SaranTeks and SaranTeksSpaced are
// distinct categories even though their labels differ only by separator.
const (
	Karbit          Category = "KARBIT"
	Gay             Category = "GAY"
	Sepuh           Category = "SEPUH"
	Cerdas          Category = "CERDAS"
	SaranTeks       Category = "SARAN_TEKS"
	SaranTeksSpaced Category = "SARAN TEKS"
)

// NumCategories is the number of scored categories.
const NumCategories = 6

var categories = [NumCategories]Category{
	Karbit,
	Gay,
	Sepuh,
	Cerdas,
	SaranTeks,
	SaranTeksSpaced,
}

// Categories returns the categories in draw order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	copy(out, categories[:])
	return out
}

// ParseCategory returns the category whose label equals s exactly.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// index returns the position of c in draw order, or -1.
func (c Category) index() int {
	for i, k := range categories {
		if k == c {
			return i
		}
	}
	return -1
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }
