package services

// pageWindowRadius is how many page links are shown on each side of the
// current page.
const pageWindowRadius = 4

// Page describes the navigation state of one page in a paginated listing.
type Page struct {
	Number int
	Total  int
	Prev   int // 0 when there is no previous page
	Next   int // 0 when there is no next page
	Window []int
	Offset int
}

// PageCount returns ceil(items/size), or 0 for an empty listing.
func PageCount(items, size int) int {
	if items <= 0 || size <= 0 {
		return 0
	}
	return (items + size - 1) / size
}

// Paginate returns the navigation for page current (1-based) of a listing of
// items split into pages of size. The window holds up to nine page numbers
// centred on current and clipped to [1, total].
func Paginate(items, size, current int) Page {
	total := PageCount(items, size)
	p := Page{Number: current, Total: total, Offset: (current - 1) * size}
	if current > 1 {
		p.Prev = current - 1
	}
	if current < total {
		p.Next = current + 1
	}
	for n := current - pageWindowRadius; n <= current+pageWindowRadius; n++ {
		if n >= 1 && n <= total {
			p.Window = append(p.Window, n)
		}
	}
	return p
}
