package dto

// TableQuery carries the client-side table state: one sort column, one
// free-text filter column, and a page index over a fixed page size.
type TableQuery struct {
	SortBy string
	Desc   bool
	Filter string
	Page   int
}

const TablePageSize = 10
