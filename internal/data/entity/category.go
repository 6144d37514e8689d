package entity

type Category struct {
	Immutable
	Name string `db:"name"`
}

// Resolution says whether a category lookup found or created the row.
type Resolution int

const (
	CategoryFound Resolution = iota
	CategoryCreated
)

func (r Resolution) String() string {
	if r == CategoryCreated {
		return "created"
	}
	return "found"
}
