package database

type FindOptions struct {
	Limit  int
	Offset int
}

const (
	DefaultLimit  = 50
	DefaultOffset = 0
)
