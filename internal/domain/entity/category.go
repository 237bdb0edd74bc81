package entity

// Category is static reference data, read-only from the API.
type Category struct {
	ID   int64
	Name string
}
