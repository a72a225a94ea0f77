package types

// Category is the denormalized catalog category pair captured at add-time.
type Category struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}
