// Package model defines domain types used by the service.
package model

// ItemInput carries the fields of a create request after structural validation.
type ItemInput struct {
	Name        string
	Description *string
	Price       float64
	Quantity    int64
}

// Item represents a stored item. Total is fixed at creation time.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Total       float64 `json:"total"`
}

// NewItem builds the item stored under id for the given input.
func NewItem(id int64, in ItemInput) Item {
	return Item{
		ID:          id,
		Name:        in.Name,
		Description: cloneString(in.Description),
		Price:       in.Price,
		Quantity:    in.Quantity,
		Total:       in.Price * float64(in.Quantity),
	}
}

// Clone returns a copy that shares no pointers with it.
func (it Item) Clone() Item {
	it.Description = cloneString(it.Description)
	return it
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
