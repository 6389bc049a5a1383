package dogs

import "time"

// Size define el tamaño del perro.
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	default:
		return false
	}
}

// Dog pertenece a un único owner.
type Dog struct {
	ID       string
	OwnerID  string
	Name     string
	Size     Size
	ImageURL string

	CreatedAt time.Time
}
