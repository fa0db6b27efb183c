package models

// Kind is the subject area a video, quiz or catalogue entry belongs to.
type Kind string

const (
	KindAnimal Kind = "animal"
	KindCrop   Kind = "crop"
)

// Valid reports whether k is animal or crop.
func (k Kind) Valid() bool {
	return k == KindAnimal || k == KindCrop
}
