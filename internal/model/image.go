package model

// Image — бинарное содержимое изображения марки; принадлежит не более чем одной записи.
type Image struct {
	ID          string `gorm:"primaryKey"`
	ContentType string
	Data        []byte `gorm:"not null"`
}
