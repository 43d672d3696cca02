package entity

import "time"

// Test pack / tag release states. Column and JSON names stay in Spanish:
// they are the wire format the field tooling and existing exports expect.
const (
	TestPackEstadoPendiente = "pendiente"
	TestPackEstadoListo     = "listo"

	TagEstadoPendiente = "pendiente"
	TagEstadoLiberado  = "liberado"
)

// TestPack batches field tags under one ITR.
type TestPack struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	NombrePaquete string    `json:"nombre_paquete" gorm:"column:nombre_paquete;size:128;not null"`
	ITRAsociado   string    `json:"itr_asociado" gorm:"column:itr_asociado;size:128;not null;index"`
	Sistema       string    `json:"sistema" gorm:"column:sistema;size:128;not null"`
	Subsistema    string    `json:"subsistema" gorm:"column:subsistema;size:128;not null"`
	Estado        string    `json:"estado" gorm:"column:estado;size:16;not null;default:pendiente"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Tags []Tag `json:"tags,omitempty" gorm:"foreignKey:TestPackID"`
}

func (TestPack) TableName() string {
	return "test_packs"
}

// Tag is a physical instrument identifier tracked inside a test pack.
type Tag struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	TestPackID      string     `json:"test_pack_id" gorm:"size:36;not null;index"`
	TagName         string     `json:"tag_name" gorm:"size:128;not null"`
	Estado          string     `json:"estado" gorm:"column:estado;size:16;not null;default:pendiente"`
	FechaLiberacion *time.Time `json:"fecha_liberacion" gorm:"column:fecha_liberacion"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Tag) TableName() string {
	return "tags"
}
