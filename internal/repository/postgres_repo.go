package repository

import (
	"context"

	"stockmaster/internal/model"

	"gorm.io/gorm"
)

// productoRow is the SQL shape of one worksheet row. Posicion keeps sheet
// order; Codigo is indexed but not unique because the sheet does not enforce it.
type productoRow struct {
	ID          uint   `gorm:"primaryKey"`
	Posicion    int    `gorm:"not null;index"`
	Codigo      string `gorm:"index"`
	Nombre      string
	Tipo        string
	Stock       int `gorm:"not null;default:0"`
	Componentes string
	Extra       map[string]string `gorm:"serializer:json"`
	Vacia       bool              `gorm:"not null;default:false"`
}

func (productoRow) TableName() string { return "productos" }

// columnaRow stores the header order of the table.
type columnaRow struct {
	Posicion int `gorm:"primaryKey;autoIncrement:false"`
	Nombre   string
}

func (columnaRow) TableName() string { return "stock_columnas" }

type postgresTablaRepo struct{ db *gorm.DB }

// NewPostgresTablaRepository stores the table in the productos and
// stock_columnas tables. A replace runs inside one transaction.
func NewPostgresTablaRepository(db *gorm.DB) TablaRepository {
	return &postgresTablaRepo{db: db}
}

func (r *postgresTablaRepo) ObtenerTabla(ctx context.Context) (*model.Tabla, error) {
	var cols []columnaRow
	if err := r.db.WithContext(ctx).Order("posicion ASC").Find(&cols).Error; err != nil {
		return nil, leerErr(err)
	}
	var rows []productoRow
	if err := r.db.WithContext(ctx).Order("posicion ASC").Find(&rows).Error; err != nil {
		return nil, leerErr(err)
	}

	t := &model.Tabla{Productos: make([]model.Producto, 0, len(rows))}
	if len(cols) == 0 {
		t.Columnas = append([]string(nil), model.DefaultColumnas...)
	}
	for _, c := range cols {
		t.Columnas = append(t.Columnas, c.Nombre)
	}
	for _, row := range rows {
		t.Productos = append(t.Productos, model.Producto{
			Codigo:      row.Codigo,
			Nombre:      row.Nombre,
			Tipo:        row.Tipo,
			Stock:       max(0, row.Stock),
			Componentes: row.Componentes,
			Extra:       row.Extra,
			Vacia:       row.Vacia,
		})
	}
	return t, nil
}

func (r *postgresTablaRepo) ReemplazarTabla(ctx context.Context, t *model.Tabla) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&productoRow{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&columnaRow{}).Error; err != nil {
			return err
		}

		cols := make([]columnaRow, len(t.Columnas))
		for i, c := range t.Columnas {
			cols[i] = columnaRow{Posicion: i, Nombre: c}
		}
		if len(cols) > 0 {
			if err := tx.Create(&cols).Error; err != nil {
				return err
			}
		}

		rows := make([]productoRow, len(t.Productos))
		for i, p := range t.Productos {
			rows[i] = productoRow{
				Posicion:    i,
				Codigo:      p.Codigo,
				Nombre:      p.Nombre,
				Tipo:        p.Tipo,
				Stock:       p.Stock,
				Componentes: p.Componentes,
				Extra:       p.Extra,
				Vacia:       p.Vacia,
			}
		}
		if len(rows) > 0 {
			return tx.CreateInBatches(&rows, 500).Error
		}
		return nil
	})
	if err != nil {
		return escribirErr(err)
	}
	return nil
}

func (r *postgresTablaRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
