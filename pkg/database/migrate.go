package database

import (
	"go-pos-core/internal/model"

	"gorm.io/gorm"
)

// Models lists every table in dependency order.
var Models = []interface{}{
	&model.Account{},
	&model.Product{},
	&model.Sale{},
	&model.SaleLine{},
	&model.StockAdjustment{},
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
