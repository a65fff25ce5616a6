package repositories

import (
	"context"

	"eac-registry/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// namingSeriesRepository implements NamingSeriesRepository interface
type namingSeriesRepository struct {
	db *gorm.DB
}

// NewNamingSeriesRepository creates a new naming series repository
func NewNamingSeriesRepository(db *gorm.DB) NamingSeriesRepository {
	return &namingSeriesRepository{db: db}
}

// Next increments the (series, year) counter and returns the new value.
// The upsert takes the row lock, so the read in the same transaction sees
// this caller's increment and no other.
func (r *namingSeriesRepository) Next(ctx context.Context, series string, year int) (int, error) {
	var next int
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		row := models.NamingSeriesCounter{Series: series, Year: year, LastNumber: 1}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "series"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_number": gorm.Expr("naming_series_counters.last_number + 1"),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		var counter models.NamingSeriesCounter
		if err := tx.Where("series = ? AND year = ?", series, year).First(&counter).Error; err != nil {
			return err
		}
		next = counter.LastNumber
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
