package service

import (
	"fmt"

	"gorm.io/gorm"
)

const displayOrder = "sort_order asc, id asc"

// nextSortOrder returns max(sort_order)+1 for the rows matched by scope.
func nextSortOrder(tx *gorm.DB, model interface{}, scope func(*gorm.DB) *gorm.DB) (int, error) {
	query := tx.Model(model)
	if scope != nil {
		query = scope(query)
	}
	var maxOrder int
	if err := query.Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder).Error; err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	return maxOrder + 1, nil
}

// reorder assigns sort_order = position+1 to ids in one transaction.
// Unknown ids make the whole reorder fail with notFound.
func reorder(gdb *gorm.DB, model interface{}, ids []uint, notFound error) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(model).Where("id = ?", id).Update("sort_order", i+1)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: id %d", notFound, id)
			}
		}
		return nil
	})
}
