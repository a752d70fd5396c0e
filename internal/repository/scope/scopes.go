package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// LiveDocuments is for raw joins against documents, where gorm's soft delete
// clause is not added automatically.
func LiveDocuments(db *gorm.DB) *gorm.DB {
	return db.Where("documents.deleted_at IS NULL")
}
