package implementation

import (
	"context"
	"strings"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/mapper"
	"studyroom-be/internal/model"
	"studyroom-be/internal/repository/contract"
	"studyroom-be/internal/repository/scope"
	"studyroom-be/internal/repository/specification"
	"studyroom-be/pkg/store"
	"studyroom-be/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, document *entity.Document) error {
	m := r.mapper.ToModel(document)
	// Chunks are written through the has-many association in the same statement batch
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Document{}).Count(&count).Error
	return count, err
}

func (r *DocumentRepositoryImpl) FindRecentWithChunks(ctx context.Context, roomId uuid.UUID, limit int) ([]*entity.Document, error) {
	if limit <= 0 {
		limit = 5
	}

	var models []*model.Document
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomId).
		Preload("Chunks", func(db *gorm.DB) *gorm.DB {
			return db.Order("chunk_index ASC")
		}).
		Scopes(scope.OrderByCreatedDesc).
		Order("id ASC"). // stable order for documents uploaded in the same instant
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

// SearchChunks ranks chunks that contain any keyword of the query, using
// Postgres full-text search with the 'simple' dictionary so ranking does not
// depend on the document language. Question words are dropped first, and a
// query without keywords matches nothing.
func (r *DocumentRepositoryImpl) SearchChunks(ctx context.Context, roomId uuid.UUID, query string, limit int) ([]*entity.ScoredDocumentChunk, error) {
	if limit <= 0 {
		limit = 3
	}

	keywords := utils.ExtractKeywords(query)
	if len(keywords) == 0 {
		return []*entity.ScoredDocumentChunk{}, nil
	}
	// keywords are letters and digits only, safe as to_tsquery operands
	tsQuery := strings.Join(keywords, " | ")

	type result struct {
		model.DocumentChunk
		DocumentTitle   string
		DocumentSummary string
		DocumentLead    string
		Rank            float64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, documents.title AS document_title, documents.summary AS document_summary, "+
			"(SELECT LEFT(string_agg(dc.content, ' ' ORDER BY dc.chunk_index), ?) FROM document_chunks dc WHERE dc.document_id = documents.id) AS document_lead, "+
			"ts_rank_cd(to_tsvector('simple', document_chunks.content), to_tsquery('simple', ?)) AS rank", store.LeadChars, tsQuery).
		Joins("JOIN documents ON documents.id = document_chunks.document_id").
		Where("documents.room_id = ?", roomId).
		Scopes(scope.LiveDocuments).
		Where("to_tsvector('simple', document_chunks.content) @@ to_tsquery('simple', ?)", tsQuery).
		Order("rank DESC").
		Order("documents.created_at DESC").
		Order("document_chunks.chunk_index ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredDocumentChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredDocumentChunk{
			Chunk:           r.mapper.ChunkToEntity(&res.DocumentChunk),
			DocumentTitle:   res.DocumentTitle,
			DocumentSummary: res.DocumentSummary,
			DocumentLead:    res.DocumentLead,
			Rank:            res.Rank,
		}
	}
	return scored, nil
}
