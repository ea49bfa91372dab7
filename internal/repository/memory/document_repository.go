package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/YasasBanuka/document-insight-backend/internal/entity"
	"github.com/YasasBanuka/document-insight-backend/internal/repository/specification"
)

type documentRepository struct {
	store *Store
}

type documentQuery struct {
	filters []func(*entity.Document) bool
	order   *specification.OrderBy
	page    *specification.Pagination
}

func parseDocumentSpecs(specs []specification.Specification) documentQuery {
	var q documentQuery
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			id := sp.ID
			q.filters = append(q.filters, func(d *entity.Document) bool { return d.Id == id })
		case specification.OwnedByUser:
			userID := sp.UserID
			q.filters = append(q.filters, func(d *entity.Document) bool { return d.UserId == userID })
		case specification.OrderBy:
			o := sp
			q.order = &o
		case specification.Pagination:
			p := sp
			q.page = &p
		}
	}
	return q
}

func (q documentQuery) matches(d *entity.Document) bool {
	for _, f := range q.filters {
		if !f(d) {
			return false
		}
	}
	return true
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if doc.Id == uuid.Nil {
		doc.Id = uuid.New()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	copied := *doc
	r.store.documents[doc.Id] = &copied
	return nil
}

func (r *documentRepository) Update(ctx context.Context, doc *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	doc.UpdatedAt = &now
	copied := *doc
	r.store.documents[doc.Id] = &copied
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.documents, id)
	return nil
}

func (r *documentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	docs, err := r.FindAll(ctx, specs...)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (r *documentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	q := parseDocumentSpecs(specs)

	var docs []*entity.Document
	for _, d := range r.store.documents {
		if q.matches(d) {
			copied := *d
			docs = append(docs, &copied)
		}
	}

	desc := q.order != nil && q.order.Desc
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].Id.String() < docs[j].Id.String()
		}
		if desc {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})

	if q.page != nil {
		docs = paginateDocuments(docs, q.page.Offset, q.page.Limit)
	}
	return docs, nil
}

func (r *documentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	docs, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func paginateDocuments(docs []*entity.Document, offset, limit int) []*entity.Document {
	if offset >= len(docs) {
		return nil
	}
	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return docs[offset:end]
}
