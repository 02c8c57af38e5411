package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"importexport-hub/internal/model"
)

type memRecord[T any] struct {
	v   T
	seq uint64
}

// MemoryStore keeps everything in process. Used for local runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	seq      uint64
	products map[string]memRecord[model.Product]
	imports  map[string]memRecord[model.Import]
	exports  map[string]memRecord[model.Export]
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]memRecord[model.Product]),
		imports:  make(map[string]memRecord[model.Import]),
		exports:  make(map[string]memRecord[model.Export]),
	}
}

func (s *MemoryStore) Products() ProductRepository { return memoryProducts{s} }
func (s *MemoryStore) Imports() ImportRepository   { return memoryImports{s} }
func (s *MemoryStore) Exports() ExportRepository   { return memoryExports{s} }

func (s *MemoryStore) Ping(ctx context.Context) error  { return nil }
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) next() uint64 {
	s.seq++
	return s.seq
}

// insertProduct must be called with mu held
func (s *MemoryStore) insertProduct(p *model.Product) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	stampProduct(p)
	s.products[p.ID] = memRecord[model.Product]{v: *p, seq: s.next()}
}

func (s *MemoryStore) RecordImport(ctx context.Context, imp *model.Import) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.products[imp.ProductID]
	if !ok {
		return nil, ErrNotFound
	}
	if rec.v.AvailableQuantity < imp.Quantity {
		return nil, ErrInsufficientStock
	}
	rec.v.AvailableQuantity -= imp.Quantity
	rec.v.UpdatedAt = now()
	s.products[imp.ProductID] = rec

	if imp.ID == "" {
		imp.ID = uuid.New().String()
	}
	stampImport(imp)
	s.imports[imp.ID] = memRecord[model.Import]{v: *imp, seq: s.next()}

	p := rec.v
	return &p, nil
}

func (s *MemoryStore) ReverseImport(ctx context.Context, id string) (*model.Import, *model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	irec, ok := s.imports[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	delete(s.imports, id)
	imp := irec.v

	prec, ok := s.products[imp.ProductID]
	if !ok {
		return &imp, nil, nil
	}
	prec.v.AvailableQuantity += imp.Quantity
	prec.v.UpdatedAt = now()
	s.products[imp.ProductID] = prec

	p := prec.v
	return &imp, &p, nil
}

func (s *MemoryStore) CreateExport(ctx context.Context, p *model.Product, e *model.Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertProduct(p)
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.ProductID = p.ID
	stampExport(e)
	s.exports[e.ID] = memRecord[model.Export]{v: *e, seq: s.next()}
	return nil
}

func (s *MemoryStore) DeleteExport(ctx context.Context, e *model.Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exports[e.ID]; !ok {
		return ErrNotFound
	}
	delete(s.products, e.ProductID)
	delete(s.exports, e.ID)
	return nil
}

type memoryProducts struct{ s *MemoryStore }

func (r memoryProducts) List(ctx context.Context, limit int) ([]model.Product, error) {
	r.s.mu.RLock()
	recs := make([]memRecord[model.Product], 0, len(r.s.products))
	for _, rec := range r.s.products {
		recs = append(recs, rec)
	}
	r.s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].v.CreatedAt.Equal(recs[j].v.CreatedAt) {
			return recs[i].v.CreatedAt.After(recs[j].v.CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}

	products := make([]model.Product, 0, len(recs))
	for _, rec := range recs {
		products = append(products, rec.v)
	}
	return products, nil
}

func (r memoryProducts) Get(ctx context.Context, id string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := rec.v
	return &p, nil
}

func (r memoryProducts) GetMany(ctx context.Context, ids []string) (map[string]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := make(map[string]model.Product, len(ids))
	for _, id := range ids {
		if rec, ok := r.s.products[id]; ok {
			found[id] = rec.v
		}
	}
	return found, nil
}

func (r memoryProducts) Create(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.insertProduct(p)
	return nil
}

func (r memoryProducts) Update(ctx context.Context, id string, ch ProductChanges) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	ch.apply(&rec.v)
	rec.v.UpdatedAt = now()
	r.s.products[id] = rec
	p := rec.v
	return &p, nil
}

func (r memoryProducts) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r memoryProducts) Replace(ctx context.Context, products []model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.products = make(map[string]memRecord[model.Product], len(products))
	for i := range products {
		r.s.insertProduct(&products[i])
	}
	return nil
}

type memoryImports struct{ s *MemoryStore }

func (r memoryImports) list(match func(model.Import) bool) []model.Import {
	r.s.mu.RLock()
	recs := make([]memRecord[model.Import], 0)
	for _, rec := range r.s.imports {
		if match(rec.v) {
			recs = append(recs, rec)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].v.ImportedAt.Equal(recs[j].v.ImportedAt) {
			return recs[i].v.ImportedAt.After(recs[j].v.ImportedAt)
		}
		return recs[i].seq > recs[j].seq
	})
	imports := make([]model.Import, 0, len(recs))
	for _, rec := range recs {
		imports = append(imports, rec.v)
	}
	return imports
}

func (r memoryImports) ListByUser(ctx context.Context, userID string) ([]model.Import, error) {
	return r.list(func(imp model.Import) bool { return imp.UserID == userID }), nil
}

func (r memoryImports) ListAll(ctx context.Context) ([]model.Import, error) {
	return r.list(func(model.Import) bool { return true }), nil
}

func (r memoryImports) Get(ctx context.Context, id string) (*model.Import, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.imports[id]
	if !ok {
		return nil, ErrNotFound
	}
	imp := rec.v
	return &imp, nil
}

func (r memoryImports) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := r.s.imports[id]; ok {
			delete(r.s.imports, id)
			n++
		}
	}
	return n, nil
}

type memoryExports struct{ s *MemoryStore }

func (r memoryExports) ListByUser(ctx context.Context, userID string) ([]model.Export, error) {
	r.s.mu.RLock()
	recs := make([]memRecord[model.Export], 0)
	for _, rec := range r.s.exports {
		if rec.v.UserID == userID {
			recs = append(recs, rec)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].v.CreatedAt.Equal(recs[j].v.CreatedAt) {
			return recs[i].v.CreatedAt.After(recs[j].v.CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})
	exports := make([]model.Export, 0, len(recs))
	for _, rec := range recs {
		exports = append(exports, rec.v)
	}
	return exports, nil
}

func (r memoryExports) Get(ctx context.Context, id string) (*model.Export, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.exports[id]
	if !ok {
		return nil, ErrNotFound
	}
	e := rec.v
	return &e, nil
}

func (r memoryExports) Touch(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.exports[id]
	if !ok {
		return ErrNotFound
	}
	rec.v.UpdatedAt = at
	r.s.exports[id] = rec
	return nil
}
