package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"importexport-hub/internal/model"
)

const (
	productsCollection = "products"
	importsCollection  = "imports"
	exportsCollection  = "exports"
)

// Document shapes follow the field names of the existing collections.
type productDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Image             string             `bson:"image"`
	Price             float64            `bson:"price"`
	OriginCountry     string             `bson:"originCountry"`
	Rating            float64            `bson:"rating"`
	AvailableQuantity int                `bson:"availableQuantity"`
	AddedBy           string             `bson:"addedBy,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

type importDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ProductID  primitive.ObjectID `bson:"productId,omitempty"`
	Quantity   int                `bson:"quantity"`
	UserID     string             `bson:"userId,omitempty"`
	ImportedAt time.Time          `bson:"importedAt"`
}

type exportDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProductID primitive.ObjectID `bson:"product,omitempty"`
	UserID    string             `bson:"userId"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func (d productDocument) toModel() model.Product {
	return model.Product{
		ID:                hexOrEmpty(d.ID),
		Name:              d.Name,
		Image:             d.Image,
		Price:             d.Price,
		OriginCountry:     d.OriginCountry,
		Rating:            d.Rating,
		AvailableQuantity: d.AvailableQuantity,
		AddedBy:           d.AddedBy,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func newProductDocument(p *model.Product) productDocument {
	return productDocument{
		Name:              p.Name,
		Image:             p.Image,
		Price:             p.Price,
		OriginCountry:     p.OriginCountry,
		Rating:            p.Rating,
		AvailableQuantity: p.AvailableQuantity,
		AddedBy:           p.AddedBy,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (d importDocument) toModel() model.Import {
	return model.Import{
		ID:         hexOrEmpty(d.ID),
		ProductID:  hexOrEmpty(d.ProductID),
		Quantity:   d.Quantity,
		UserID:     d.UserID,
		ImportedAt: d.ImportedAt,
	}
}

func (d exportDocument) toModel() model.Export {
	return model.Export{
		ID:        hexOrEmpty(d.ID),
		ProductID: hexOrEmpty(d.ProductID),
		UserID:    d.UserID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// objectID parses a hex id; malformed ids cannot match any document
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func translateMongo(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// MongoStore is the document Store backend
type MongoStore struct {
	client   *mongo.Client
	products *mongo.Collection
	imports  *mongo.Collection
	exports  *mongo.Collection
}

// NewMongoStore uses the given database of a connected client
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		products: db.Collection(productsCollection),
		imports:  db.Collection(importsCollection),
		exports:  db.Collection(exportsCollection),
	}
}

// EnsureIndexes creates the indexes backing the list queries
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	if _, err := s.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("products index: %w", err)
	}
	if _, err := s.imports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "importedAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("imports index: %w", err)
	}
	if _, err := s.exports.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "product", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return fmt.Errorf("exports index: %w", err)
	}
	return nil
}

func (s *MongoStore) Products() ProductRepository { return mongoProducts{s.products} }
func (s *MongoStore) Imports() ImportRepository   { return mongoImports{s.imports} }
func (s *MongoStore) Exports() ExportRepository   { return mongoExports{s.exports} }

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) RecordImport(ctx context.Context, imp *model.Import) (*model.Product, error) {
	pid, err := objectID(imp.ProductID)
	if err != nil {
		return nil, err
	}

	// Single guarded update: decrement only while enough stock remains.
	var updated productDocument
	err = s.products.FindOneAndUpdate(ctx,
		bson.M{"_id": pid, "availableQuantity": bson.M{"$gte": imp.Quantity}},
		bson.M{
			"$inc": bson.M{"availableQuantity": -imp.Quantity},
			"$set": bson.M{"updatedAt": now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		count, cerr := s.products.CountDocuments(ctx, bson.M{"_id": pid})
		if cerr != nil {
			return nil, cerr
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrInsufficientStock
	}
	if err != nil {
		return nil, err
	}

	stampImport(imp)
	doc := importDocument{
		ID:         primitive.NewObjectID(),
		ProductID:  pid,
		Quantity:   imp.Quantity,
		UserID:     imp.UserID,
		ImportedAt: imp.ImportedAt,
	}
	if _, err := s.imports.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("stock decremented but import insert failed: %w", err)
	}
	imp.ID = doc.ID.Hex()

	p := updated.toModel()
	return &p, nil
}

func (s *MongoStore) ReverseImport(ctx context.Context, id string) (*model.Import, *model.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, nil, err
	}

	var doc importDocument
	if err := s.imports.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, nil, translateMongo(err)
	}
	imp := doc.toModel()
	if doc.ProductID.IsZero() {
		return &imp, nil, nil
	}

	var updated productDocument
	err = s.products.FindOneAndUpdate(ctx,
		bson.M{"_id": doc.ProductID},
		bson.M{
			"$inc": bson.M{"availableQuantity": doc.Quantity},
			"$set": bson.M{"updatedAt": now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &imp, nil, nil
	}
	if err != nil {
		return &imp, nil, fmt.Errorf("import removed but stock restore failed: %w", err)
	}
	p := updated.toModel()
	return &imp, &p, nil
}

func (s *MongoStore) CreateExport(ctx context.Context, p *model.Product, e *model.Export) error {
	stampProduct(p)
	pdoc := newProductDocument(p)
	pdoc.ID = primitive.NewObjectID()
	if _, err := s.products.InsertOne(ctx, pdoc); err != nil {
		return err
	}
	p.ID = pdoc.ID.Hex()

	stampExport(e)
	edoc := exportDocument{
		ID:        primitive.NewObjectID(),
		ProductID: pdoc.ID,
		UserID:    e.UserID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if _, err := s.exports.InsertOne(ctx, edoc); err != nil {
		return fmt.Errorf("product created but export insert failed: %w", err)
	}
	e.ID = edoc.ID.Hex()
	e.ProductID = p.ID
	return nil
}

func (s *MongoStore) DeleteExport(ctx context.Context, e *model.Export) error {
	eid, err := objectID(e.ID)
	if err != nil {
		return err
	}
	if pid, err := primitive.ObjectIDFromHex(e.ProductID); err == nil {
		if _, err := s.products.DeleteOne(ctx, bson.M{"_id": pid}); err != nil {
			return err
		}
	}
	res, err := s.exports.DeleteOne(ctx, bson.M{"_id": eid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoProducts struct{ c *mongo.Collection }

func (r mongoProducts) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]model.Product, error) {
	cur, err := r.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, nil
}

func (r mongoProducts) List(ctx context.Context, limit int) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	products, err := r.find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r mongoProducts) Get(ctx context.Context, id string) (*model.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc productDocument
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongo(err)
	}
	p := doc.toModel()
	return &p, nil
}

func (r mongoProducts) GetMany(ctx context.Context, ids []string) (map[string]model.Product, error) {
	found := make(map[string]model.Product, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return found, nil
	}
	products, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r mongoProducts) Create(ctx context.Context, p *model.Product) error {
	stampProduct(p)
	doc := newProductDocument(p)
	doc.ID = primitive.NewObjectID()
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return err
	}
	p.ID = doc.ID.Hex()
	return nil
}

var productFields = [7]string{"name", "image", "price", "originCountry", "rating", "availableQuantity", "addedBy"}

func (r mongoProducts) Update(ctx context.Context, id string, ch ProductChanges) (*model.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M(ch.fields(productFields))
	set["updatedAt"] = now()

	var doc productDocument
	err = r.c.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translateMongo(err)
	}
	p := doc.toModel()
	return &p, nil
}

func (r mongoProducts) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r mongoProducts) Replace(ctx context.Context, products []model.Product) error {
	if _, err := r.c.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	if len(products) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(products))
	for i := range products {
		stampProduct(&products[i])
		doc := newProductDocument(&products[i])
		doc.ID = primitive.NewObjectID()
		products[i].ID = doc.ID.Hex()
		docs = append(docs, doc)
	}
	if _, err := r.c.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	return nil
}

type mongoImports struct{ c *mongo.Collection }

func (r mongoImports) find(ctx context.Context, filter interface{}) ([]model.Import, error) {
	cur, err := r.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "importedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	var docs []importDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	imports := make([]model.Import, 0, len(docs))
	for _, d := range docs {
		imports = append(imports, d.toModel())
	}
	return imports, nil
}

func (r mongoImports) ListByUser(ctx context.Context, userID string) ([]model.Import, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r mongoImports) ListAll(ctx context.Context) ([]model.Import, error) {
	return r.find(ctx, bson.D{})
}

func (r mongoImports) Get(ctx context.Context, id string) (*model.Import, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc importDocument
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongo(err)
	}
	imp := doc.toModel()
	return &imp, nil
}

func (r mongoImports) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return 0, nil
	}
	res, err := r.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type mongoExports struct{ c *mongo.Collection }

func (r mongoExports) ListByUser(ctx context.Context, userID string) ([]model.Export, error) {
	cur, err := r.c.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	var docs []exportDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	exports := make([]model.Export, 0, len(docs))
	for _, d := range docs {
		exports = append(exports, d.toModel())
	}
	return exports, nil
}

func (r mongoExports) Get(ctx context.Context, id string) (*model.Export, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc exportDocument
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongo(err)
	}
	e := doc.toModel()
	return &e, nil
}

func (r mongoExports) Touch(ctx context.Context, id string, at time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"updatedAt": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
