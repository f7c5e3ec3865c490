package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/preechaw/sewline/internal/domain/models"
)

// Per-line collection names. sub usually has no inspection collection;
// existence checks turn that into "no data" rather than an error.
var productionCollections = map[models.Line]string{
	models.LineFC:    "sewing_fc",
	models.LineFB:    "sewing_fb",
	models.LineRC:    "sewing_rc",
	models.LineRB:    "sewing_rb",
	models.LineThird: "sewing_3rd",
	models.LineSub:   "sewing_sub",
}

var inspectionCollections = map[models.Line]string{
	models.LineFC:    "qc_fc",
	models.LineFB:    "qc_fb",
	models.LineRC:    "qc_rc",
	models.LineRB:    "qc_rb",
	models.LineThird: "qc_3rd",
	models.LineSub:   "qc_sub",
}

const (
	defectCollection   = "qc_ng"
	itemCollection     = "item"
	targetCollection   = "sewing_target"
	manpowerCollection = "sewing_man_act"
	breakCollection    = "break_times"
	snapshotCollection = "daily_reports"
)

// Repository backs every data source the report, quality, man-hour and
// performance services consume with MongoDB.
type Repository struct {
	client *mongo.Client
	dbName string
	logger *zap.Logger
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName, logger: logger}, nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *Repository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

func (r *Repository) collectionExists(ctx context.Context, name string) bool {
	names, err := r.client.Database(r.dbName).ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		r.logger.Warn("collection listing failed", zap.String("collection", name), zap.Error(err))
		return false
	}
	return len(names) > 0
}

// dayRange widens the [start, end] dates to a half-open timestamp interval
// covering both days fully.
func dayRange(start, end time.Time) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
	return from, to
}

func rangeFilter(start, end time.Time) bson.M {
	from, to := dayRange(start, end)
	return bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
}

// SourceExists reports whether a line's production collection is present.
func (r *Repository) SourceExists(ctx context.Context, line models.Line) bool {
	return r.collectionExists(ctx, productionCollections[line])
}

// FetchProduction returns the line's production rows within the date range,
// oldest first.
func (r *Repository) FetchProduction(ctx context.Context, line models.Line, start, end time.Time) ([]models.ProductionRow, error) {
	name, ok := productionCollections[line]
	if !ok {
		return nil, fmt.Errorf("unknown line %q", line)
	}

	cursor, err := r.collection(name).Find(ctx, rangeFilter(start, end),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	var rows []models.ProductionRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", name, err)
	}
	return rows, nil
}

// InspectionSourceExists reports whether the line has an inspection
// collection, accepting the legacy qc_third name for the 3RD line.
func (r *Repository) InspectionSourceExists(ctx context.Context, line models.Line) bool {
	_, ok := r.inspectionCollection(ctx, line)
	return ok
}

// FetchInspections returns the line's QC inspection rows within the range.
func (r *Repository) FetchInspections(ctx context.Context, line models.Line, start, end time.Time) ([]models.InspectionRow, error) {
	name, ok := r.inspectionCollection(ctx, line)
	if !ok {
		return nil, nil
	}

	cursor, err := r.collection(name).Find(ctx, rangeFilter(start, end))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	var rows []models.InspectionRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", name, err)
	}
	return rows, nil
}

func (r *Repository) inspectionCollection(ctx context.Context, line models.Line) (string, bool) {
	name := inspectionCollections[line]
	if r.collectionExists(ctx, name) {
		return name, true
	}
	if line == models.LineThird && r.collectionExists(ctx, "qc_third") {
		return "qc_third", true
	}
	return "", false
}

// FetchDefects returns rows from the shared defect collection.
func (r *Repository) FetchDefects(ctx context.Context, start, end time.Time) ([]models.DefectRow, error) {
	cursor, err := r.collection(defectCollection).Find(ctx, rangeFilter(start, end))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", defectCollection, err)
	}
	defer cursor.Close(ctx)

	var rows []models.DefectRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode defect rows: %w", err)
	}
	return rows, nil
}

// ItemCatalog returns the part code → model/nickname mapping.
func (r *Repository) ItemCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	cursor, err := r.collection(itemCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", itemCollection, err)
	}
	defer cursor.Close(ctx)

	var items []models.CatalogItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode catalog items: %w", err)
	}
	return items, nil
}

type targetDoc struct {
	FC        int       `bson:"fc"`
	FB        int       `bson:"fb"`
	RC        int       `bson:"rc"`
	RB        int       `bson:"rb"`
	Third     int       `bson:"3rd"`
	Sub       int       `bson:"sub"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d targetDoc) record() *models.TargetRecord {
	return &models.TargetRecord{
		Rates: map[models.Line]int{
			models.LineFC:    d.FC,
			models.LineFB:    d.FB,
			models.LineRC:    d.RC,
			models.LineRB:    d.RB,
			models.LineThird: d.Third,
			models.LineSub:   d.Sub,
		},
		EffectiveAt: d.CreatedAt,
	}
}

// TargetOn returns the most recently created target record dated exactly on
// the given day, or nil when none exists.
func (r *Repository) TargetOn(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	return r.findTarget(ctx, rangeFilter(date, date))
}

// LatestTargetBefore returns the most recent target record dated on or before
// the given day, or nil when none exists.
func (r *Repository) LatestTargetBefore(ctx context.Context, date time.Time) (*models.TargetRecord, error) {
	_, to := dayRange(date, date)
	return r.findTarget(ctx, bson.M{"created_at": bson.M{"$lt": to}})
}

func (r *Repository) findTarget(ctx context.Context, filter bson.M) (*models.TargetRecord, error) {
	var doc targetDoc
	err := r.collection(targetCollection).
		FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).
		Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", targetCollection, err)
	}
	return doc.record(), nil
}

type manpowerDoc struct {
	Shift     string    `bson:"shift"`
	Hours     float64   `bson:"thour"`
	FCAct     int       `bson:"fc_act"`
	FBAct     int       `bson:"fb_act"`
	RCAct     int       `bson:"rc_act"`
	RBAct     int       `bson:"rb_act"`
	ThirdAct  int       `bson:"3rd_act"`
	SubAct    int       `bson:"sub_act"`
	CreatedAt time.Time `bson:"created_at"`
}

// FetchManpower returns headcount rows within the range, oldest first.
func (r *Repository) FetchManpower(ctx context.Context, start, end time.Time) ([]models.ManpowerRow, error) {
	cursor, err := r.collection(manpowerCollection).Find(ctx, rangeFilter(start, end),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", manpowerCollection, err)
	}
	defer cursor.Close(ctx)

	var docs []manpowerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode manpower rows: %w", err)
	}

	rows := make([]models.ManpowerRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, models.ManpowerRow{
			Shift: models.Shift(doc.Shift),
			Hours: doc.Hours,
			Counts: map[models.Line]int{
				models.LineFC:    doc.FCAct,
				models.LineFB:    doc.FBAct,
				models.LineRC:    doc.RCAct,
				models.LineRB:    doc.RBAct,
				models.LineThird: doc.ThirdAct,
				models.LineSub:   doc.SubAct,
			},
			CreatedAt: doc.CreatedAt,
		})
	}
	return rows, nil
}

type breakDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"break_name"`
	StartTime       string             `bson:"start_time"`
	EndTime         string             `bson:"end_time"`
	DurationMinutes int                `bson:"duration_minutes"`
	IsActive        bool               `bson:"is_active"`
}

func (d breakDoc) interval(logger *zap.Logger) (models.BreakInterval, bool) {
	start, err := models.ParseClock(d.StartTime)
	if err != nil {
		logger.Warn("skipping break with bad start time",
			zap.String("break", d.Name), zap.Error(err))
		return models.BreakInterval{}, false
	}
	end, err := models.ParseClock(d.EndTime)
	if err != nil {
		logger.Warn("skipping break with bad end time",
			zap.String("break", d.Name), zap.Error(err))
		return models.BreakInterval{}, false
	}
	return models.BreakInterval{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Start:           start,
		End:             end,
		DurationMinutes: d.DurationMinutes,
		Active:          d.IsActive,
	}, true
}

// ActiveBreaks returns the active break intervals ordered by start time.
func (r *Repository) ActiveBreaks(ctx context.Context) ([]models.BreakInterval, error) {
	return r.listBreaks(ctx, bson.M{"is_active": true})
}

// ListBreaks returns every break interval, active or not, ordered by start
// time.
func (r *Repository) ListBreaks(ctx context.Context) ([]models.BreakInterval, error) {
	return r.listBreaks(ctx, bson.M{})
}

func (r *Repository) listBreaks(ctx context.Context, filter bson.M) ([]models.BreakInterval, error) {
	cursor, err := r.collection(breakCollection).Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", breakCollection, err)
	}
	defer cursor.Close(ctx)

	var docs []breakDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode break rows: %w", err)
	}

	breaks := make([]models.BreakInterval, 0, len(docs))
	for _, doc := range docs {
		if interval, ok := doc.interval(r.logger); ok {
			breaks = append(breaks, interval)
		}
	}
	return breaks, nil
}

// CreateBreak inserts a break interval and returns it with its assigned ID.
func (r *Repository) CreateBreak(ctx context.Context, interval models.BreakInterval) (models.BreakInterval, error) {
	doc := breakDoc{
		Name:            interval.Name,
		StartTime:       interval.Start.String(),
		EndTime:         interval.End.String(),
		DurationMinutes: interval.DurationMinutes,
		IsActive:        interval.Active,
	}
	res, err := r.collection(breakCollection).InsertOne(ctx, doc)
	if err != nil {
		return models.BreakInterval{}, fmt.Errorf("insert break: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		interval.ID = id.Hex()
	}
	return interval, nil
}

// UpdateBreak replaces the stored fields of an existing break interval.
func (r *Repository) UpdateBreak(ctx context.Context, interval models.BreakInterval) error {
	id, err := primitive.ObjectIDFromHex(interval.ID)
	if err != nil {
		return fmt.Errorf("invalid break id %q: %w", interval.ID, err)
	}

	update := bson.M{"$set": bson.M{
		"break_name":       interval.Name,
		"start_time":       interval.Start.String(),
		"end_time":         interval.End.String(),
		"duration_minutes": interval.DurationMinutes,
		"is_active":        interval.Active,
	}}
	res, err := r.collection(breakCollection).UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("update break: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("break %s not found", interval.ID)
	}
	return nil
}

// DeleteBreak removes a break interval by ID.
func (r *Repository) DeleteBreak(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid break id %q: %w", id, err)
	}
	res, err := r.collection(breakCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete break: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("break %s not found", id)
	}
	return nil
}

// SaveDailySnapshot persists an end-of-day summary snapshot.
func (r *Repository) SaveDailySnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	if _, err := r.collection(snapshotCollection).InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("insert daily snapshot: %w", err)
	}
	return nil
}
