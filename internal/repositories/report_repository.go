package repositories

import (
	"context"
	"sort"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportRepository defines the interface for moderation report operations.
// Post and user reports live in separate collections selected by kind.
type ReportRepository interface {
	CreateReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, kind models.ReportKind, id primitive.ObjectID) (*models.Report, error)
	SetStatus(ctx context.Context, kind models.ReportKind, id primitive.ObjectID, status models.ReportStatus) (*models.Report, error)
	ListJoined(ctx context.Context, kind models.ReportKind, status models.ReportStatus) ([]models.JoinedReport, error)
	ListByReporter(ctx context.Context, reporterID primitive.ObjectID) ([]models.Report, error)
	DeleteByTarget(ctx context.Context, kind models.ReportKind, targetID primitive.ObjectID) (int64, error)
	CountReports(ctx context.Context, kind models.ReportKind) (int64, error)
	DailyReports(ctx context.Context, kind models.ReportKind, tz string) ([]models.DailyCount, error)
}

// MongoReportRepository implements ReportRepository for MongoDB
type MongoReportRepository struct {
	db *mongo.Database
}

// NewMongoReportRepository creates a new MongoReportRepository
func NewMongoReportRepository(db *mongo.Database) *MongoReportRepository {
	return &MongoReportRepository{db: db}
}

func (r *MongoReportRepository) coll(kind models.ReportKind) *mongo.Collection {
	return r.db.Collection(kind.Collection())
}

// EnsureIndexes indexes both report collections by target, reporter and creation time
func (r *MongoReportRepository) EnsureIndexes(ctx context.Context) error {
	for _, kind := range []models.ReportKind{models.ReportKindPost, models.ReportKindUser} {
		_, err := r.coll(kind).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "target", Value: 1}}},
			{Keys: bson.D{{Key: "reporter", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateReport inserts report as pending. The target is not checked for existence.
func (r *MongoReportRepository) CreateReport(ctx context.Context, report *models.Report) error {
	now := time.Now()
	report.ID = primitive.NewObjectID()
	report.Status = models.ReportStatusPending
	report.CreatedAt = now
	report.UpdatedAt = now

	_, err := r.coll(report.Kind).InsertOne(ctx, report)
	return err
}

func (r *MongoReportRepository) GetReport(ctx context.Context, kind models.ReportKind, id primitive.ObjectID) (*models.Report, error) {
	var report models.Report
	if err := r.coll(kind).FindOne(ctx, bson.M{"_id": id}).Decode(&report); err != nil {
		return nil, decodeErr(err, string(kind)+" report", id)
	}
	report.Kind = kind
	return &report, nil
}

// SetStatus writes status and returns the updated report. updatedAt only moves when the
// status actually changes, so repeating a transition leaves the document untouched.
func (r *MongoReportRepository) SetStatus(ctx context.Context, kind models.ReportKind, id primitive.ObjectID, status models.ReportStatus) (*models.Report, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "updatedAt", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$status", string(status)}}},
				"$updatedAt",
				"$$NOW",
			}}}},
			{Key: "status", Value: string(status)},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var report models.Report
	if err := r.coll(kind).FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&report); err != nil {
		return nil, decodeErr(err, string(kind)+" report", id)
	}
	report.Kind = kind
	return &report, nil
}

// joinedRow is the shape produced by the ListJoined pipeline
type joinedRow struct {
	models.Report `bson:",inline"`
	Reporters     []models.User `bson:"reporterDocs"`
	Posts         []models.Post `bson:"postDocs"`
	Users         []models.User `bson:"userDocs"`
}

// ListJoined returns every report of kind, newest first, with reporter and target resolved.
// An empty status lists all statuses. Rows whose reporter or target no longer exists keep a nil join.
func (r *MongoReportRepository) ListJoined(ctx context.Context, kind models.ReportKind, status models.ReportStatus) ([]models.JoinedReport, error) {
	match := bson.M{}
	if status != "" {
		match["status"] = string(status)
	}

	targetFrom, targetAs := postsCollection, "postDocs"
	if kind == models.ReportKindUser {
		targetFrom, targetAs = usersCollection, "userDocs"
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "reporter"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "reporterDocs"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: targetFrom},
			{Key: "localField", Value: "target"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: targetAs},
		}}},
	}

	cursor, err := r.coll(kind).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []joinedRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]models.JoinedReport, 0, len(rows))
	for _, row := range rows {
		jr := models.JoinedReport{
			ID:        row.ID.Hex(),
			Kind:      kind,
			Reason:    row.Reason,
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
		if len(row.Reporters) > 0 {
			c := row.Reporters[0].ToCompact()
			jr.Reporter = &c
		}
		if len(row.Posts) > 0 {
			c := row.Posts[0].ToCompact()
			jr.Post = &c
		}
		if len(row.Users) > 0 {
			c := row.Users[0].ToCompact()
			jr.User = &c
		}
		out = append(out, jr)
	}
	return out, nil
}

// ListByReporter returns the reporter's own reports of both kinds, newest first
func (r *MongoReportRepository) ListByReporter(ctx context.Context, reporterID primitive.ObjectID) ([]models.Report, error) {
	reports := []models.Report{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	for _, kind := range []models.ReportKind{models.ReportKindPost, models.ReportKindUser} {
		cursor, err := r.coll(kind).Find(ctx, bson.M{"reporter": reporterID}, findOptions)
		if err != nil {
			return nil, err
		}
		var batch []models.Report
		err = cursor.All(ctx, &batch)
		cursor.Close(ctx)
		if err != nil {
			return nil, err
		}
		for i := range batch {
			batch[i].Kind = kind
		}
		reports = append(reports, batch...)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

// DeleteByTarget removes every report of kind pointing at targetID
func (r *MongoReportRepository) DeleteByTarget(ctx context.Context, kind models.ReportKind, targetID primitive.ObjectID) (int64, error) {
	res, err := r.coll(kind).DeleteMany(ctx, bson.M{"target": targetID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoReportRepository) CountReports(ctx context.Context, kind models.ReportKind) (int64, error) {
	return r.coll(kind).CountDocuments(ctx, bson.M{})
}

func (r *MongoReportRepository) DailyReports(ctx context.Context, kind models.ReportKind, tz string) ([]models.DailyCount, error) {
	return dailyCounts(ctx, r.coll(kind), bson.M{}, tz)
}
