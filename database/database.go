package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "property-ops/errors"
	"property-ops/model"
)

const (
	BookingsCollection      = "bookings"
	JobsCollection          = "jobs"
	StaffCollection         = "staff"
	EventsCollection        = "calendar_events"
	NotificationsCollection = "notifications"
	AuditLogsCollection     = "audit_logs"
	UsersCollection         = "users"
)

type MongoStore struct {
	client        *mongo.Client
	bookings      *mongo.Collection
	jobs          *mongo.Collection
	staff         *mongo.Collection
	events        *mongo.Collection
	notifications *mongo.Collection
	auditLogs     *mongo.Collection
	users         *mongo.Collection
}

// DBInit connects to MongoDB, pings it and prepares the collections and indexes.
func DBInit(ctx context.Context, connString, dbName string) (*MongoStore, error) {
	clientOptions := options.Client().
		ApplyURI(connString).
		SetRegistry(Registry())
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the db: %v", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		disconnect(client)
		return nil, fmt.Errorf("db is not available: %v", err)
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client:        client,
		bookings:      db.Collection(BookingsCollection),
		jobs:          db.Collection(JobsCollection),
		staff:         db.Collection(StaffCollection),
		events:        db.Collection(EventsCollection),
		notifications: db.Collection(NotificationsCollection),
		auditLogs:     db.Collection(AuditLogsCollection),
		users:         db.Collection(UsersCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		disconnect(client)
		return nil, fmt.Errorf("cannot create indexes: %v", err)
	}
	return s, nil
}

// disconnect releases a client that failed to initialise.
var disconnect = func(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Disconnect(ctx)
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "login", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := s.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "staff_id", Value: 1}, {Key: "start", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := s.bookings.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "check_in", Value: 1}},
	})
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func writeToCollection(ctx context.Context, collection *mongo.Collection, item interface{}) error {
	_, err := collection.InsertOne(ctx, item)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", collection.Name(), apperrors.ErrAlreadyExists)
	}
	return err
}

func updateCollectionItem(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, item interface{}) error {
	res, err := collection.ReplaceOne(ctx, bson.M{"_id": id}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %v: %w", collection.Name(), id.Hex(), apperrors.ErrNotFound)
	}
	return nil
}

func findById[T any](ctx context.Context, collection *mongo.Collection, id string) (T, error) {
	var item T
	objId, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return item, fmt.Errorf("%s %v: %w", collection.Name(), id, apperrors.ErrNotFound)
	}
	err = collection.FindOne(ctx, bson.M{"_id": objId}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return item, fmt.Errorf("%s %v: %w", collection.Name(), id, apperrors.ErrNotFound)
	}
	return item, err
}

func findAll[T any](ctx context.Context, collection *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cur, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("server side problem occured while reading %s: %v", collection.Name(), err)
	}
	defer cur.Close(ctx)

	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("server side problem occured while reading %s: %v", collection.Name(), err)
	}
	return items, nil
}

func windowFilter(filter bson.M, from, to time.Time) {
	if !to.IsZero() {
		filter["start"] = bson.M{"$lt": to}
	}
	if !from.IsZero() {
		filter["end"] = bson.M{"$gt": from}
	}
}

func limitOpts(sortKey string, limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: sortKey, Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

func (s *MongoStore) InsertBooking(ctx context.Context, booking model.Booking) error {
	return writeToCollection(ctx, s.bookings, booking)
}

func (s *MongoStore) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	return findById[model.Booking](ctx, s.bookings, id)
}

func (s *MongoStore) ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	} else if f.ExcludeStatus != "" {
		filter["status"] = bson.M{"$ne": f.ExcludeStatus}
	}
	if f.PropertyId != "" {
		filter["property_id"] = f.PropertyId
	}
	checkIn := bson.M{}
	if !f.CheckInFrom.IsZero() {
		checkIn["$gte"] = f.CheckInFrom
	}
	if !f.CheckInTo.IsZero() {
		checkIn["$lt"] = f.CheckInTo
	}
	if len(checkIn) > 0 {
		filter["check_in"] = checkIn
	}
	return findAll[model.Booking](ctx, s.bookings, filter, limitOpts("created_at", 0))
}

func (s *MongoStore) UpdateBooking(ctx context.Context, booking model.Booking) error {
	return updateCollectionItem(ctx, s.bookings, booking.Id, booking)
}

func (s *MongoStore) InsertJob(ctx context.Context, job model.Job) error {
	return writeToCollection(ctx, s.jobs, job)
}

func (s *MongoStore) GetJob(ctx context.Context, id string) (model.Job, error) {
	return findById[model.Job](ctx, s.jobs, id)
}

func (s *MongoStore) ListJobs(ctx context.Context, f JobFilter) ([]model.Job, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.StaffId != "" {
		filter["assigned_staff_id"] = f.StaffId
	}
	if f.BookingId != "" {
		filter["booking_id"] = f.BookingId
	}
	windowFilter(filter, f.From, f.To)
	return findAll[model.Job](ctx, s.jobs, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
}

func (s *MongoStore) UpdateJob(ctx context.Context, job model.Job) error {
	return updateCollectionItem(ctx, s.jobs, job.Id, job)
}

func (s *MongoStore) InsertStaff(ctx context.Context, staff model.StaffMember) error {
	return writeToCollection(ctx, s.staff, staff)
}

func (s *MongoStore) GetStaff(ctx context.Context, id string) (model.StaffMember, error) {
	return findById[model.StaffMember](ctx, s.staff, id)
}

func (s *MongoStore) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	return findAll[model.StaffMember](ctx, s.staff, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *MongoStore) UpdateStaff(ctx context.Context, staff model.StaffMember) error {
	return updateCollectionItem(ctx, s.staff, staff.Id, staff)
}

func (s *MongoStore) IncrementCompletedJobs(ctx context.Context, staffId string) error {
	objId, err := primitive.ObjectIDFromHex(staffId)
	if err != nil {
		return fmt.Errorf("staff %v: %w", staffId, apperrors.ErrNotFound)
	}
	res, err := s.staff.UpdateOne(ctx, bson.M{"_id": objId}, bson.M{"$inc": bson.M{"completed_jobs": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("staff %v: %w", staffId, apperrors.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) InsertEvent(ctx context.Context, event model.CalendarEvent) error {
	return writeToCollection(ctx, s.events, event)
}

func (s *MongoStore) GetEvent(ctx context.Context, id string) (model.CalendarEvent, error) {
	return findById[model.CalendarEvent](ctx, s.events, id)
}

func (s *MongoStore) ListEvents(ctx context.Context, f EventFilter) ([]model.CalendarEvent, error) {
	filter := bson.M{}
	if f.StaffId != "" {
		filter["staff_id"] = f.StaffId
	}
	if len(f.ExcludeStatus) > 0 {
		filter["status"] = bson.M{"$nin": f.ExcludeStatus}
	}
	windowFilter(filter, f.From, f.To)
	return findAll[model.CalendarEvent](ctx, s.events, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
}

func (s *MongoStore) UpdateEvent(ctx context.Context, event model.CalendarEvent) error {
	return updateCollectionItem(ctx, s.events, event.Id, event)
}

func (s *MongoStore) InsertNotification(ctx context.Context, notification model.Notification) error {
	return writeToCollection(ctx, s.notifications, notification)
}

func (s *MongoStore) ListNotifications(ctx context.Context, recipientId string, limit int) ([]model.Notification, error) {
	filter := bson.M{}
	if recipientId != "" {
		filter["recipient_id"] = recipientId
	}
	return findAll[model.Notification](ctx, s.notifications, filter, limitOpts("created_at", limit))
}

func (s *MongoStore) InsertAuditLog(ctx context.Context, entry model.AuditLog) error {
	return writeToCollection(ctx, s.auditLogs, entry)
}

func (s *MongoStore) ListAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error) {
	return findAll[model.AuditLog](ctx, s.auditLogs, bson.M{}, limitOpts("created_at", limit))
}

func (s *MongoStore) InsertUser(ctx context.Context, user model.UserData) error {
	return writeToCollection(ctx, s.users, user)
}

func (s *MongoStore) GetUserData(ctx context.Context, login string) (model.UserData, error) {
	var user model.UserData
	err := s.users.FindOne(ctx, bson.D{primitive.E{Key: "login", Value: login}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.UserData{}, fmt.Errorf("user %v: %w", login, apperrors.ErrNotFound)
	}
	if err != nil {
		return model.UserData{}, fmt.Errorf("server side problem occured while reading user data from database: %v", err)
	}
	return user, nil
}
