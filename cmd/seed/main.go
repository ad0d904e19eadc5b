// Command seed fills a development database with fake users, posts and reports so the
// admin dashboard has something to show. Not for production use.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/pkg/config"
	"github.com/anonto42/linkup/backend/pkg/logger"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type options struct {
	users   int
	posts   int
	reports int
	days    int
	seed    int64
}

func main() {
	var opts options
	flag.IntVar(&opts.users, "users", 50, "number of users")
	flag.IntVar(&opts.posts, "posts", 200, "number of posts")
	flag.IntVar(&opts.reports, "reports", 40, "number of reports, split between post and user reports")
	flag.IntVar(&opts.days, "days", 30, "spread creation dates over this many days")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProduction() {
		log.Fatal().Msg("Refusing to seed a production environment")
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, db.Database, opts); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
}

func run(ctx context.Context, db *mongo.Database, opts options) error {
	gofakeit.Seed(opts.seed)
	r := rand.New(rand.NewSource(opts.seed))
	now := time.Now()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	randomPast := func() time.Time {
		return now.Add(-time.Duration(r.Int63n(int64(opts.days) * int64(24*time.Hour))))
	}

	users := make([]*models.User, 0, opts.users)
	for i := 0; i < opts.users; i++ {
		created := randomPast()
		u := &models.User{
			ID:          primitive.NewObjectID(),
			Email:       fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password:    string(hash),
			DisplayName: gofakeit.Name(),
			Headline:    gofakeit.JobTitle(),
			Bio:         gofakeit.Sentence(12),
			Location:    gofakeit.City(),
			Followers:   []primitive.ObjectID{},
			Following:   []primitive.ObjectID{},
			LikedPosts:  []primitive.ObjectID{},
			SharedPosts: []primitive.ObjectID{},
			IsVerified:  r.Intn(10) > 1,
			IsBanned:    r.Intn(25) == 0,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if r.Intn(3) == 0 {
			login := now.Add(-time.Duration(r.Intn(12)) * time.Hour)
			u.LastLogin = &login
		}
		users = append(users, u)
	}
	if len(users) == 0 {
		return nil
	}

	posts := make([]*models.Post, 0, opts.posts)
	for i := 0; i < opts.posts; i++ {
		owner := users[r.Intn(len(users))]
		created := randomPast()
		if created.Before(owner.CreatedAt) {
			created = owner.CreatedAt.Add(time.Hour)
		}
		p := &models.Post{
			ID:          primitive.NewObjectID(),
			User:        owner.ID,
			Description: gofakeit.Paragraph(1, 2, 12, " "),
			Likes:       []primitive.ObjectID{},
			Shares:      []primitive.ObjectID{},
			Comments:    []models.Comment{},
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if r.Intn(4) == 0 {
			p.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		}
		for _, u := range users {
			if r.Intn(8) == 0 {
				p.Likes = append(p.Likes, u.ID)
				u.LikedPosts = append(u.LikedPosts, p.ID)
			}
		}
		for j := r.Intn(4); j > 0; j-- {
			p.Comments = append(p.Comments, models.Comment{
				ID:        primitive.NewObjectID(),
				User:      users[r.Intn(len(users))].ID,
				Text:      gofakeit.Sentence(8),
				CreatedAt: created.Add(time.Duration(j) * time.Minute),
			})
		}
		posts = append(posts, p)
	}

	reasons := []string{"spam", "harassment", "misinformation", "impersonation", "nudity", "hate speech"}
	statuses := models.ReportStatuses
	var postReports, userReports []interface{}
	for i := 0; i < opts.reports; i++ {
		created := randomPast()
		report := models.Report{
			ID:        primitive.NewObjectID(),
			Reporter:  users[r.Intn(len(users))].ID,
			Reason:    reasons[r.Intn(len(reasons))],
			Status:    statuses[r.Intn(len(statuses))],
			CreatedAt: created,
			UpdatedAt: created,
		}
		if i%2 == 0 && len(posts) > 0 {
			report.Target = posts[r.Intn(len(posts))].ID
			postReports = append(postReports, report)
		} else {
			report.Target = users[r.Intn(len(users))].ID
			userReports = append(userReports, report)
		}
	}

	userDocs := make([]interface{}, 0, len(users))
	for _, u := range users {
		userDocs = append(userDocs, u)
	}
	if err := insert(ctx, db, "users", userDocs); err != nil {
		return err
	}

	postDocs := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		postDocs = append(postDocs, p)
	}
	if err := insert(ctx, db, "posts", postDocs); err != nil {
		return err
	}
	if err := insert(ctx, db, models.ReportKindPost.Collection(), postReports); err != nil {
		return err
	}
	if err := insert(ctx, db, models.ReportKindUser.Collection(), userReports); err != nil {
		return err
	}

	log.Info().
		Int("users", len(userDocs)).
		Int("posts", len(postDocs)).
		Int("post_reports", len(postReports)).
		Int("user_reports", len(userReports)).
		Int64("seed", opts.seed).
		Msg("Seed complete")
	return nil
}

func insert(ctx context.Context, db *mongo.Database, coll string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := db.Collection(coll).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %s: %w", coll, err)
	}
	return nil
}
