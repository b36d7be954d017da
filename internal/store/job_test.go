package store_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/sorajobs/admin-dashboard/internal/config"
	"github.com/sorajobs/admin-dashboard/internal/store"
)

const (
	insertJobStm              = "INSERT INTO jobs (id, status, provider, created_at) VALUES ('%s', '%s', '%s', '%s');"
	insertJobWithUpdateStm    = "INSERT INTO jobs (id, status, provider, created_at, updated_at) VALUES ('%s', '%s', '%s', '%s', '%s');"
	insertJobWithoutStatusStm = "INSERT INTO jobs (id, created_at) VALUES ('%s', '%s');"
)

var _ = Describe("job store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		base   time.Time
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db

		Expect(s.InitialMigration(context.TODO())).To(BeNil())

		base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
	})

	stamp := func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04:05")
	}

	Context("list", func() {
		It("successfully lists all the jobs", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "queued", "fal", stamp(base)))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "completed", "fal", stamp(base.Add(time.Minute))))
			Expect(tx.Error).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter(), store.NewJobQueryOptions())
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
		})

		It("orders by recency and applies the limit", func() {
			oldest := uuid.NewString()
			middle := uuid.NewString()
			newest := uuid.NewString()
			gormdb.Exec(fmt.Sprintf(insertJobStm, oldest, "queued", "fal", stamp(base)))
			gormdb.Exec(fmt.Sprintf(insertJobStm, middle, "queued", "fal", stamp(base.Add(time.Minute))))
			gormdb.Exec(fmt.Sprintf(insertJobStm, newest, "queued", "fal", stamp(base.Add(2*time.Minute))))

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter(),
				store.NewJobQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc).WithLimit(2))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
			Expect(jobs[0].ID.String()).To(Equal(newest))
			Expect(jobs[1].ID.String()).To(Equal(middle))
		})

		It("filters by provider", func() {
			gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "queued", "fal", stamp(base)))
			gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "queued", "replicate", stamp(base)))

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByProvider("replicate"), nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(*jobs[0].Provider).To(Equal("replicate"))
		})

		It("tolerates rows with absent optional columns", func() {
			id := uuid.NewString()
			tx := gormdb.Exec(fmt.Sprintf(insertJobWithoutStatusStm, id, stamp(base)))
			Expect(tx.Error).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), nil, nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Status).To(BeNil())
			Expect(jobs[0].UpdatedAt).To(BeNil())
			Expect(jobs[0].RawStatus()).To(Equal(""))
			Expect(jobs[0].ProviderOrFallback()).To(Equal("fal"))
		})
	})

	Context("get", func() {
		It("returns the job with its update timestamp", func() {
			id := uuid.NewString()
			tx := gormdb.Exec(fmt.Sprintf(insertJobWithUpdateStm, id, "processing", "fal", stamp(base), stamp(base.Add(5*time.Minute))))
			Expect(tx.Error).To(BeNil())

			job, err := s.Job().Get(context.TODO(), uuid.MustParse(id))
			Expect(err).To(BeNil())
			Expect(job.RawStatus()).To(Equal("processing"))
			Expect(job.UpdatedAt).NotTo(BeNil())
		})

		It("returns ErrRecordNotFound for a missing job", func() {
			_, err := s.Job().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("count", func() {
		It("counts all rows", func() {
			gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "queued", "fal", stamp(base)))
			gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "failed", "fal", stamp(base)))

			count, err := s.Job().Count(context.TODO())
			Expect(err).To(BeNil())
			Expect(count).To(Equal(int64(2)))
		})
	})

	Context("transaction", func() {
		It("rolls back without touching the table", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			tx := store.FromContext(ctx)
			Expect(tx).NotTo(BeNil())
			Expect(tx.Exec(fmt.Sprintf(insertJobStm, uuid.NewString(), "queued", "fal", stamp(base))).Error).To(BeNil())

			_, err = store.Rollback(ctx)
			Expect(err).To(BeNil())

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM jobs;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
		})
	})
})
