package v1alpha1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/sorajobs/admin-dashboard/api/v1alpha1"
	"github.com/sorajobs/admin-dashboard/internal/config"
	"github.com/sorajobs/admin-dashboard/internal/export"
	handlers "github.com/sorajobs/admin-dashboard/internal/handlers/v1alpha1"
	"github.com/sorajobs/admin-dashboard/internal/poller"
	"github.com/sorajobs/admin-dashboard/internal/service"
	"github.com/sorajobs/admin-dashboard/internal/store"
	"github.com/sorajobs/admin-dashboard/pkg/middleware"
)

const (
	insertJobStm           = "INSERT INTO jobs (id, status, provider, created_at) VALUES ('%s', '%s', '%s', '%s');"
	insertJobWithUpdateStm = "INSERT INTO jobs (id, status, provider, created_at, updated_at) VALUES ('%s', '%s', '%s', '%s', '%s');"
)

type stubTrigger struct {
	lastLimit int
	result    *poller.TriggerResult
	err       error
}

func (s *stubTrigger) TriggerRun(_ context.Context, limit int) (*poller.TriggerResult, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

var _ = Describe("dashboard api", Ordered, func() {
	var (
		s       store.Store
		gormdb  *gorm.DB
		trigger *stubTrigger
		router  chi.Router
		base    time.Time
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration(context.TODO())).To(BeNil())

		base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		now := base.Add(12 * time.Minute)

		jobSrv := service.NewJobService(s, 100, 500, 10*time.Minute,
			service.WithNowFunc(func() time.Time { return now }))
		trigger = &stubTrigger{}
		pollerSrv := service.NewPollerService(trigger, 25, 5)
		exportSrv := export.NewExportService(jobSrv)

		router = chi.NewRouter()
		router.Use(middleware.RequestID)
		handlers.NewServiceHandler(jobSrv, pollerSrv, exportSrv).RegisterRoutes(router)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
		trigger.lastLimit = 0
		trigger.result = nil
		trigger.err = nil
	})

	stamp := func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04:05")
	}

	do := func(method, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		return rec
	}

	Context("health", func() {
		It("responds ok", func() {
			rec := do(http.MethodGet, "/health")
			Expect(rec.Code).To(Equal(http.StatusOK))

			resp := api.Health{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.Status).To(Equal("ok"))
		})
	})

	Context("list jobs", func() {
		It("serves the derived view", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, id, "submitted", "", stamp(base)))
			Expect(tx.Error).To(BeNil())

			rec := do(http.MethodGet, "/api/v1alpha1/jobs")
			Expect(rec.Code).To(Equal(http.StatusOK))

			resp := api.JobList{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.Total).To(Equal(1))

			job := resp.Jobs[0]
			Expect(job.Id).To(Equal(id))
			Expect(job.RawStatus).To(Equal("submitted"))
			Expect(job.Status).To(Equal("processing"))
			Expect(job.StatusDisplay).To(Equal("Processing"))
			Expect(job.Provider).To(Equal("fal"))
			Expect(job.ProviderStatus).To(Equal("n/a"))
			Expect(job.MinutesSinceUpdate).To(Equal(12.0))
			Expect(job.IsStuck).To(BeTrue())
		})

		It("filters by canonical status", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "submitted", "fal", stamp(base)))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "completed", "fal", stamp(base)))
			Expect(tx.Error).To(BeNil())

			rec := do(http.MethodGet, "/api/v1alpha1/jobs?status=completed")
			Expect(rec.Code).To(Equal(http.StatusOK))

			resp := api.JobList{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.Total).To(Equal(1))
			Expect(resp.Jobs[0].Status).To(Equal("completed"))
		})

		It("rejects unknown status values", func() {
			rec := do(http.MethodGet, "/api/v1alpha1/jobs?status=bogus")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			resp := api.Error{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.Message).To(ContainSubstring("bogus"))
			Expect(resp.RequestId).ToNot(BeEmpty())
		})

		It("rejects a non-numeric limit", func() {
			rec := do(http.MethodGet, "/api/v1alpha1/jobs?limit=ten")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("get job", func() {
		It("returns the job with its raw and canonical statuses", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobWithUpdateStm, id, "cancelled_user", "sora", stamp(base), stamp(base.Add(2*time.Minute))))
			Expect(tx.Error).To(BeNil())

			rec := do(http.MethodGet, "/api/v1alpha1/jobs/"+id.String())
			Expect(rec.Code).To(Equal(http.StatusOK))

			resp := api.Job{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.Status).To(Equal("user_cancelled"))
			Expect(resp.StatusDisplay).To(Equal("User Cancelled"))
			Expect(resp.Provider).To(Equal("sora"))
			Expect(resp.MinutesSinceUpdate).To(Equal(10.0))
			Expect(resp.IsStuck).To(BeFalse())
		})

		It("returns 404 when the job is missing", func() {
			rec := do(http.MethodGet, "/api/v1alpha1/jobs/"+uuid.NewString())
			Expect(rec.Code).To(Equal(http.StatusNotFound))

			resp := api.Error{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.RequestId).ToNot(BeEmpty())
		})

		It("returns 400 on a malformed id", func() {
			rec := do(http.MethodGet, "/api/v1alpha1/jobs/not-a-uuid")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("summary", func() {
		It("aggregates totals per state and provider", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "submitted", "fal", stamp(base)))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "queueing", "sora", stamp(base.Add(11*time.Minute))))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "completed", "fal", stamp(base)))
			Expect(tx.Error).To(BeNil())

			rec := do(http.MethodGet, "/api/v1alpha1/jobs/summary")
			Expect(rec.Code).To(Equal(http.StatusOK))

			resp := api.JobSummary{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.Total).To(Equal(3))
			Expect(resp.ByStatus["processing"]).To(Equal(1))
			Expect(resp.ByStatus["queued"]).To(Equal(1))
			Expect(resp.ByStatus["completed"]).To(Equal(1))
			Expect(resp.ByProvider["fal"]).To(Equal(2))
			Expect(resp.ByProvider["sora"]).To(Equal(1))
			Expect(resp.Stuck).To(Equal(1))
		})
	})

	Context("stuck jobs", func() {
		It("lists only jobs past the threshold", func() {
			stuckID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, stuckID, "queued", "fal", stamp(base)))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "queued", "fal", stamp(base.Add(5*time.Minute))))
			Expect(tx.Error).To(BeNil())

			rec := do(http.MethodGet, "/api/v1alpha1/jobs/stuck")
			Expect(rec.Code).To(Equal(http.StatusOK))

			resp := api.JobList{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.Total).To(Equal(1))
			Expect(resp.Jobs[0].Id).To(Equal(stuckID))
		})
	})

	Context("activity", func() {
		It("buckets jobs per window and provider", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "queued", "fal", stamp(base)))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "queued", "fal", stamp(base.Add(time.Minute))))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "queued", "sora", stamp(base)))
			Expect(tx.Error).To(BeNil())

			rec := do(http.MethodGet, "/api/v1alpha1/jobs/activity?bucket=15m")
			Expect(rec.Code).To(Equal(http.StatusOK))

			resp := api.ActivityList{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.Buckets).To(HaveLen(2))
			Expect(resp.Buckets[0].Provider).To(Equal("fal"))
			Expect(resp.Buckets[0].Jobs).To(Equal(2))
			Expect(resp.Buckets[1].Provider).To(Equal("sora"))
			Expect(resp.Buckets[1].Jobs).To(Equal(1))
		})

		It("rejects a malformed bucket", func() {
			rec := do(http.MethodGet, "/api/v1alpha1/jobs/activity?bucket=banana")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("export", func() {
		It("streams a workbook", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), "queued", "fal", stamp(base)))
			Expect(tx.Error).To(BeNil())

			rec := do(http.MethodGet, "/api/v1alpha1/jobs/export")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("attachment"))
			Expect(rec.Body.Len()).ToNot(BeZero())
		})
	})

	Context("poller trigger", func() {
		It("runs one batch with the default size", func() {
			trigger.result = &poller.TriggerResult{Processed: 5, Updated: 2}

			rec := do(http.MethodPost, "/api/v1alpha1/poller/run")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(trigger.lastLimit).To(Equal(5))

			resp := api.PollerRunResult{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(BeNil())
			Expect(resp.Processed).To(Equal(5))
			Expect(resp.Updated).To(Equal(2))
		})

		It("rejects an out of range batch size", func() {
			rec := do(http.MethodPost, "/api/v1alpha1/poller/run?limit=999")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps a missing poller configuration to bad gateway", func() {
			trigger.err = poller.ErrNotConfigured

			rec := do(http.MethodPost, "/api/v1alpha1/poller/run")
			Expect(rec.Code).To(Equal(http.StatusBadGateway))
		})
	})
})
