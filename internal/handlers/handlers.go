package handlers

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/localnerve/jam-build-landing/internal/backup"
	"github.com/localnerve/jam-build-landing/internal/bus"
	"github.com/localnerve/jam-build-landing/internal/collections"
	"github.com/localnerve/jam-build-landing/internal/documents"
	"github.com/localnerve/jam-build-landing/internal/leads"
	"github.com/localnerve/jam-build-landing/internal/middleware"
	"github.com/localnerve/jam-build-landing/internal/page"
	"github.com/localnerve/jam-build-landing/internal/sections"
	"github.com/localnerve/jam-build-landing/internal/utils"
	"go.uber.org/zap"
)

// DefaultHeartbeat is the SSE keep-alive interval
const DefaultHeartbeat = 15 * time.Second

// Deps are the services behind the HTTP API
type Deps struct {
	Catalog  *documents.Catalog
	Leads    *leads.Service
	Backup   *backup.Service
	Composer *page.Composer
	Bus      *bus.Bus
	// Uploader is nil when no bucket is configured
	Uploader *backup.S3Uploader
	// Location is used for analytics buckets and exported dates
	Location *time.Location
	// LeadRateLimit is the number of submissions per minute per client, zero disables the limit
	LeadRateLimit int
	Heartbeat     time.Duration
	Log           *zap.Logger
}

// Handlers serves the public page API and the admin API
type Handlers struct {
	catalog     *documents.Catalog
	sections    *sections.Admin
	collections map[string]collectionAdmin
	leads       *leads.Service
	backup      *backup.Service
	composer    *page.Composer
	bus         *bus.Bus
	uploader    *backup.S3Uploader
	loc         *time.Location
	rateLimit   int
	heartbeat   time.Duration
	log         *zap.Logger
	now         func() time.Time

	closing   chan struct{}
	closeOnce sync.Once
}

func New(d Deps) *Handlers {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	heartbeat := d.Heartbeat
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}

	return &Handlers{
		catalog:  d.Catalog,
		sections: sections.NewAdmin(d.Catalog.Sections),
		collections: map[string]collectionAdmin{
			"faq":         &collectionRoutes[documents.FAQItem]{collections.NewAdmin(d.Catalog.FAQ, documents.NewFAQItem)},
			"depoimentos": &collectionRoutes[documents.Testimonial]{collections.NewAdmin(d.Catalog.Testimonials, documents.NewTestimonial)},
			"galeria":     &collectionRoutes[documents.GalleryItem]{collections.NewAdmin(d.Catalog.Gallery, documents.NewGalleryItem)},
		},
		leads:     d.Leads,
		backup:    d.Backup,
		composer:  d.Composer,
		bus:       d.Bus,
		uploader:  d.Uploader,
		loc:       loc,
		rateLimit: d.LeadRateLimit,
		heartbeat: heartbeat,
		log:       d.Log.Named("handlers"),
		now:       time.Now,
		closing:   make(chan struct{}),
	}
}

// Register mounts every route under /api. adminAuth guards /api/admin.
func (h *Handlers) Register(app *fiber.App, adminAuth fiber.Handler) {
	api := app.Group("/api", middleware.VersionMiddleware())

	// Public routes
	api.Get("/page", h.GetPage)
	api.Get("/data/:document", h.GetContentDocument)
	api.Post("/leads", h.leadLimiter(), h.SubmitLead)
	api.Get("/events", h.PublicEvents)

	admin := api.Group("/admin", adminAuth)

	// Documents
	admin.Get("/data/:document", h.GetDocument)
	admin.Put("/data/:document", h.PutDocument)
	admin.Delete("/data/:document", h.ResetDocument)
	admin.Delete("/data", h.ClearContent)
	admin.Post("/global-config/preset/:name", h.ApplyPreset)
	admin.Get("/seo/score", h.GetSEOScore)

	// Collections
	admin.Get("/collections/:collection", h.GetCollection)
	admin.Post("/collections/:collection/items", h.AddCollectionItem)
	admin.Patch("/collections/:collection/items/:id", h.UpdateCollectionItem)
	admin.Delete("/collections/:collection/items/:id", h.DeleteCollectionItem)
	admin.Patch("/collections/:collection/config", h.SetCollectionConfig)
	admin.Post("/collections/:collection/move", h.MoveCollectionItem)

	// Sections
	admin.Get("/sections", h.ListSections)
	admin.Post("/sections/move", h.MoveSection)
	admin.Post("/sections/reset", h.ResetSections)
	admin.Post("/sections/:id/toggle", h.ToggleSection)

	// Leads
	admin.Get("/leads", h.ListLeads)
	admin.Get("/leads/export", h.ExportLeads)
	admin.Get("/leads/analytics", h.LeadAnalytics)
	admin.Post("/leads/resend", h.BulkResendLeads)
	admin.Post("/leads/:id/resend", h.ResendLead)
	admin.Get("/leads/:id/attempts", h.LeadAttempts)
	admin.Delete("/leads/:id", h.DeleteLead)

	// Webhook
	admin.Get("/webhook", h.GetWebhook)
	admin.Put("/webhook", h.PutWebhook)
	admin.Post("/webhook/test", h.TestWebhook)

	// Backup
	admin.Get("/backup", h.ExportBackup)
	admin.Post("/backup", h.ImportBackup)
	admin.Post("/backup/remote", h.UploadBackup)

	admin.Get("/events", h.AdminEvents)
}

// leadLimiter throttles contact form submissions per client address
func (h *Handlers) leadLimiter() fiber.Handler {
	if h.rateLimit <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	return limiter.New(limiter.Config{
		Max:        h.rateLimit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return utils.ErrorResponse(c, "Too many submissions, try again in a minute", fiber.StatusTooManyRequests, "leads.ratelimit")
		},
	})
}
