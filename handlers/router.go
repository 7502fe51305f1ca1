package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

// PortfolioService is the read/replace surface of the portfolio aggregate.
type PortfolioService interface {
	GetPortfolio(ctx context.Context) (*models.Portfolio, error)
	UpdatePortfolio(ctx context.Context, doc *models.Portfolio) error
	GetPersonalInfo(ctx context.Context) (*models.PersonalInfo, error)
	GetSkills(ctx context.Context) (models.SkillSet, error)
	GetExperience(ctx context.Context) ([]models.WorkExperience, error)
	GetProjects(ctx context.Context) ([]models.Project, error)
	GetAbout(ctx context.Context) (*models.AboutInfo, error)
	GetCredentials(ctx context.Context) (*models.Credentials, error)
}

type ContactService interface {
	CreateMessage(ctx context.Context, in models.ContactMessageCreate) (*models.ContactMessage, error)
	ListMessages(ctx context.Context, limit, skip int) ([]models.ContactMessage, error)
	MarkRead(ctx context.Context, id string) (bool, error)
}

type AnalyticsService interface {
	TrackVisit(ctx context.Context, in models.SiteVisitCreate, callerIP string) (bool, error)
	GetVisitStats(ctx context.Context, days int) (models.VisitStats, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Deps carries everything RegisterRoutes wires into the router.
type Deps struct {
	Portfolio PortfolioService
	Contact   ContactService
	Analytics AnalyticsService
	// Ready lists the dependencies checked by /api/ready, by name.
	Ready map[string]Pinger
	// WriteLimit guards the public write endpoints. Nil disables it.
	WriteLimit gin.HandlerFunc
}

// RegisterRoutes mounts the /api tree on r.
func RegisterRoutes(r *gin.Engine, d Deps) {
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if d.WriteLimit == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{d.WriteLimit, h}
	}

	api := r.Group("/api")

	health := NewHealthHandler(d.Portfolio, d.Ready)
	api.GET("/", health.Root)
	api.GET("/health", health.Health)
	api.GET("/ready", health.Ready)

	ph := NewPortfolioHandler(d.Portfolio)
	ph.Register(api.Group("/portfolio"))

	ch := NewContactHandler(d.Contact)
	contact := api.Group("/contact")
	contact.POST("/message", write(ch.Submit)...)
	contact.GET("/messages", ch.List)
	contact.PATCH("/messages/:id/read", ch.MarkRead)

	ah := NewAnalyticsHandler(d.Analytics)
	analytics := api.Group("/analytics")
	analytics.POST("/visit", write(ah.TrackVisit)...)
	analytics.GET("/stats", ah.Stats)
}
