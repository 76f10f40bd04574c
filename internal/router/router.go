package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nudriin/antrian-rest-api/internal/config"
	"github.com/nudriin/antrian-rest-api/internal/dates"
	"github.com/nudriin/antrian-rest-api/internal/handlers"
	"github.com/nudriin/antrian-rest-api/internal/middleware"
	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/repository/postgres"
	"github.com/nudriin/antrian-rest-api/internal/service"
	"github.com/nudriin/antrian-rest-api/internal/ws"
)

// New wires repositories, services, and handlers onto the chi router. The
// returned QueueService is shared with the scheduled report job.
func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config, d *dates.Service) (http.Handler, *service.QueueService) {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(log, cfg))

	// Health
	r.Get("/healthz", handlers.Health())

	// Repos + services + handlers
	locketRepo := postgres.NewLocketRepo(db)
	queueRepo := postgres.NewQueueRepo(db)
	userRepo := postgres.NewUserRepo(db)

	queueSvc := service.NewQueueService(queueRepo, locketRepo, userRepo, d, log)
	locketSvc := service.NewLocketService(locketRepo, queueRepo, log)
	userSvc := service.NewUserService(userRepo, cfg.JWTSecret, log)

	qh := handlers.NewQueueHTTP(queueSvc)
	lh := handlers.NewLocketHTTP(locketSvc)
	uh := handlers.NewUserHTTP(userSvc)

	admins := middleware.RequireRoles(models.RoleLocketAdmin, models.RoleSuperAdmin)
	superAdmin := middleware.RequireRoles(models.RoleSuperAdmin)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", uh.Register())
		r.Post("/login", uh.Login())
		r.With(middleware.RequireAuth).Get("/current", uh.Current())
		r.With(superAdmin).Get("/", uh.FindAll())
		r.With(superAdmin).Post("/admin", uh.AdminAdd())
		r.With(superAdmin).Delete("/{userId}", uh.Remove())
	})

	r.Route("/api/locket", func(r chi.Router) {
		r.With(admins).Post("/", lh.Save())
		r.Get("/", lh.FindAll())
		r.Get("/{locketName}", lh.FindByName())
		r.With(admins).Put("/{locketId}", lh.Update())
		r.With(superAdmin).Delete("/{locketId}", lh.Delete())
	})

	r.Route("/api/queue", func(r chi.Router) {
		r.With(middleware.RequireAuth).Post("/", qh.Save())

		r.Route("/locket/{locketId}", func(r chi.Router) {
			r.Get("/", qh.FindAllByLocket())
			r.Get("/total", qh.Total())
			r.Get("/current", qh.Current())
			r.Get("/next", qh.Next())
			r.Get("/remain", qh.Remain())
			r.With(admins).Get("/reset", qh.Reset())
		})

		r.With(admins).Patch("/{queueId}", qh.Done())
		r.With(admins).Patch("/{queueId}/pending", qh.Pending())

		r.Route("/all", func(r chi.Router) {
			r.Get("/statistics", qh.Statistics())
			r.Get("/daily-queue-last-month", qh.DailyLastMonth())
			r.Get("/queue-distribution-locket", qh.Distribution())
			r.Get("/queue-stats-last-month", qh.StatsLastMonth())
			r.Get("/queue-stats-last-six-month", qh.StatsLastSixMonth())
			r.Get("/queue-stats-all-time", qh.StatsAllTime())
		})
	})

	// Live queue boards
	sock := ws.NewQueueSocket(queueSvc, log, cfg.Origin)
	r.Get("/ws", sock.Handler())

	return r, queueSvc
}
