package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "medication-tracker/internal/adapters/storage/memory"
	pg "medication-tracker/internal/adapters/storage/postgres"
	"medication-tracker/internal/domain/medications"
	"medication-tracker/internal/domain/refills"
	"medication-tracker/internal/domain/reminders"
	"medication-tracker/internal/middleware"
	"medication-tracker/internal/platform/logger"
	"medication-tracker/internal/ports/auth"

	_ "medication-tracker/docs" // registro del swagger doc

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger // opcional; si es nil se crea desde env
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		medsRepo      medications.Repository
		refillsRepo   refills.Repository
		remindersRepo reminders.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		medsRepo = pg.NewMedicationsRepo(db)
		refillsRepo = pg.NewRefillsRepo(db)
		remindersRepo = pg.NewRemindersRepo(db)
	} else {
		medsRepo = mem.NewMedicationsRepo()
		refillsRepo = mem.NewRefillsRepo()
		remindersRepo = mem.NewRemindersRepo()
	}

	// Services por módulo. medications y refills se necesitan mutuamente:
	// refills lee medicamentos/slots y ajusta stock al retirar; medications
	// dispara la re-proyección después de cada consumo de dosis.
	medsSvc := medications.NewService(medsRepo)
	refillsSvc := refills.NewService(refillsRepo, medsSvc, medsSvc)
	medsSvc.SetReprojector(refillsSvc)

	remindersSvc := reminders.NewService(remindersRepo)

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc)
	refills.RegisterRoutes(r, refillsSvc)
	reminders.RegisterRoutes(r, remindersSvc)

	return r
}
