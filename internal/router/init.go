package router

import (
	app "github.com/booknest/library-api/internal/application"
	"github.com/booknest/library-api/internal/container"
	"github.com/booknest/library-api/internal/infrastructure/notify"
	pginfra "github.com/booknest/library-api/internal/infrastructure/postgres"
	handlers "github.com/booknest/library-api/internal/interface/http"
	"github.com/booknest/library-api/internal/router/modules"
)

// Services bundles the application services built from the container
// singletons. main keeps a handle for background jobs (token sweep).
type Services struct {
	Accounts     *app.AccountService
	Users        *app.UserService
	Books        *app.BookService
	Reservations *app.ReservationService
}

func buildServices() *Services {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	accountRepo := pginfra.NewAccountRepository(pool)
	tokenRepo := pginfra.NewTokenRepository(pool)
	userRepo := pginfra.NewUserRepository(pool)
	bookRepo := pginfra.NewBookRepository(pool)
	reservationRepo := pginfra.NewReservationRepository(pool)
	categoryRepo := pginfra.NewCategoryRepository(pool)

	notifier := notify.NewQueueNotifier(container.GetRabbitPub(), logger, cfg.MailSendEnabled)

	return &Services{
		Accounts: &app.AccountService{
			Accounts: accountRepo,
			Tokens:   tokenRepo,
			Notifier: notifier,
			Logger:   logger,
			ResetURL: cfg.ResetPasswordURL,
		},
		Users: &app.UserService{
			Users:    userRepo,
			Accounts: accountRepo,
			JWT:      container.GetJWT(),
			Redis:    container.GetRedis(),
			Logger:   logger,
		},
		Books: &app.BookService{
			Books:        bookRepo,
			Categories:   categoryRepo,
			GCS:          container.GetGCS(),
			GCSBucket:    cfg.GCSBucket,
			ES:           container.GetES(),
			ESBooksIndex: cfg.ESBooksIndex,
			Logger:       logger,
		},
		Reservations: &app.ReservationService{
			Reservations: reservationRepo,
			Users:        userRepo,
			Accounts:     accountRepo,
			Books:        bookRepo,
			Notifier:     notifier,
			Logger:       logger,
		},
	}
}

// InitModules builds all services and registers the feature modules with the
// router registry. Called once during startup.
func InitModules(r *Registry) *Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	svcs := buildServices()

	accountHandler := handlers.NewAccountHandler(svcs.Accounts, logger)
	userHandler := handlers.NewUserHandler(svcs.Users, logger, cfg.CookieDomain, cfg.CookieSecure)
	bookHandler := handlers.NewBookHandler(svcs.Books, logger)
	reservationHandler := handlers.NewReservationHandler(svcs.Reservations, logger)
	categoryHandler := handlers.NewCategoryHandler(svcs.Books)

	r.Add(modules.NewAccountModule(accountHandler, jwt))
	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewBookModule(bookHandler, jwt))
	r.Add(modules.NewReservationModule(reservationHandler, jwt))
	r.Add(modules.NewCategoryModule(categoryHandler))

	return svcs
}
