package cli

import (
	"context"

	"autoparts/internal/cart"
	"autoparts/internal/config"
	"autoparts/internal/handler"
	"autoparts/internal/infra/db"
	"autoparts/internal/infra/kafka"
	infrarepo "autoparts/internal/infra/repository"
	"autoparts/internal/server"
	"autoparts/internal/usecase"
	auth "autoparts/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func NewServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			if migrate {
				if err := db.Migrate(rt.db); err != nil {
					return err
				}
			}

			ctx, cancel := server.WithSignals(cmd.Context())
			defer cancel()
			return serve(ctx, rt)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run migrations before serving")

	return cmd
}

func serve(ctx context.Context, rt *runtime) error {
	app, err := NewApp(rt.cfg, rt.log, rt.db)
	if err != nil {
		return err
	}
	defer app.Close()

	//Server起動
	return server.Run(ctx, app.Echo, rt.cfg.Addr(), rt.log, app.Carts.Close)
}

// App は組み立て済みの HTTP アプリ
type App struct {
	Echo  *echo.Echo
	Carts *cart.Manager

	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func NewApp(cfg config.Config, log zerolog.Logger, gdb *gorm.DB) (*App, error) {
	app := &App{}

	//Repository（GORM実装）生成
	userRepo := infrarepo.NewUserGormRepository(gdb)
	productRepo := infrarepo.NewProductGormRepository(gdb)
	categoryRepo := infrarepo.NewCategoryGormRepository(gdb)
	brandRepo := infrarepo.NewBrandGormRepository(gdb)
	carModelRepo := infrarepo.NewCarModelGormRepository(gdb)
	auditRepo := infrarepo.NewAuditLogGormRepository(gdb)
	inventoryRepo := infrarepo.NewInventoryGormRepository(gdb)
	txManager := infrarepo.NewTxManagerGorm(gdb)

	// KAFKA_BROKERS があればカートの変化を流す
	var observers []cart.Observer
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaCartTopic, log)
		app.closers = append(app.closers, func() {
			if err := producer.Close(); err != nil {
				log.Error().Err(err).Msg("kafka producer close")
			}
		})
		observers = append(observers, kafka.NewCartPublisher(producer, log))
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaCartTopic).Msg("cart events enabled")
	}

	carts, err := cart.NewManager(infrarepo.NewCartGormRepository(gdb), cfg.CartSessionCacheSize, log, observers...)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Carts = carts

	//Usecase生成
	prices := usecase.NewPersianPriceFormatter()
	clock := auth.SystemClock{}

	categoryUC := usecase.NewCategoryUsecase(categoryRepo, auditRepo)
	brandUC := usecase.NewBrandUsecase(brandRepo, auditRepo)
	carModelUC := usecase.NewCarModelUsecase(carModelRepo, auditRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, brandRepo, carModelRepo, inventoryRepo, auditRepo, txManager, prices)
	cartUC := usecase.NewCartUsecase(carts, userRepo, txManager, prices)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	registerUC := auth.NewRegisterUserUsecase(userRepo, auth.NewBcryptPasswordHasher(bcrypt.DefaultCost), clock)
	loginUC := auth.NewLoginUsecase(userRepo, auth.NewBcryptPasswordVerifier(), auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL), clock)
	logoutUC := auth.NewLogoutUsecase(userRepo, carts)
	profileUC := auth.NewProfileUsecase(userRepo)
	forceLogoutUC := auth.NewForceLogoutUsecase(userRepo, auditRepo, carts, clock)

	//Handler生成
	e := server.New(cfg, log)
	server.RegisterRoutes(e, cfg, userRepo, server.Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC, logoutUC, profileUC),
		Product:      handler.NewProductHandler(productUC, categoryUC, brandUC, carModelUC),
		Cart:         handler.NewCartHandler(cartUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminCatalog: handler.NewAdminCatalogHandler(categoryUC, brandUC, carModelUC, auditUC),
		AdminUser:    handler.NewAdminUserHandler(forceLogoutUC),
	})
	app.Echo = e

	return app, nil
}
