package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pleky/nyx-gym-admin/internal/handler"
	"github.com/pleky/nyx-gym-admin/internal/middleware"
	"github.com/pleky/nyx-gym-admin/internal/model"
	"github.com/pleky/nyx-gym-admin/internal/service"
	"github.com/pleky/nyx-gym-admin/pkg/config"
	"github.com/pleky/nyx-gym-admin/pkg/database"
	"github.com/pleky/nyx-gym-admin/pkg/jwtutil"
	"github.com/pleky/nyx-gym-admin/pkg/logger"
	"github.com/pleky/nyx-gym-admin/prometheus"
)

// allModels is the migration set, ordered parents first
var allModels = []interface{}{
	&model.Gym{},
	&model.StaffUser{},
	&model.Member{},
	&model.MembershipPlan{},
	&model.Membership{},
	&model.Payment{},
	&model.CheckIn{},
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gymd",
		Short: "Multi-tenant gym operations ledger",
	}

	rootCmd.AddCommand(serveCmd(), migrateCmd(), sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, initializes the logger and database
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "gym-admin",
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	if _, err := database.InitDB(&cfg.DB); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info("Database connection established", cfg.LogConfig()...)

	return cfg, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			if err := database.MigrateModels(allModels...); err != nil {
				return err
			}

			db := database.GetDB()
			jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
				SigningKey:      cfg.JWT.SigningKey,
				ExpirationHours: cfg.JWT.ExpirationHours,
			})
			prometheus.InitMetrics()

			// Services
			tenants := service.NewTenantService(db, log)
			staff := service.NewStaffService(db, log)
			members := service.NewMemberService(db, log)
			plans := service.NewPlanService(db, log)
			memberships := service.NewMembershipService(db, log, cfg.Membership.RenewalWindowDays)
			attendance := service.NewAttendanceService(db, log, memberships)
			payments := service.NewPaymentService(db, log)
			reports := service.NewReportService(db, log)

			// Handlers
			authHandler := handler.NewAuthHandler(tenants, staff, jwt)
			gymHandler := handler.NewGymHandler(tenants)
			staffHandler := handler.NewStaffHandler(staff)
			memberHandler := handler.NewMemberHandler(members)
			planHandler := handler.NewPlanHandler(plans)
			membershipHandler := handler.NewMembershipHandler(memberships)
			checkInHandler := handler.NewCheckInHandler(attendance)
			paymentHandler := handler.NewPaymentHandler(payments)
			reportHandler := handler.NewReportHandler(reports)

			e := echo.New()

			// Apply global middleware - order matters
			e.Use(echomiddleware.Recover())
			e.Use(echomiddleware.CORS())
			e.Use(middleware.RequestIDMiddleware())
			e.Use(logger.Middleware())
			e.Use(prometheus.MetricsMiddleware())

			// Public routes
			e.GET("/health", handler.HealthCheck)
			e.GET("/metrics", handler.MetricsHandler)

			auth := e.Group("/auth")
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			// API routes - all require authentication
			api := e.Group("/api")
			api.Use(middleware.JWTAuthMiddleware(jwt))

			api.GET("/gym", gymHandler.Get)

			// Staff management - owner only
			staffGroup := api.Group("/staff", middleware.RequireOwner)
			staffGroup.POST("", staffHandler.Create)
			staffGroup.GET("", staffHandler.List)
			staffGroup.DELETE("/:id", staffHandler.SoftDelete)

			// Member registry
			membersGroup := api.Group("/members")
			membersGroup.POST("", memberHandler.Create)
			membersGroup.GET("", memberHandler.List)
			membersGroup.GET("/restore-check", memberHandler.RestoreCheck)
			membersGroup.GET("/:id", memberHandler.Get)
			membersGroup.PATCH("/:id/status", memberHandler.UpdateStatus)
			membersGroup.DELETE("/:id", memberHandler.SoftDelete)
			membersGroup.POST("/:id/restore", memberHandler.Restore)
			membersGroup.GET("/:id/access", membershipHandler.Access)

			// Plan catalog - mutations are owner only
			plansGroup := api.Group("/plans")
			plansGroup.GET("", planHandler.List)
			plansGroup.GET("/:id", planHandler.Get)
			plansGroup.POST("", planHandler.Create, middleware.RequireOwner)
			plansGroup.PUT("/:id", planHandler.Update, middleware.RequireOwner)
			plansGroup.POST("/:id/deactivate", planHandler.Deactivate, middleware.RequireOwner)

			// Membership lifecycle
			membershipsGroup := api.Group("/memberships")
			membershipsGroup.POST("", membershipHandler.Assign)
			membershipsGroup.GET("", membershipHandler.ListByMember)
			membershipsGroup.POST("/sweep", membershipHandler.Sweep)
			membershipsGroup.POST("/:id/renew", membershipHandler.Renew)
			membershipsGroup.POST("/:id/cancel", membershipHandler.Cancel)

			// Attendance gate
			checkInsGroup := api.Group("/checkins")
			checkInsGroup.POST("", checkInHandler.Create)
			checkInsGroup.GET("", checkInHandler.History)
			checkInsGroup.DELETE("/:id", checkInHandler.Void)

			// Ledger
			paymentsGroup := api.Group("/payments")
			paymentsGroup.POST("", paymentHandler.Create)
			paymentsGroup.GET("", paymentHandler.ListByMember)
			paymentsGroup.GET("/:id", paymentHandler.Get)
			paymentsGroup.PATCH("/:id/status", paymentHandler.TransitionStatus)

			// Reports
			reportsGroup := api.Group("/reports")
			reportsGroup.GET("/revenue", reportHandler.Revenue)
			reportsGroup.GET("/attendance", reportHandler.Attendance)
			reportsGroup.GET("/churn", reportHandler.Churn)
			reportsGroup.GET("/expiring-memberships", reportHandler.ExpiringMemberships)

			log.Info("Starting server", zap.String("port", cfg.Server.Port))
			return e.Start(":" + cfg.Server.Port)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations and create partial unique indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := bootstrap()
			if err != nil {
				return err
			}

			if err := database.MigrateModels(allModels...); err != nil {
				return err
			}
			if err := database.CreatePartialIndexes(); err != nil {
				return err
			}

			log.Info("Migrations applied")
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	var gymID uint
	var asOfRaw string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Recompute membership statuses (invoked by an external scheduler)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			asOf := time.Now().UTC()
			if asOfRaw != "" {
				asOf, err = time.Parse(time.RFC3339, asOfRaw)
				if err != nil {
					asOf, err = time.Parse("2006-01-02", asOfRaw)
				}
				if err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
			}

			memberships := service.NewMembershipService(
				database.GetDB(), log, cfg.Membership.RenewalWindowDays)

			start := time.Now()
			transitioned, err := memberships.RecomputeStatuses(gymID, asOf)
			if err != nil {
				return err
			}
			prometheus.RecordSweep(transitioned, time.Since(start))

			log.Info("Sweep completed",
				zap.Uint("gym_id", gymID),
				zap.Time("as_of", asOf),
				zap.Int("transitioned", transitioned))
			return nil
		},
	}

	cmd.Flags().UintVar(&gymID, "gym-id", 0, "restrict the sweep to one gym (0 = all)")
	cmd.Flags().StringVar(&asOfRaw, "as-of", "", "evaluate statuses as of this instant (RFC3339 or YYYY-MM-DD, default now)")
	return cmd
}
