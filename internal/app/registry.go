package app

import (
	"database/sql"

	"go-vacation/internal/company"
	"go-vacation/internal/config"
	"go-vacation/internal/department"
	"go-vacation/internal/employee"
	"go-vacation/internal/messaging/kafka"
	"go-vacation/internal/middleware"
	"go-vacation/internal/permission"
	"go-vacation/internal/vacation"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	permissionRepo := permission.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	vacationRepo := vacation.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Permission Core ---
	enforcer, err := permission.NewEnforcer()
	if err != nil {
		return err
	}
	permissionService := permission.NewService(permissionRepo, enforcer, logger)

	// --- Services ---
	companyService := company.NewService(db, companyRepo, rdb, cfg.Limits, cfg.Vacation, cfg.PublicBaseURL, logger)
	departmentService := department.NewService(db, departmentRepo, rdb, cfg.Limits, logger)
	employeeService := employee.NewService(db, employeeRepo, outboxRepo, rdb, cfg.Limits, logger)
	vacationService := vacation.NewService(db, vacationRepo, outboxRepo, cfg.Vacation, logger)

	// --- Handlers ---
	permissionHandler := permission.NewHandler(permissionService, logger)
	companyHandler := company.NewHandler(companyService, logger)
	departmentHandler := department.NewHandler(departmentService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	vacationHandler := vacation.NewHandler(vacationService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ContextLogger(logger),
		middleware.Idempotency(rdb, logger),
	)
	{
		permission.RegisterRoutes(api, permissionHandler)
		company.RegisterRoutes(api, companyHandler, permissionService)
		department.RegisterRoutes(api, departmentHandler, permissionService)
		employee.RegisterRoutes(api, employeeHandler, permissionService)
		vacation.RegisterRoutes(api, vacationHandler, permissionService)
	}

	return nil
}
