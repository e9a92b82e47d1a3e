package router

import (
	"time"

	"github.com/farosystems/camara-comercio-haedo-sub000/internal/config"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/handler"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/middleware"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/repository"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/service"
	"github.com/farosystems/camara-comercio-haedo-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	socioRepo := repository.NewSocioRepository(db)
	cargoRepo := repository.NewCargoRepository(db)
	movRepo := repository.NewMovimientoRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	cuentaRepo := repository.NewCuentaTesoreriaRepository(db)
	loteRepo := repository.NewLoteRepository(db)

	// ── Locks ────────────────────────────────────────────────────────────────
	// Redis-backed locks serialize ledger and session writers across instances.
	locker := redislock.New(rdb)
	socioLocks := service.NewSocioLocks(locker)
	loteLocks := service.NewLoteLocks(locker)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cargoSvc := service.NewCargoService(cargoRepo, socioRepo, movRepo, socioLocks)
	pagoSvc := service.NewPagoService(movRepo, socioRepo, cuentaRepo, loteRepo, socioLocks, loteLocks, dispatcher)
	vencimientoSvc := service.NewVencimientoService(movRepo)
	cuentaSvc := service.NewCuentaService(socioRepo, movRepo, vencimientoSvc)
	loteSvc := service.NewLoteService(loteRepo, cajaRepo, cuentaRepo, loteLocks)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	cargosH := handler.NewCargosHandler(cargoSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)
	sociosH := handler.NewSociosHandler(cuentaSvc)
	vencimientosH := handler.NewVencimientosHandler(vencimientoSvc)
	lotesH := handler.NewLotesHandler(loteSvc)
	tesoreriaH := handler.NewTesoreriaHandler(cajaRepo, cuentaRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operador, tesorero, administrador — declared per-endpoint
		todos := middleware.RequireRole("operador", "tesorero", "administrador")
		gestion := middleware.RequireRole("tesorero", "administrador")

		// Socios y cuenta corriente
		v1.GET("/socios", todos, sociosH.Listar)
		v1.GET("/socios/:id/cuenta", todos, sociosH.EstadoDeCuenta)

		// Cargos: la generación masiva es una operación de gestión
		v1.GET("/cargos", todos, cargosH.Listar)
		v1.POST("/cargos/generar", gestion, cargosH.Generar)

		// Pagos
		v1.POST("/pagos", todos, pagosH.Registrar)

		// Vencimientos — sweep on demand, also runs hourly in background
		v1.POST("/vencimientos/aplicar", gestion, vencimientosH.Aplicar)

		// Lotes de operaciones
		lotes := v1.Group("/lotes")
		{
			lotes.POST("/abrir", todos, lotesH.Abrir)
			lotes.GET("/activo", todos, lotesH.GetActivo)
			lotes.GET("/historial", gestion, lotesH.Historial)
			lotes.GET("/:id", todos, lotesH.Resumen)
			lotes.POST("/:id/detalles", todos, lotesH.RegistrarDetalle)
			lotes.POST("/:id/cerrar", todos, lotesH.Cerrar)
		}

		// Tesorería: catálogos de cajas y cuentas
		v1.GET("/tesoreria/cajas", todos, tesoreriaH.ListarCajas)
		v1.GET("/tesoreria/cuentas", todos, tesoreriaH.ListarCuentas)

		// Usuarios — administración
		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
