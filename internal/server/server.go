package server

import (
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/showroom/internal/auth"
	authdomain "github.com/smallbiznis/showroom/internal/auth/domain"
	"github.com/smallbiznis/showroom/internal/cache"
	"github.com/smallbiznis/showroom/internal/chat"
	chatdomain "github.com/smallbiznis/showroom/internal/chat/domain"
	"github.com/smallbiznis/showroom/internal/config"
	"github.com/smallbiznis/showroom/internal/customer"
	customerdomain "github.com/smallbiznis/showroom/internal/customer/domain"
	"github.com/smallbiznis/showroom/internal/footfall"
	footfalldomain "github.com/smallbiznis/showroom/internal/footfall/domain"
	"github.com/smallbiznis/showroom/internal/observability"
	obsmiddleware "github.com/smallbiznis/showroom/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/showroom/internal/observability/metrics"
	obstracing "github.com/smallbiznis/showroom/internal/observability/tracing"
	"github.com/smallbiznis/showroom/internal/order"
	orderdomain "github.com/smallbiznis/showroom/internal/order/domain"
	"github.com/smallbiznis/showroom/internal/product"
	productdomain "github.com/smallbiznis/showroom/internal/product/domain"
	"github.com/smallbiznis/showroom/internal/ratelimit"
	"github.com/smallbiznis/showroom/internal/sharelink"
	sharelinkdomain "github.com/smallbiznis/showroom/internal/sharelink/domain"
	"github.com/smallbiznis/showroom/internal/sold"
	solddomain "github.com/smallbiznis/showroom/internal/sold/domain"
	"github.com/smallbiznis/showroom/internal/storage"
	"github.com/smallbiznis/showroom/internal/video"
	videodomain "github.com/smallbiznis/showroom/internal/video/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	ratelimit.Module,
	cache.Module,
	storage.Module,
	auth.Module,
	footfall.Module,
	product.Module,
	chat.Module,
	customer.Module,
	sold.Module,
	video.Module,
	sharelink.Module,
	order.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// uploadStore persists multipart uploads and forgets them again when the
// record that referenced them could not be written.
type uploadStore interface {
	SaveFile(ctx context.Context, area string, fh *multipart.FileHeader) (string, error)
	Remove(stored string) error
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	authsvc      authdomain.Service
	footfallSvc  footfalldomain.Service
	productSvc   productdomain.Service
	customerSvc  customerdomain.Service
	chatSvc      chatdomain.Service
	soldSvc      solddomain.Service
	videoSvc     videodomain.Service
	shareLinkSvc sharelinkdomain.Service
	orderSvc     orderdomain.Service

	categories   orderdomain.MasterData[orderdomain.Category]
	salespersons orderdomain.MasterData[orderdomain.Salesperson]
	statuses     orderdomain.MasterData[orderdomain.StatusOption]
	karigars     orderdomain.MasterData[orderdomain.Karigar]

	uploads        uploadStore
	importSettings *config.ImportSettingsHolder
}

type ServerParams struct {
	fx.In

	Gin *gin.Engine
	Cfg config.Config
	Log *zap.Logger

	Authsvc      authdomain.Service
	FootfallSvc  footfalldomain.Service
	ProductSvc   productdomain.Service
	CustomerSvc  customerdomain.Service
	ChatSvc      chatdomain.Service
	SoldSvc      solddomain.Service
	VideoSvc     videodomain.Service
	ShareLinkSvc sharelinkdomain.Service
	OrderSvc     orderdomain.Service

	Categories   orderdomain.MasterData[orderdomain.Category]
	Salespersons orderdomain.MasterData[orderdomain.Salesperson]
	Statuses     orderdomain.MasterData[orderdomain.StatusOption]
	Karigars     orderdomain.MasterData[orderdomain.Karigar]

	Files          *storage.Local
	ImportSettings *config.ImportSettingsHolder `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	settings := p.ImportSettings
	if settings == nil {
		settings = config.NewStaticImportSettings(config.DefaultImportSettings())
	}

	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		log:            p.Log.Named("http.server"),
		authsvc:        p.Authsvc,
		footfallSvc:    p.FootfallSvc,
		productSvc:     p.ProductSvc,
		customerSvc:    p.CustomerSvc,
		chatSvc:        p.ChatSvc,
		soldSvc:        p.SoldSvc,
		videoSvc:       p.VideoSvc,
		shareLinkSvc:   p.ShareLinkSvc,
		orderSvc:       p.OrderSvc,
		categories:     p.Categories,
		salespersons:   p.Salespersons,
		statuses:       p.Statuses,
		karigars:       p.Karigars,
		uploads:        p.Files,
		importSettings: settings,
	}

	svc.registerAPIRoutes()
	svc.engine.Static("/"+storage.PublicPrefix, p.Files.Root())
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	s.registerAuthRoutes(api.Group("/auth"))
	s.registerFootfallRoutes(api.Group("/footfall"))
	s.registerProductRoutes(api.Group("/products"))
	s.registerCustomerRoutes(api.Group("/customers"))
	s.registerChatRoutes(api.Group("/chat"))
	s.registerSoldRoutes(api.Group("/sold"))
	s.registerVideoRoutes(api.Group("/videos"))
	s.registerOrderRoutes(api.Group("/orders"))
}

func (s *Server) registerAuthRoutes(r *gin.RouterGroup) {
	admin := RequireRole(authdomain.Privileged...)

	r.POST("/login", s.Login)
	r.POST("/register", s.RequireAuth(), admin, s.Register)
	r.GET("/users", s.RequireAuth(), s.ListUsers)
	r.GET("/profile", s.RequireAuth(), s.Profile)
	r.DELETE("/delete/:id", s.RequireAuth(), admin, s.DeleteUser)
	r.PUT("/update/:id", s.RequireAuth(), admin, s.UpdateUser)
	r.PATCH("/update-password", s.RequireAuth(), s.UpdateOwnPassword)
	r.PATCH("/status", s.RequireAuth(), admin, s.SetUserStatus)
	r.PATCH("/password", s.RequireAuth(), admin, s.ResetPassword)
}

func (s *Server) registerFootfallRoutes(r *gin.RouterGroup) {
	r.Use(s.RequireAuth())

	r.POST("/save/:userId", s.SaveFootfall)
	r.GET("/get", s.ListFootfall)
	r.PATCH("/update/:userId/:entryId", s.UpdateFootfallEntry)
	r.DELETE("/delete/:userId/:entryId", s.DeleteFootfallEntry)
	r.POST("/upload-csv", RequireRole(authdomain.Privileged...), s.ImportFootfall)
}

func (s *Server) registerProductRoutes(r *gin.RouterGroup) {
	r.Use(s.RequireAuth())

	r.POST("/search", s.SearchProducts)
	r.POST("/upload-csv", RequireRole(authdomain.Privileged...), s.ImportProducts)
}

func (s *Server) registerCustomerRoutes(r *gin.RouterGroup) {
	r.Use(s.RequireAuth())

	r.POST("/save", s.CreateCustomer)
	r.GET("/get", s.ListCustomers)
	r.DELETE("/delete/:id", s.DeleteCustomer)
	r.PUT("/update/:id", s.UpdateCustomer)
	r.GET("/search/:name", s.SearchCustomers)
	r.GET("/view/:id", s.GetCustomer)
	r.GET("/followup/today", s.FollowUpsToday)
	r.GET("/followup/missed", s.FollowUpsMissed)
}

func (s *Server) registerChatRoutes(r *gin.RouterGroup) {
	r.Use(s.RequireAuth())

	r.GET("/get/:customerId", s.GetChat)
	r.POST("/add/:customerId", s.AddChatMessage)
	r.PUT("/update/:customerId/:messageId", s.UpdateChatMessage)
	r.DELETE("/delete/:customerId/:messageId", s.DeleteChatMessage)
}

func (s *Server) registerSoldRoutes(r *gin.RouterGroup) {
	r.Use(s.RequireAuth())

	r.POST("/save", s.CreateSale)
	r.GET("/get", s.ListSales)
	r.GET("/view/:id", s.GetSale)
	r.PUT("/update/:id", s.UpdateSale)
	r.GET("/receipt/:id", s.SaleReceipt)
}

func (s *Server) registerVideoRoutes(r *gin.RouterGroup) {
	auth := s.RequireAuth()

	r.GET("", auth, s.ListVideos)
	r.POST("/search", s.SearchVideos)
	r.POST("/create", auth, s.CreateVideo)
	r.GET("/share-one/:id", s.StreamVideo)
	r.POST("/generate-shareable-link", auth, s.GenerateShareLink)
	r.GET("/share/:token", s.SharedVideos)
	r.GET("/shared/get", s.ListShareLinks)
	r.GET("/favorite/get", auth, s.ListFavorites)
	r.GET("/favorite/:customerName", auth, s.FavoritesByCustomer)
	r.POST("/favorite", s.AddFavorite)
	r.DELETE("/favorite/:id", s.DeleteFavorite)
	r.GET("/:category", auth, s.VideosByCategory)
	r.DELETE("/:id", auth, s.DeleteVideo)
}

func (s *Server) registerOrderRoutes(r *gin.RouterGroup) {
	auth := s.RequireAuth()

	r.POST("/create", auth, s.CreateOrder)
	r.GET("/get", auth, s.ListOrders)
	r.PUT("/update/:id", auth, s.UpdateOrderStatus)
	r.PUT("/edit/:id", auth, s.EditOrder)

	registerMasterData(r.Group("/category"), auth, s.categories, true)
	registerMasterData(r.Group("/salesperson"), auth, s.salespersons, false)
	registerMasterData(r.Group("/status"), auth, s.statuses, true)
	registerMasterData(r.Group("/karigar"), auth, s.karigars, true)
}

func (s *Server) registerFallback() {
	publicDir := s.cfg.PublicDir
	s.engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			AbortWithError(c, ErrNotFound)
			return
		}

		// static assets
		if fileExists(publicDir, c.Request.URL.Path) {
			c.File(filepath.Join(publicDir, filepath.Clean(c.Request.URL.Path)))
			return
		}

		// SPA fallback
		c.File(filepath.Join(publicDir, "index.html"))
	})
}

func fileExists(publicDir, reqPath string) bool {
	clean := filepath.Clean(reqPath)

	// prevent path traversal
	if clean == "." || clean == "/" || strings.Contains(clean, "..") {
		return false
	}

	fullPath := filepath.Join(publicDir, clean)

	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
