package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vairanya/docs" //this is required to generate swagger docs
	"vairanya/internal/auth"
	"vairanya/internal/mailer"
	"vairanya/internal/ratelimiter"
	"vairanya/internal/session"
	"vairanya/internal/storage"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         storage.Storage
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	gate          *session.Gate
}

type config struct {
	addr        string
	db          dbConfig
	redis       redisConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	rateLimiter ratelimiter.Config
	session     sessionConfig
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}
type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}
type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	exp       time.Duration
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

type redisConfig struct {
	addr     string
	password string
	db       int
}

type sessionConfig struct {
	recordTTL  time.Duration
	lockTTL    time.Duration
	retryDelay time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public storefront reads
		r.Get("/categories", app.listCategoriesHandler)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", app.listProductsHandler)
			r.Get("/{slug}", app.getProductHandler)
			r.Get("/{productID}/reviews", app.listProductReviewsHandler)
			r.Get("/{productID}/reviews/stats", app.getReviewStatsHandler)
			r.With(app.AuthTokenMiddleware).Post("/{productID}/reviews", app.createReviewHandler)
		})
		r.Get("/carousels", app.listCarouselSlidesHandler)
		r.Get("/collections", app.listCollectionsHandler)
		r.Get("/collections/{slug}", app.getCollectionHandler)

		// Route that does NOT require authentication
		r.Put("/users/activate/{token}", app.activateUserHandler)

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/me", app.getCurrentUserHandler)
			r.Put("/", app.updateUserHandler)
			r.Post("/profile-picture", app.uploadProfilePictureHandler)
			r.Post("/logout", app.logoutHandler)
		})

		r.Route("/carts", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.getCartHandler)
			r.Post("/items", app.addCartItemHandler)
			r.Patch("/items/{itemID}", app.updateCartItemHandler)
			r.Delete("/items/{itemID}", app.removeCartItemHandler)
			r.Delete("/", app.clearCartHandler)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/checkout", app.checkoutHandler)
			r.Get("/", app.listMyOrdersHandler)
			r.Get("/{orderID}", app.getMyOrderHandler)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Delete("/{reviewID}", app.deleteOwnReviewHandler)
		})

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)

			// web shells (HttpOnly cookie flow)
			r.Post("/web/token", app.createTokenCookieHandler)
			r.Post("/web/refresh", app.refreshTokenCookieHandler)
			r.With(app.AuthTokenMiddleware).Post("/web/logout", app.logoutCookieHandler)
		})

		// Session resolution for web shells: who am I, where do I go.
		r.Route("/session", func(r chi.Router) {
			r.Use(app.OptionalAuthMiddleware)
			r.Get("/", app.sessionHandler)
			r.Post("/navigate", app.navigateHandler)
		})

		// Back-office surfaces gated by the session resolver + arbiter.
		r.Route("/admin", func(r chi.Router) {
			r.Use(app.OptionalAuthMiddleware)
			r.Use(app.SessionGateMiddleware)

			r.Get("/", app.adminOverviewHandler)
			r.Get("/sales", app.adminSalesHandler)

			r.Route("/products", func(r chi.Router) {
				r.Post("/", app.createProductHandler)
				r.Patch("/{productID}", app.updateProductHandler)
				r.Delete("/{productID}", app.deleteProductHandler)
				r.Post("/{productID}/variants", app.addVariantHandler)
				r.Patch("/{productID}/variants/{variantID}", app.updateVariantHandler)
				r.Delete("/{productID}/variants/{variantID}", app.deleteVariantHandler)
				r.Post("/{productID}/images", app.uploadProductImagesHandler)
				r.Delete("/{productID}/images", app.deleteProductImageHandler) // DELETE ?image_url={url}
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", app.createCategoryHandler)
				r.Patch("/{categoryID}", app.updateCategoryHandler)
				r.Delete("/{categoryID}", app.deleteCategoryHandler)
			})

			r.Route("/carousels", func(r chi.Router) {
				r.Get("/", app.adminListCarouselSlidesHandler)
				r.Post("/", app.createCarouselSlideHandler)
				r.Patch("/{slideID}", app.updateCarouselSlideHandler)
				r.Delete("/{slideID}", app.deleteCarouselSlideHandler)
			})

			r.Route("/collections", func(r chi.Router) {
				r.Post("/", app.createCollectionHandler)
				r.Patch("/{collectionID}", app.updateCollectionHandler)
				r.Put("/{collectionID}/products", app.setCollectionProductsHandler)
				r.Delete("/{collectionID}", app.deleteCollectionHandler)
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/pending", app.listPendingReviewsHandler)
				r.Patch("/{reviewID}/approve", app.approveReviewHandler)
				r.Delete("/{reviewID}", app.adminDeleteReviewHandler)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", app.adminListOrdersHandler)
				r.Get("/lookup/{orderNumber}", app.adminLookupOrderHandler)
				r.Get("/{orderID}", app.adminGetOrderHandler)
				r.Patch("/{orderID}/status", app.adminUpdateOrderStatusHandler)
			})
		})

		r.Route("/worker", func(r chi.Router) {
			r.Use(app.OptionalAuthMiddleware)
			r.Use(app.SessionGateMiddleware)

			r.Get("/dashboard", app.workerDashboardHandler)
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", app.listTasksHandler)
				r.Get("/mine", app.listMyTasksHandler)
				r.Post("/{taskID}/claim", app.claimTaskHandler)
				r.Post("/{taskID}/release", app.releaseTaskHandler)
				r.Post("/{taskID}/complete", app.completeTaskHandler)
			})
		})

		r.Route("/superadmin", func(r chi.Router) {
			r.Use(app.OptionalAuthMiddleware)
			r.Use(app.SessionGateMiddleware)

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", app.listStaffHandler)
				r.Post("/", app.addStaffHandler)
				r.Patch("/{memberID}/role", app.setStaffRoleHandler)
				r.Delete("/{memberID}", app.deactivateStaffHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
