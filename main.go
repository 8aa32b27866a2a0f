package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/gops/agent"
	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/MrBreathe/mrbreathe/connections"
	"github.com/MrBreathe/mrbreathe/controllers/api"
	"github.com/MrBreathe/mrbreathe/jobs"
	"github.com/MrBreathe/mrbreathe/middleware"
)

type myRouter struct {
	httprouter.Router
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (mr myRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
	mr.Router.ServeHTTP(rw, r)
	log.WithFields(log.Fields{
		"method": r.Method,
		"IP":     r.RemoteAddr,
		"URI":    r.URL.Path,
		"status": rw.statusCode,
	}).Info("visit")
}

func newRouter() *myRouter {
	r := &myRouter{
		Router: *httprouter.New(),
	}
	return r
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment")
	}

	log.Info("Start Jobs")
	startJobs()

	router := newRouter()

	// liveness
	router.GET("/api/ping", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Write([]byte("pong"))
	})

	// users
	router.POST("/api/user", api.CreateUser)
	router.PATCH("/api/user", api.UpdateUser)
	router.DELETE("/api/user/:email", api.DeleteUser)

	// profiles
	router.GET("/api/profile/:email", api.GetProfile)

	// credentials
	router.POST("/api/login", api.ValidateCredentials)

	// model inference
	router.POST("/api/predict/:email", api.Predict)

	// usage stats
	router.GET("/api/stats/usage", api.GetUsageStats)

	// gops agent
	if err := agent.Listen(agent.Options{Addr: ":6060", ShutdownCleanup: true}); err != nil {
		log.Fatal(err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	// Web Server
	log.Info("Web Server Start on Port " + port)
	srv := http.Server{
		Addr:    ":" + port,
		Handler: middleware.CORS(router),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Fatal("ListenAndServe", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("Shutdown Web Server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Web Server Shutdown Failed")
	}
	connections.ClosePostgres()
	log.Info("Web Server Was Been Shutdown")
}

func startJobs() {
	c := cron.New()
	c.AddJob("@hourly", jobs.NewUsageAggregator())
	c.Start()
}
