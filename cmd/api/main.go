package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classattend/internal/attendance"
	"classattend/internal/auth"
	"classattend/internal/config"
	"classattend/internal/export"
	"classattend/internal/httpmiddleware"
	"classattend/internal/metrics"
	"classattend/internal/queue"
	"classattend/internal/roster"
	"classattend/internal/schedule"
	"classattend/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx := context.Background()

	table, err := schedule.Parse(cfg.ClassSchedule)
	if err != nil {
		return err
	}

	var st store.Store
	var db *store.DB
	if cfg.StoreBackend == "memory" {
		st = store.NewMemory()
		log.Println("using in-memory store")
	} else {
		db, err = store.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("warning: db not reachable, falling back to in-memory store: %v", err)
			st = store.NewMemory()
		} else {
			pg := store.NewPostgres(db.Client)
			if err := pg.EnsureSchema(ctx); err != nil {
				return err
			}
			st = pg
		}
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	if err := st.SeedStudents(ctx, roster.Seed()); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "attendance:marks")
	}

	svc := attendance.NewService(table, st, nil)
	if cfg.DebugOpenAll {
		log.Println("DEBUG_OPEN_ALL set: all windows treated as open")
		svc.SetOpenAll(true)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).PerIP())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		status := http.StatusOK
		if !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "store": cfg.StoreBackend})
	})

	loginLimiter := httpmiddleware.NewTokenBucket(cfg.LoginLimitPerMin, cfg.LoginLimitPerMin)

	r.POST("/v1/login", loginLimiter.PerIP(), func(c *gin.Context) {
		var req struct {
			RollNumber string `json:"roll_number" binding:"required"`
			Password   string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		subject, name, role := req.RollNumber, "", ""
		if req.RollNumber == cfg.AdminUser && req.Password == cfg.AdminPassword {
			name, role = "Administrator", auth.RoleAdmin
		} else {
			student, err := auth.Login(c.Request.Context(), st, req.RollNumber, req.Password)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidCredentials) {
					metrics.LoginsFailed.Inc()
					c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid roll number or password"})
					return
				}
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "roster unavailable"})
				return
			}
			name, role = student.Name, auth.RoleStudent
		}

		tokens, err := auth.Issue(subject, name, role, cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_at":    tokens.AccessExp.Unix(),
			"name":          name,
			"role":          role,
		})
	})

	r.POST("/v1/logout", auth.RequireRole(cfg.JWTSigningKey, cfg.JWTIssuer, ""), func(c *gin.Context) {
		// Tokens are stateless; the client drops them.
		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
	})

	studentGroup := r.Group("/v1", auth.RequireRole(cfg.JWTSigningKey, cfg.JWTIssuer, auth.RoleStudent))

	studentGroup.GET("/dashboard", func(c *gin.Context) {
		claims := auth.ClaimsFrom(c)
		marked, err := svc.Marked(c.Request.Context(), claims.Subject)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attendance store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"student":  claims.Name,
			"date":     svc.Today(),
			"marked":   marked,
			"schedule": table.Subjects(),
		})
	})

	studentGroup.GET("/subjects", func(c *gin.Context) {
		claims := auth.ClaimsFrom(c)
		states, err := svc.Overview(c.Request.Context(), claims.Subject)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attendance store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"current_time": svc.Now().Format("15:04:05"),
			"subjects":     states,
		})
	})

	studentGroup.POST("/attendance/:subject", func(c *gin.Context) {
		claims := auth.ClaimsFrom(c)
		subjectName := c.Param("subject")

		conf, err := svc.Mark(c.Request.Context(), claims.Subject, claims.Name, subjectName)
		if err != nil {
			status, reason, msg := rejection(err, subjectName)
			metrics.MarksRejected.WithLabelValues(reason).Inc()
			c.JSON(status, gin.H{"error": msg, "reason": reason})
			return
		}

		metrics.MarksAccepted.Inc()
		evt := queue.MarkedEvent{Date: svc.Today(), Subject: conf.Subject, RollNumber: claims.Subject}
		if err := queue.PublishMarked(c.Request.Context(), q, evt); err != nil {
			log.Printf("queue publish failed: %v", err)
		}

		c.JSON(http.StatusCreated, gin.H{
			"subject":   conf.Subject,
			"student":   conf.StudentName,
			"marked_at": conf.MarkedAt,
		})
	})

	adminGroup := r.Group("/v1/admin", auth.RequireRole(cfg.JWTSigningKey, cfg.JWTIssuer, auth.RoleAdmin))

	adminGroup.GET("/summary", func(c *gin.Context) {
		summary, err := buildSummary(c.Request.Context(), st, table)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attendance store unavailable"})
			return
		}
		resp := gin.H{
			"summary":      summary,
			"sorted_dates": summary.SortedDates(),
		}
		if counts, err := redisClient.DailyCounts(c.Request.Context(), svc.Today()); err == nil && len(counts) > 0 {
			resp["live_counts_today"] = counts
		}
		c.JSON(http.StatusOK, resp)
	})

	adminGroup.GET("/export", func(c *gin.Context) {
		summary, err := buildSummary(c.Request.Context(), st, table)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "attendance store unavailable"})
			return
		}
		wb, err := export.Workbook(summary)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="attendance-`+svc.Today()+`.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := wb.Write(c.Writer); err != nil {
			log.Printf("export write failed: %v", err)
		}
	})

	r.GET("/v1/debug/time", func(c *gin.Context) {
		now := svc.Now()
		status := make(map[string]gin.H, table.Len())
		for _, sub := range table.Subjects() {
			status[sub.Name] = gin.H{
				"start":  sub.Start.String(),
				"end":    sub.End.String(),
				"status": attendance.Evaluate(sub, now, false),
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"current_time": now.Format("2006-01-02 15:04:05"),
			"subjects":     status,
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

func buildSummary(ctx context.Context, st store.Store, table *schedule.Table) (attendance.Summary, error) {
	records, err := st.AllRecords(ctx)
	if err != nil {
		return attendance.Summary{}, err
	}
	students, err := st.Students(ctx)
	if err != nil {
		return attendance.Summary{}, err
	}
	return attendance.Summarize(records, len(students), table.Len()), nil
}

// rejection maps workflow errors to HTTP status, metric label, and message.
func rejection(err error, subject string) (int, string, string) {
	switch {
	case errors.Is(err, attendance.ErrSubjectUnknown):
		return http.StatusNotFound, "subject_unknown", "Subject " + subject + " is not on the schedule."
	case errors.Is(err, attendance.ErrNotOpenYet):
		return http.StatusUnprocessableEntity, "window_not_open", "Attendance window for " + subject + " has not opened yet."
	case errors.Is(err, attendance.ErrWindowClosed):
		return http.StatusUnprocessableEntity, "window_closed", "Attendance window for " + subject + " has closed."
	case errors.Is(err, attendance.ErrAlreadyMarked):
		return http.StatusConflict, "already_marked", "You have already marked attendance for " + subject + " today."
	default:
		return http.StatusServiceUnavailable, "storage_unavailable", "Attendance could not be recorded. Please try again."
	}
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
