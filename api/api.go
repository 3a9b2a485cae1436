package api

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"growyourdough/internal/db/models/postgres/public/model"
	"growyourdough/internal/domain"
	"growyourdough/internal/logger"
	"growyourdough/internal/repository"
	"growyourdough/internal/service"
	"growyourdough/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApiHandler struct {
	// Db is only used for request logging and may be nil
	Db                   *sql.DB
	ApiRequestRepository repository.ApiRequestRepository
	LedgerService        service.LedgerService
	ProfileService       service.ProfileService
	AdvisorService       service.AdvisorService
	JwtDecodeToken       string
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to growyourdough"})
	})

	authed := router.Group("/")
	authed.Use(m.authMiddleware)

	authed.GET("/profile", m.getProfile)
	authed.PUT("/profile/name", m.updateName)
	authed.POST("/onboarding", m.completeOnboarding)
	authed.GET("/timeline", m.timeline)

	authed.GET("/portfolio", m.getPortfolio)
	authed.POST("/portfolio/refresh", m.refreshPortfolio)
	authed.POST("/portfolio/buy", m.buy)
	authed.POST("/portfolio/sell", m.sell)
	authed.PUT("/portfolio/rename", m.renameAccount)
	authed.GET("/portfolio/series", m.series)
	authed.GET("/portfolio/summary", m.summary)
	authed.GET("/portfolio/holdings.csv", m.holdingsCsv)

	authed.GET("/advisor/questions", m.quickQuestions)
	authed.POST("/advisor/chat", m.chat)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	router := m.InitializeRouterEngine()
	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	log := logger.FromContext(c.Request.Context())
	if code >= 500 {
		log.Errorw("request failed", "status", code, "error", err)
	} else {
		log.Infow("request rejected", "status", code, "error", err.Error())
	}
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// returnDomainError maps ledger and profile errors to status codes
func returnDomainError(err error, c *gin.Context) {
	var (
		validationErr   *domain.ValidationError
		notFoundErr     *domain.NotFoundError
		insufficientErr *domain.InsufficientSharesError
		persistenceErr  *domain.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &insufficientErr):
		returnErrorJsonCode(err, c, 400)
	case errors.As(err, &notFoundErr):
		returnErrorJsonCode(err, c, 404)
	case errors.As(err, &persistenceErr):
		logger.FromContext(c.Request.Context()).Errorw("persistence failed", "error", err)
		returnErrorJsonCode(errors.New("failed to save your changes, please try again"), c, 500)
	default:
		returnErrorJson(err, c)
	}
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// logRequestMiddlware attaches a request scoped logger and records every
// request. Rows go to api_request when a database is configured.
func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	requestID := uuid.New()
	log := logger.FromContext(ctx.Request.Context()).With(
		"requestID", requestID.String(),
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
	)
	ctx.Request = ctx.Request.WithContext(logger.WithLogger(ctx.Request.Context(), log))

	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	body, err := ctx.GetRawData()
	if err != nil {
		log.Warnw("failed to get raw data", "error", err)
	}
	ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

	start := time.Now().UTC()
	var req *model.APIRequest
	if m.Db != nil && m.ApiRequestRepository != nil {
		req, err = m.ApiRequestRepository.Start(ctx.Request.Context(), m.Db, model.APIRequest{
			IPAddress:   util.StringPointer(ctx.ClientIP()),
			Method:      ctx.Request.Method,
			Route:       ctx.Request.URL.Path,
			RequestBody: util.StringPointer(string(body)),
			StartTs:     start,
		})
		if err != nil {
			log.Warnw("failed to record api request", "error", err)
		}
	}

	ctx.Next()

	elapsed := time.Since(start).Milliseconds()
	status := ctx.Writer.Status()
	log.Infow("handled request", "status", status, "durationMs", elapsed)

	if req != nil {
		if userID := ctx.GetString(userIDKey); userID != "" {
			req.UserID = &userID
		}
		req.DurationMs = util.Int64Pointer(elapsed)
		req.StatusCode = util.Int32Pointer(int32(status))
		req.ResponseBody = util.StringPointer(w.body.String())

		err = m.ApiRequestRepository.Finish(ctx.Request.Context(), m.Db, *req)
		if err != nil {
			log.Warnw("failed to update api request", "error", err)
		}
	}
}
