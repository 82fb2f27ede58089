package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"scoreboard-server/internal/auth"
	"scoreboard-server/internal/domain"
	"scoreboard-server/internal/ratelimit"
	"scoreboard-server/internal/service"
	"scoreboard-server/internal/storage"
)

// exportLimit caps how many leaderboard rows an archived snapshot contains.
const exportLimit = 100

// Handler wires HTTP routes to domain services.
type Handler struct {
	authSvc   service.AuthService
	scores    service.ScoreService
	issuer    *auth.TokenIssuer
	limiter   *ratelimit.Limiter
	storage   storage.Service
	bucket    string
	keyPrefix string
	logger    *logrus.Logger
}

func NewHandler(
	authSvc service.AuthService,
	scores service.ScoreService,
	issuer *auth.TokenIssuer,
	limiter *ratelimit.Limiter,
	store storage.Service,
	bucket, keyPrefix string,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		authSvc:   authSvc,
		scores:    scores,
		issuer:    issuer,
		limiter:   limiter,
		storage:   store,
		bucket:    bucket,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(h.requestLogger())

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.rateLimit(ratelimit.ClassDefault), h.register)
		api.POST("/auth/login", h.rateLimit(ratelimit.ClassDefault), h.login)

		// guard order on submissions: token, then the tighter submission
		// window, then ownership, then the workflow
		api.POST("/scores", h.authenticate, h.rateLimit(ratelimit.ClassSubmission), h.ownership, h.submitScore)

		api.GET("/leaderboard", h.rateLimit(ratelimit.ClassDefault), h.getLeaderboard)
		api.GET("/scores/me", h.authenticate, h.rateLimit(ratelimit.ClassDefault), h.getMyScores)
		api.GET("/scores/me/best", h.authenticate, h.rateLimit(ratelimit.ClassDefault), h.getMyBestScore)

		admin := api.Group("/admin", h.authenticate, h.adminOnly, h.rateLimit(ratelimit.ClassDefault))
		{
			admin.POST("/leaderboard/export", h.exportLeaderboard)
			admin.GET("/leaderboard/exports", h.listExports)
		}

		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type submitScoreRequest struct {
	Score      int64  `json:"score" binding:"required"`
	UserID     string `json:"userId"`
	PlayerName string `json:"playerName"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Password, domain.Role(req.Role))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":        userToResponse(user),
		"accessToken": token,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        userToResponse(user),
		"accessToken": token,
	})
}

func (h *Handler) submitScore(c *gin.Context) {
	req, ok := submissionFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid score submission"})
		return
	}
	claims := claimsFromContext(c)

	score, err := h.scores.Submit(c.Request.Context(), claims, req.Score, req.UserID, req.PlayerName)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Score submitted successfully",
		"score":   scoreToResponse(*score),
	})
}

func (h *Handler) getLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := h.scores.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := make([]LeaderboardEntryResponse, len(entries))
	for i := range entries {
		resp[i] = entryToResponse(entries[i])
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": resp})
}

func (h *Handler) getMyScores(c *gin.Context) {
	claims := claimsFromContext(c)

	scores, err := h.scores.UserScores(c.Request.Context(), claims.Subject)
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := make([]ScoreResponse, len(scores))
	for i := range scores {
		resp[i] = scoreToResponse(scores[i])
	}
	c.JSON(http.StatusOK, gin.H{"scores": resp})
}

func (h *Handler) getMyBestScore(c *gin.Context) {
	claims := claimsFromContext(c)

	score, err := h.scores.HighScore(c.Request.Context(), claims.Subject)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if score == nil {
		c.JSON(http.StatusOK, gin.H{"score": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": scoreToResponse(*score)})
}

func (h *Handler) exportLeaderboard(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot storage not configured"})
		return
	}

	entries, err := h.scores.Leaderboard(c.Request.Context(), exportLimit)
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := make([]LeaderboardEntryResponse, len(entries))
	for i := range entries {
		resp[i] = entryToResponse(entries[i])
	}
	body, err := json.Marshal(resp)
	if err != nil {
		h.renderError(c, err)
		return
	}

	key := fmt.Sprintf("%s/leaderboard-%s.json", h.keyPrefix, time.Now().UTC().Format("20060102T150405Z"))
	location, err := h.storage.PutSnapshot(c.Request.Context(), h.bucket, key, body)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": location, "entries": len(resp)})
}

func (h *Handler) listExports(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot storage not configured"})
		return
	}

	objects, err := h.storage.ListSnapshots(c.Request.Context(), h.bucket, h.keyPrefix)
	if err != nil {
		h.renderError(c, err)
		return
	}

	resp := make([]SnapshotResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": resp})
}

// renderError maps domain error kinds to stable HTTP statuses. Anything not in
// the taxonomy is a storage or internal fault and stays a 500.
func (h *Handler) renderError(c *gin.Context, err error) {
	var rateErr *domain.RateLimitError
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidScore), errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &rateErr):
		c.Header("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": rateErr.Error()})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type ScoreResponse struct {
	ID        string `json:"id"`
	Score     int64  `json:"score"`
	CreatedAt string `json:"created_at"`
}

type LeaderboardEntryResponse struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"playerName"`
	Score      int64  `json:"score"`
	AchievedAt string `json:"achievedAt"`
}

type SnapshotResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func scoreToResponse(score domain.Score) ScoreResponse {
	return ScoreResponse{
		ID:        score.ID,
		Score:     score.Value,
		CreatedAt: score.CreatedAt.Format(time.RFC3339),
	}
}

func entryToResponse(entry domain.LeaderboardEntry) LeaderboardEntryResponse {
	return LeaderboardEntryResponse{
		Rank:       entry.Rank,
		PlayerName: entry.PlayerName,
		Score:      entry.Score,
		AchievedAt: entry.AchievedAt.Format(time.RFC3339),
	}
}

func objectToResponse(obj storage.ObjectInfo) SnapshotResponse {
	resp := SnapshotResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
