package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rageventura-api/internal/apperror"
	"rageventura-api/internal/auth"
	"rageventura-api/internal/httpx"
	"rageventura-api/internal/middleware"
	"rageventura-api/internal/user"
)

const defaultAvatar = "/assets/default-avatar.png"

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Handler serves the profile endpoints. GET is public when a tag is
// given; everything else requires a resolved identity.
type Handler struct {
	svc           *Service
	authSvc       *auth.Service
	uploadsDir    string
	maxAvatarSize int64
	logger        *zap.Logger
}

func NewHandler(svc *Service, authSvc *auth.Service, uploadsDir string, maxAvatarSize int64, logger *zap.Logger) *Handler {
	return &Handler{
		svc:           svc,
		authSvc:       authSvc,
		uploadsDir:    uploadsDir,
		maxAvatarSize: maxAvatarSize,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(public, protected gin.IRouter) {
	public.GET("/profile", h.get)
	protected.POST("/profile", h.update)
	protected.POST("/profile/avatar", h.updateAvatar)
	protected.POST("/profile/change-password", h.changePassword)
}

// get serves the public profile when ?tag= is present, the caller's
// own profile otherwise.
func (h *Handler) get(c *gin.Context) {
	if tag := c.Query("tag"); tag != "" {
		view, badges, err := h.svc.GetByTag(c.Request.Context(), tag)
		if err != nil {
			httpx.Fail(c, h.logger, err)
			return
		}
		httpx.OK(c, gin.H{
			"user":           view,
			"badges":         badges,
			"is_own_profile": false,
		})
		return
	}

	id, ok := middleware.IdentityFromContext(c.Request.Context())
	if !ok {
		httpx.Fail(c, h.logger, apperror.Auth("not signed in"))
		return
	}

	u, badges, err := h.svc.GetOwn(c.Request.Context(), id.UserID)
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}
	httpx.OK(c, gin.H{
		"user":           u,
		"badges":         badges,
		"is_own_profile": true,
	})
}

type updateRequest struct {
	Username      *string `json:"username"`
	Bio           *string `json:"bio"`
	Phone         *string `json:"phone"`
	City          *string `json:"city"`
	FavoriteGenre *string `json:"favorite_genre"`
	SocialInsta   *string `json:"social_instagram"`
	SocialSound   *string `json:"social_soundcloud"`
	SocialSpotify *string `json:"social_spotify"`
}

func (h *Handler) update(c *gin.Context) {
	id, _ := middleware.IdentityFromContext(c.Request.Context())

	// Unknown fields are rejected, not silently dropped.
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req updateRequest
	if err := dec.Decode(&req); err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("unrecognized or malformed profile fields"))
		return
	}

	u, err := h.svc.Update(c.Request.Context(), id.UserID, user.ProfileUpdate{
		Username:      req.Username,
		Bio:           req.Bio,
		Phone:         req.Phone,
		City:          req.City,
		FavoriteGenre: req.FavoriteGenre,
		SocialInsta:   req.SocialInsta,
		SocialSound:   req.SocialSound,
		SocialSpotify: req.SocialSpotify,
	})
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	httpx.OK(c, gin.H{
		"user":    u,
		"message": "profile updated",
	})
}

func (h *Handler) updateAvatar(c *gin.Context) {
	id, _ := middleware.IdentityFromContext(c.Request.Context())

	file, err := c.FormFile("avatar")
	if err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("no image received"))
		return
	}
	if file.Size > h.maxAvatarSize {
		httpx.Fail(c, h.logger, apperror.Validation("image too large, 5MB maximum"))
		return
	}

	ext, ok := avatarExtensions[file.Header.Get("Content-Type")]
	if !ok {
		httpx.Fail(c, h.logger, apperror.Validation("file type not allowed, use JPG, PNG, GIF or WebP"))
		return
	}

	dir := filepath.Join(h.uploadsDir, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		httpx.Fail(c, h.logger, apperror.Internal("could not store the image", err))
		return
	}

	filename := fmt.Sprintf("avatar_%s_%d%s", id.UserID, time.Now().Unix(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		httpx.Fail(c, h.logger, apperror.Internal("could not store the image", err))
		return
	}

	avatarURL := "/uploads/avatars/" + filename
	oldURL, err := h.svc.SetAvatar(c.Request.Context(), id.UserID, avatarURL)
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	if oldURL != "" && oldURL != defaultAvatar && strings.HasPrefix(oldURL, "/uploads/") {
		old := filepath.Join(h.uploadsDir, strings.TrimPrefix(oldURL, "/uploads/"))
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			h.logger.Warn("could not remove previous avatar", zap.String("path", old), zap.Error(err))
		}
	}

	httpx.OK(c, gin.H{
		"avatar_url": avatarURL,
		"message":    "avatar updated",
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) changePassword(c *gin.Context) {
	id, _ := middleware.IdentityFromContext(c.Request.Context())

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, h.logger, apperror.Validation("current and new password are required"))
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.Fail(c, h.logger, apperror.Validation("current and new password are required"))
		return
	}

	err := h.authSvc.ChangePassword(c.Request.Context(), id.UserID, id.Token, req.CurrentPassword, req.NewPassword)
	if err != nil {
		httpx.Fail(c, h.logger, err)
		return
	}

	httpx.OK(c, gin.H{"message": "password updated"})
}
