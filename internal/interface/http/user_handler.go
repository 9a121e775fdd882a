package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/robyajo/api-conatct/internal/application"
	"github.com/robyajo/api-conatct/pkg/response"
	"github.com/robyajo/api-conatct/pkg/validation"
)

// UserHandler exposes the admin user management endpoints.
type UserHandler struct {
	Svc    *userapp.UserAdminService
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.UserAdminService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	Name          string  `json:"name" binding:"required"`
	Password      string  `json:"password" binding:"required,pwd"`
	RoleID        int64   `json:"roleId"`
	PermissionIDs []int64 `json:"permissionIds"`
}

// updateUserRequest models partial updates: empty strings leave scalar fields
// untouched; a nil PermissionIDs leaves the permission set untouched while an
// empty array clears it.
type updateUserRequest struct {
	Email         string   `json:"email" binding:"omitempty,email"`
	Name          string   `json:"name"`
	Password      string   `json:"password" binding:"omitempty,pwd"`
	RoleID        int64    `json:"roleId"`
	PermissionIDs *[]int64 `json:"permissionIds"`
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation error", map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, userapp.ErrRoleNotFound):
		response.Error[any](c, http.StatusNotFound, "role not found", nil)
	case errors.Is(err, userapp.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already used", map[string]string{"email": "email is already registered"})
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("user admin operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// List GET /api/users?page=&perPage=&search=&role=
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "10"))

	items, meta, err := h.Svc.List(c.Request.Context(), userapp.ListUsersInput{
		Search:  c.Query("search"),
		Role:    c.Query("role"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, "users list", meta)
}

// Options GET /api/users/options
func (h *UserHandler) Options(c *gin.Context) {
	opts, err := h.Svc.FormOptions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, opts, "user form options", nil)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	detail, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail, "user detail", nil)
}

// Create POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation error", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Create(c.Request.Context(), userapp.CreateUserInput{
		Email:         req.Email,
		Name:          req.Name,
		Password:      req.Password,
		RoleID:        req.RoleID,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "user created", nil)
}

// Update PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation error", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Update(c.Request.Context(), id, userapp.UpdateUserInput{
		Email:         req.Email,
		Name:          req.Name,
		Password:      req.Password,
		RoleID:        req.RoleID,
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "user updated", nil)
}

// Delete DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "user deleted", nil)
}

// UploadAvatar POST /api/users/:id/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation error", map[string]string{"avatar": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), id, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

// Avatar GET /api/users/avatar/:file redirects to the stored object.
func (h *UserHandler) Avatar(c *gin.Context) {
	file := c.Param("file")
	if file == "" {
		response.Error[any](c, http.StatusNotFound, "avatar not found", nil)
		return
	}
	c.Redirect(http.StatusFound, h.Svc.AvatarObjectURL(file))
}

// Search GET /api/users/search?q=&size= (secondary Elasticsearch index)
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}
