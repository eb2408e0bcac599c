package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-mongo-users/internal/domain"
	"go-gin-mongo-users/internal/service"
)

const (
	msgNotFound  = "User not found"
	msgDuplicate = "Email already registered"
)

type createUserReq struct {
	Name  string `json:"name"  binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email"`
}

// A JSON null is treated the same as an absent field.
type updateUserReq struct {
	Name  *string `json:"name"  binding:"omitempty,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (r updateUserReq) patch() domain.UserPatch {
	var p domain.UserPatch
	if r.Name != nil {
		p.Name = domain.Some(*r.Name)
	}
	if r.Email != nil {
		p.Email = domain.Some(*r.Email)
	}
	return p
}

type listUsersReq struct {
	Page int `form:"page,default=1"  binding:"min=1"`
	Size int `form:"size,default=10" binding:"min=1,max=100"`
}

// UserHandler mounts the /users resource.
type UserHandler struct {
	svc service.UserService
	log *zap.Logger
}

func NewUserHandler(svc service.UserService, l *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: l}
}

func (h *UserHandler) Priority() int { return 10 }

func mapErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NotFound(msgNotFound)
	case errors.Is(err, domain.ErrDuplicateEmail):
		return BadRequest(msgDuplicate)
	default:
		return Internal("Internal server error", err)
	}
}

func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := New(api.Group("/users"), h.log)

	RegisterAction(ez, Action[createUserReq, *domain.User]{
		Method: http.MethodPost,
		Path:   "",
		Binder: BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createUserReq) (*domain.User, error) {
			u, err := h.svc.Create(c.Request.Context(), in.Name, in.Email)
			if err != nil {
				return nil, mapErr(err)
			}
			return u, nil
		},
	})

	RegisterAction(ez, Action[listUsersReq, domain.UserPage]{
		Method: http.MethodGet,
		Path:   "",
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *listUsersReq) (domain.UserPage, error) {
			page := domain.PageRequest{Page: in.Page, Size: in.Size}
			users, total, err := h.svc.List(c.Request.Context(), page.Offset(), page.Size)
			if err != nil {
				return domain.UserPage{}, mapErr(err)
			}
			if users == nil {
				users = []domain.User{}
			}
			return domain.UserPage{Users: users, Total: total, Page: page.Page, Size: page.Size}, nil
		},
	})

	RegisterAction(ez, Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, mapErr(err)
			}
			return u, nil
		},
	})

	RegisterAction(ez, Action[updateUserReq, *domain.User]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *updateUserReq) (*domain.User, error) {
			u, err := h.svc.Update(c.Request.Context(), c.Param("id"), in.patch())
			if err != nil {
				return nil, mapErr(err)
			}
			return u, nil
		},
	})

	RegisterAction(ez, Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			deleted, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
			if err != nil {
				return struct{}{}, mapErr(err)
			}
			if !deleted {
				return struct{}{}, NotFound(msgNotFound)
			}
			return struct{}{}, nil
		},
	})
}
