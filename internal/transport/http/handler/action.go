package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "go-gin-mongo-users/internal/transport/http/response"
)

// Binder selects where an action's input comes from.
type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // handler reads c.Param itself
)

// AErr carries the envelope code and message for a failed action.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error    { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func NotFound(msg string) error      { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Unprocessable(msg string) error { return &AErr{Code: resp.CodeUnprocessableEntity, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Action is one endpoint: I is the bound input, O the envelope data.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int // success status; 0 means 200, 204 sends no body
	Handler func(c *gin.Context, in *I) (O, error)
}

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				resp.Abort(c, resp.CodeRequestTooLarge, "request body too large")
				return
			}
			resp.Abort(c, resp.CodeUnprocessableEntity, bindErr.Error())
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			_ = c.Error(err)
			var ae *AErr
			if !errors.As(err, &ae) {
				ae = &AErr{Code: resp.CodeServerError, Msg: "Internal server error", Err: err}
			}
			if ae.Code >= resp.CodeServerError {
				e.log.Error("action failed",
					zap.String("method", a.Method),
					zap.String("path", c.FullPath()),
					zap.Error(err),
				)
			}
			resp.Abort(c, ae.Code, ae.Error())
			return
		}

		switch a.Status {
		case 0:
			c.JSON(http.StatusOK, resp.OK(out))
		case http.StatusNoContent:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(a.Status, resp.OK(out))
		}
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}
