package response

import (
	"github.com/gin-gonic/gin"

	apperrors "tube-bite/pkg/errors"
)

// Response is the standard API envelope.
type Response struct {
	Error  int32  `json:"error"` // 0 on success
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
	Data   any    `json:"data"`
}

func Success(c *gin.Context, data any) {
	c.JSON(200, Response{
		Error: 0,
		Msg:   "Success",
		Data:  data,
	})
}

func Error(c *gin.Context, code int, msg string) {
	c.JSON(200, Response{
		Error: int32(code),
		Msg:   msg,
	})
}

// FromError converts an error to a Response, keeping AppError codes and
// detail intact for the frontend.
func FromError(err error) Response {
	if err == nil {
		return Response{Error: 0, Msg: "Success"}
	}

	res := Response{
		Error: int32(apperrors.GetCode(err)),
		Msg:   apperrors.GetMessage(err),
	}
	if appErr, ok := err.(*apperrors.AppError); ok {
		res.Detail = appErr.Detail
	}
	return res
}

func ErrorResponse(c *gin.Context, err error) {
	c.JSON(200, FromError(err))
}
