package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the envelope of every API reply. Code mirrors the HTTP status.
type Body struct {
	Code int         `json:"code"`
	Data interface{} `json:"data"`
	Msg  string      `json:"msg"`
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data, "")
}

func Error(c *gin.Context, status int, msg string) {
	JSON(c, status, gin.H{}, msg)
}

// Fail reports err with status and records it on the context for the
// request logger.
func Fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	Error(c, status, err.Error())
}

func JSON(c *gin.Context, status int, data interface{}, msg string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Body{
		Code: status,
		Data: data,
		Msg:  msg,
	})
}
