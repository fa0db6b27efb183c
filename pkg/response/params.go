package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID parses a positive integer path parameter. On failure it writes
// 400 "invalid <label> id" and returns false.
func ParamID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+label+" id")
		return 0, false
	}
	return id, true
}
