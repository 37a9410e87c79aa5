package handlers

import (
	"errors"
	"net/http"

	"mcpdex/internal/models"
	"mcpdex/internal/services"
	"mcpdex/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// Stats 条目投票统计 (GET /api/votes/:id)
// user_vote 恒为 null：服务端不认访客身份，由客户端本地账本补齐
func (h *VoteHandler) Stats(c *gin.Context) {
	listingID := utils.StringToUint(c.Param("id"))
	if listingID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	stats, err := services.GetVoteStats(listingID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "failed to load vote stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

type voteRequest struct {
	Type   string `json:"type"`
	Remove bool   `json:"remove"`
}

// Cast 投票 (POST /api/votes/:id)
// 去重键是请求方 IP：客户端报上来的地址不可信，一律以连接地址为准
func (h *VoteHandler) Cast(c *gin.Context) {
	listingID := utils.StringToUint(c.Param("id"))
	if listingID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" {
		req.Type = models.VoteTypeUp
	}

	stats, err := services.CastVote(listingID, c.ClientIP(), req.Type, req.Remove)
	if err != nil {
		h.renderVoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Remove 取消投票 (DELETE /api/votes/:id)
func (h *VoteHandler) Remove(c *gin.Context) {
	listingID := utils.StringToUint(c.Param("id"))
	if listingID == 0 {
		JSONError(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	stats, err := services.CastVote(listingID, c.ClientIP(), models.VoteTypeUp, true)
	if err != nil {
		h.renderVoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *VoteHandler) renderVoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDownvoteUnsupported):
		JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCooldownActive):
		JSONError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, services.ErrListingNotFound):
		JSONError(c, http.StatusNotFound, err.Error())
	default:
		JSONError(c, http.StatusInternalServerError, "failed to process vote")
	}
}

// EchoIP 回显请求方公网 IP (GET /api/ip)
// 客户端投票账本用它解析去重键，替代外部回显服务
func EchoIP(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ip": c.ClientIP()})
}
