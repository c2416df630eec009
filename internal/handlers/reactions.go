package handlers

import (
	"log"
	"net/http"
	"strconv"

	"bakuwaki/internal/db"
	"bakuwaki/internal/models"
	"bakuwaki/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReactionHandler struct{}

func NewReactionHandler() *ReactionHandler {
	return &ReactionHandler{}
}

type createReactionRequest struct {
	ReactionType string `json:"reaction_type"`
}

// CreateForPost serves POST /api/posts/:id/reaction.
func (h *ReactionHandler) CreateForPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortError(c, http.StatusBadRequest, "投稿IDが不正です")
		return
	}
	if err := db.DB.First(&models.Post{}, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			abortError(c, http.StatusNotFound, "投稿が見つかりません")
		} else {
			log.Printf("load post %d failed: %v", id, err)
			abortError(c, http.StatusInternalServerError, "内部サーバーエラー")
		}
		return
	}
	h.create(c, &id, nil)
}

// CreateForReply serves POST /api/replies/:id/reaction.
func (h *ReactionHandler) CreateForReply(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortError(c, http.StatusBadRequest, "返信IDが不正です")
		return
	}
	if err := db.DB.First(&models.Reply{}, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			abortError(c, http.StatusNotFound, "返信が見つかりません")
		} else {
			log.Printf("load reply %d failed: %v", id, err)
			abortError(c, http.StatusInternalServerError, "内部サーバーエラー")
		}
		return
	}
	h.create(c, nil, &id)
}

// create inserts the reaction row. There is deliberately no duplicate
// check: the server keeps no per-device identity, so "one reaction per
// person" is enforced on the device (its ledger), best-effort.
func (h *ReactionHandler) create(c *gin.Context, postID, replyID *int) {
	var req createReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "不正なリクエストです")
		return
	}
	if req.ReactionType != models.ReactionGood && req.ReactionType != models.ReactionBad {
		abortError(c, http.StatusBadRequest, "不正なリアクションです")
		return
	}

	reaction := models.Reaction{
		PostID:       postID,
		ReplyID:      replyID,
		ReactionType: req.ReactionType,
	}
	if err := db.DB.Create(&reaction).Error; err != nil {
		log.Printf("insert reaction failed: %v", err)
		abortError(c, http.StatusInternalServerError, "リアクションできませんでした")
		return
	}

	utils.GetCache().DeletePrefix(postsCachePrefix)
	c.JSON(http.StatusCreated, reaction)
}
