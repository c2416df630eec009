package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"bakuwaki/internal/db"
	"bakuwaki/internal/middleware"
	"bakuwaki/internal/models"
	"bakuwaki/internal/services"
	"bakuwaki/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReplyHandler struct {
	images *services.ImageStore
}

func NewReplyHandler(images *services.ImageStore) *ReplyHandler {
	return &ReplyHandler{images: images}
}

type createReplyRequest struct {
	Username  string   `json:"username"`
	Content   string   `json:"content"`
	Label     *string  `json:"label"`
	ImageURLs []string `json:"image_urls"`
}

// CreateForPost serves POST /api/posts/:id/replies.
func (h *ReplyHandler) CreateForPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortError(c, http.StatusBadRequest, "投稿IDが不正です")
		return
	}

	var post models.Post
	if err := db.DB.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			abortError(c, http.StatusNotFound, "投稿が見つかりません")
		} else {
			log.Printf("load post %d failed: %v", postID, err)
			abortError(c, http.StatusInternalServerError, "内部サーバーエラー")
		}
		return
	}

	h.create(c, postID, nil)
}

// CreateForReply serves POST /api/replies/:id/replies. The new reply
// joins the parent's post as a sibling in the flat list; the only trace
// of the nesting is the captured parent author name.
func (h *ReplyHandler) CreateForReply(c *gin.Context) {
	parentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortError(c, http.StatusBadRequest, "返信IDが不正です")
		return
	}

	var parent models.Reply
	if err := db.DB.First(&parent, parentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			abortError(c, http.StatusNotFound, "返信先が見つかりません")
		} else {
			log.Printf("load reply %d failed: %v", parentID, err)
			abortError(c, http.StatusInternalServerError, "内部サーバーエラー")
		}
		return
	}

	h.create(c, parent.PostID, &parent)
}

func (h *ReplyHandler) create(c *gin.Context, postID int, parent *models.Reply) {
	isAdmin := middleware.IsAdmin(c)

	var req createReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "不正なリクエストです")
		return
	}

	username := utils.SanitizeText(req.Username)
	content := utils.SanitizeText(req.Content)
	if msg := validateAuthorAndBody(username, content, isAdmin); msg != "" {
		abortError(c, http.StatusBadRequest, msg)
		return
	}
	if req.Label != nil && *req.Label == models.LabelAdmin && !isAdmin {
		abortError(c, http.StatusForbidden, "管理者ラベルは使用できません")
		return
	}
	if len(req.ImageURLs) > maxImages {
		abortError(c, http.StatusBadRequest, fmt.Sprintf("写真は最大%d枚までです", maxImages))
		return
	}

	imageURLs, err := h.images.StoreAll(req.ImageURLs)
	if err != nil {
		log.Printf("store images failed: %v", err)
		abortError(c, http.StatusBadRequest, "画像データが不正です")
		return
	}

	reply := models.Reply{
		PostID:    postID,
		Username:  username,
		Content:   content,
		Label:     req.Label,
		ImageURLs: imageURLs,
	}
	if parent != nil {
		reply.ParentReplyID = &parent.ID
		parentName := parent.Username
		reply.ParentUsername = &parentName
	}

	if err := db.DB.Create(&reply).Error; err != nil {
		log.Printf("insert reply failed: %v", err)
		abortError(c, http.StatusInternalServerError, "返信できませんでした")
		return
	}

	utils.GetCache().DeletePrefix(postsCachePrefix)
	c.JSON(http.StatusCreated, reply)
}
