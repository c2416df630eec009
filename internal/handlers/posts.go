package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"bakuwaki/internal/db"
	"bakuwaki/internal/middleware"
	"bakuwaki/internal/models"
	"bakuwaki/internal/services"
	"bakuwaki/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPerPage = 30
	maxPerPage     = 100

	maxUsernameRunes     = 30
	maxContentRunes      = 150
	maxAdminContentRunes = 1000
	maxImages            = 4

	listCacheTTL = 30 * time.Second
)

type PostHandler struct {
	images *services.ImageStore
}

func NewPostHandler(images *services.ImageStore) *PostHandler {
	return &PostHandler{images: images}
}

// List serves GET /api/posts: label filter and free-text search are
// applied here (the clients never filter a larger cached set), sorting
// happens before pagination, and the page shape is
// {posts,total,page,limit,totalPages}.
func (h *PostHandler) List(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	limit := defaultPerPage
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= maxPerPage {
			limit = n
		}
	}
	sortOrder := c.DefaultQuery("sort", "newest")
	label := c.Query("label")
	search := c.Query("search")
	includeReplies := c.Query("include") == "replies"

	cacheKey := fmt.Sprintf("%s%d:%d:%s:%s:%s:%t", postsCachePrefix, page, limit, sortOrder, label, search, includeReplies)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if pageData, ok := cached.(models.PostsPage); ok {
			c.JSON(http.StatusOK, pageData)
			return
		}
	}

	query := db.DB.Model(&models.Post{})
	if label != "" {
		query = query.Where("label = ?", label)
	}
	if search != "" {
		// A match anywhere in the post or its replies keeps the post.
		pattern := "%" + search + "%"
		query = query.Where(
			db.DB.Where("posts.username ILIKE ? OR posts.content ILIKE ?", pattern, pattern).
				Or("posts.id IN (?)", db.DB.Model(&models.Reply{}).
					Select("post_id").
					Where("username ILIKE ? OR content ILIKE ?", pattern, pattern)),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("count posts failed: %v", err)
		abortError(c, http.StatusInternalServerError, "投稿の取得に失敗しました")
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages == 0 {
		totalPages = 1
	}

	switch sortOrder {
	case "oldest":
		query = query.Order("created_at ASC")
	case "good":
		query = query.Select("posts.*, (SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id AND reactions.reaction_type = 'good') AS rank_count").
			Order("rank_count DESC, created_at DESC")
	case "bad":
		query = query.Select("posts.*, (SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id AND reactions.reaction_type = 'bad') AS rank_count").
			Order("rank_count DESC, created_at DESC")
	default: // newest
		query = query.Order("created_at DESC")
	}

	var posts []models.Post
	if err := query.Limit(limit).Offset((page - 1) * limit).Find(&posts).Error; err != nil {
		log.Printf("query posts failed: %v", err)
		abortError(c, http.StatusInternalServerError, "投稿の取得に失敗しました")
		return
	}

	fillPostReactionCounts(posts)
	if includeReplies {
		if err := attachReplies(posts); err != nil {
			log.Printf("query replies failed: %v", err)
			abortError(c, http.StatusInternalServerError, "返信の取得に失敗しました")
			return
		}
	}
	for i := range posts {
		if posts[i].Replies == nil {
			posts[i].Replies = []models.Reply{}
		}
		if posts[i].ImageURLs == nil {
			posts[i].ImageURLs = []string{}
		}
	}

	pageData := models.PostsPage{
		Posts:      posts,
		Total:      int(total),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
	utils.GetCache().Set(cacheKey, pageData, listCacheTTL)
	c.JSON(http.StatusOK, pageData)
}

type createPostRequest struct {
	Username  string   `json:"username"`
	Content   string   `json:"content"`
	Label     string   `json:"label"`
	ImageURLs []string `json:"image_urls"`
}

// Create serves POST /api/posts. An admin session is not required, but
// when present it unlocks the 管理者 label and the longer body.
func (h *PostHandler) Create(c *gin.Context) {
	isAdmin := middleware.IsAdmin(c)

	var req createPostRequest
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
	if req.Label == models.LabelAdmin && !isAdmin {
		abortError(c, http.StatusForbidden, "管理者ラベルは使用できません")
		return
	}
	if !models.ValidLabel(req.Label, isAdmin) {
		abortError(c, http.StatusBadRequest, "不正なラベルです")
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

	post := models.Post{
		Username:  username,
		Content:   content,
		ImageURLs: imageURLs,
		Label:     req.Label,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		log.Printf("insert post failed: %v", err)
		abortError(c, http.StatusInternalServerError, "投稿の作成に失敗しました")
		return
	}

	utils.GetCache().DeletePrefix(postsCachePrefix)
	post.Replies = []models.Reply{}
	c.JSON(http.StatusCreated, post)
}

// validateAuthorAndBody applies the shared submission rules. Returns an
// empty string when valid, otherwise the message for the 400.
func validateAuthorAndBody(username, content string, isAdmin bool) string {
	if username == "" {
		return "ユーザー名を入力してください"
	}
	if content == "" {
		return "本文を入力してください"
	}
	if len([]rune(username)) > maxUsernameRunes {
		return fmt.Sprintf("ユーザー名が長すぎます（%d文字以内）", maxUsernameRunes)
	}
	maxContent := maxContentRunes
	if isAdmin {
		maxContent = maxAdminContentRunes
	}
	if len([]rune(content)) > maxContent {
		return fmt.Sprintf("本文が長すぎます（%d文字以内）", maxContent)
	}
	return ""
}

// fillPostReactionCounts batch-loads good/bad counts for a page of
// posts; counts live in the reactions table, never on the post row.
func fillPostReactionCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}
	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	type countRow struct {
		PostID       int
		ReactionType string
		Count        int
	}
	var rows []countRow
	db.DB.Model(&models.Reaction{}).
		Select("post_id, reaction_type, COUNT(*) as count").
		Where("post_id IN ?", ids).
		Group("post_id, reaction_type").
		Scan(&rows)

	good := make(map[int]int)
	bad := make(map[int]int)
	for _, r := range rows {
		if r.ReactionType == models.ReactionGood {
			good[r.PostID] = r.Count
		} else if r.ReactionType == models.ReactionBad {
			bad[r.PostID] = r.Count
		}
	}
	for i := range posts {
		posts[i].GoodCount = good[posts[i].ID]
		posts[i].BadCount = bad[posts[i].ID]
	}
}

// attachReplies loads every reply of the page's posts, oldest first,
// with their own reaction counts.
func attachReplies(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var replies []models.Reply
	if err := db.DB.Where("post_id IN ?", ids).Order("created_at ASC").Find(&replies).Error; err != nil {
		return err
	}
	fillReplyReactionCounts(replies)

	byPost := make(map[int][]models.Reply)
	for _, r := range replies {
		byPost[r.PostID] = append(byPost[r.PostID], r)
	}
	for i := range posts {
		posts[i].Replies = byPost[posts[i].ID]
	}
	return nil
}

func fillReplyReactionCounts(replies []models.Reply) {
	if len(replies) == 0 {
		return
	}
	ids := make([]int, len(replies))
	for i, r := range replies {
		ids[i] = r.ID
	}

	type countRow struct {
		ReplyID      int
		ReactionType string
		Count        int
	}
	var rows []countRow
	db.DB.Model(&models.Reaction{}).
		Select("reply_id, reaction_type, COUNT(*) as count").
		Where("reply_id IN ?", ids).
		Group("reply_id, reaction_type").
		Scan(&rows)

	good := make(map[int]int)
	bad := make(map[int]int)
	for _, r := range rows {
		if r.ReactionType == models.ReactionGood {
			good[r.ReplyID] = r.Count
		} else if r.ReactionType == models.ReactionBad {
			bad[r.ReplyID] = r.Count
		}
	}
	for i := range replies {
		replies[i].GoodCount = good[replies[i].ID]
		replies[i].BadCount = bad[replies[i].ID]
	}
}

// firstPost is a small helper for admin delete: load or 404.
func firstPost(c *gin.Context, id int) (*models.Post, bool) {
	var post models.Post
	if err := db.DB.First(&post, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			abortError(c, http.StatusNotFound, "投稿が見つかりません")
		} else {
			log.Printf("load post %d failed: %v", id, err)
			abortError(c, http.StatusInternalServerError, "内部サーバーエラー")
		}
		return nil, false
	}
	return &post, true
}
