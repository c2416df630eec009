package handlers

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"bakuwaki/internal/db"
	"bakuwaki/internal/middleware"
	"bakuwaki/internal/models"
	"bakuwaki/internal/services"
	"bakuwaki/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminHandler struct {
	images *services.ImageStore
}

func NewAdminHandler(images *services.ImageStore) *AdminHandler {
	return &AdminHandler{images: images}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the admin password for a session. The hash lives in
// ADMIN_PASSWORD_HASH (bcrypt); with it unset the whole surface is off.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "リクエストボディが不正です")
		return
	}

	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	if hash == "" {
		abortError(c, http.StatusInternalServerError, "管理者機能が設定されていません")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		abortError(c, http.StatusUnauthorized, "パスワードが不正です")
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.AdminRoleKey, "admin")
	session.Options(sessions.Options{
		Path:     "/",
		MaxAge:   24 * 60 * 60,
		HttpOnly: true,
	})
	if err := session.Save(); err != nil {
		log.Printf("save session failed: %v", err)
		abortError(c, http.StatusInternalServerError, "セッションの作成に失敗しました")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("clear session failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Check is the probe the admin page calls on load; AdminRequired has
// already answered 401 for a dead session by the time we get here.
func (h *AdminHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type updateLabelRequest struct {
	Label string `json:"label"`
}

// UpdatePostLabel serves PATCH /api/posts/:id/label.
func (h *AdminHandler) UpdatePostLabel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortError(c, http.StatusBadRequest, "投稿IDが不正です")
		return
	}

	var req updateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "不正なリクエストです")
		return
	}
	if !models.ValidLabel(req.Label, true) {
		abortError(c, http.StatusBadRequest, "不正なラベルです")
		return
	}

	result := db.DB.Model(&models.Post{}).Where("id = ?", id).Update("label", req.Label)
	if result.Error != nil {
		log.Printf("update label failed: %v", result.Error)
		abortError(c, http.StatusInternalServerError, "ラベルの更新に失敗しました")
		return
	}
	if result.RowsAffected == 0 {
		abortError(c, http.StatusNotFound, "投稿が見つかりません")
		return
	}

	utils.GetCache().DeletePrefix(postsCachePrefix)
	c.JSON(http.StatusOK, gin.H{"label": req.Label})
}

// DeletePost removes a post, its replies, their reactions, and any
// stored image files.
func (h *AdminHandler) DeletePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortError(c, http.StatusBadRequest, "投稿IDが不正です")
		return
	}

	post, ok := firstPost(c, id)
	if !ok {
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var replyIDs []int
		if err := tx.Model(&models.Reply{}).Where("post_id = ?", id).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		if len(replyIDs) > 0 {
			if err := tx.Where("reply_id IN ?", replyIDs).Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		log.Printf("delete post %d failed: %v", id, err)
		abortError(c, http.StatusInternalServerError, "内部サーバーエラー")
		return
	}

	if err := h.images.Remove(post.ImageURLs); err != nil {
		log.Printf("remove image files for post %d: %v", id, err)
	}

	utils.GetCache().DeletePrefix(postsCachePrefix)
	c.Status(http.StatusNoContent)
}

// DeleteReply removes one reply and its reactions. Replies that pointed
// at it keep their captured parent_username, so attribution survives.
func (h *AdminHandler) DeleteReply(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortError(c, http.StatusBadRequest, "返信IDが不正です")
		return
	}

	var reply models.Reply
	if err := db.DB.First(&reply, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			abortError(c, http.StatusNotFound, "返信が見つかりません")
		} else {
			log.Printf("load reply %d failed: %v", id, err)
			abortError(c, http.StatusInternalServerError, "内部サーバーエラー")
		}
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Reply{}, id).Error
	})
	if err != nil {
		log.Printf("delete reply %d failed: %v", id, err)
		abortError(c, http.StatusInternalServerError, "内部サーバーエラー")
		return
	}

	if err := h.images.Remove(reply.ImageURLs); err != nil {
		log.Printf("remove image files for reply %d: %v", id, err)
	}

	utils.GetCache().DeletePrefix(postsCachePrefix)
	c.Status(http.StatusNoContent)
}
