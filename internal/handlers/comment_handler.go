package handlers

import (
	"errors"
	"net/http"

	"github.com/arnab42/socialite/backend/internal/middleware"
	"github.com/arnab42/socialite/backend/internal/models"
	"github.com/arnab42/socialite/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository // To verify the post exists
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment routes on a protected group
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/post/:id", h.CreateComment)
	g.GET("/post/:id", h.GetCommentsByPost)
	g.PUT("/update/:id", h.UpdateComment)
	g.PATCH("/update/:id", h.PatchComment)
	g.DELETE("/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  middleware.CurrentUserID(c),
		Content: req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Comment added successfully",
		"comment": comment,
	})
}

// GetCommentsByPost retrieves all comments for a specific post
func (h *CommentHandler) GetCommentsByPost(c echo.Context) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"post_id":        postID,
		"comments_count": len(comments),
		"comments":       comments,
	})
}

// UpdateComment replaces a comment's content (full-replace, owner only)
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	comment, httpErr := h.ownedComment(c)
	if httpErr != nil {
		return httpErr
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment.Content = req.Content

	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// PatchComment applies a partial update; an absent content field leaves the
// comment text unchanged but still refreshes updated_at
func (h *CommentHandler) PatchComment(c echo.Context) error {
	comment, httpErr := h.ownedComment(c)
	if httpErr != nil {
		return httpErr
	}

	var req models.PatchCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Content != nil {
		comment.Content = *req.Content
	}

	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// DeleteComment deletes a comment (owner only)
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	comment, httpErr := h.ownedComment(c)
	if httpErr != nil {
		return httpErr
	}

	if err := h.commentRepository.DeleteComment(comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully"})
}

// ownedComment resolves the :id param to a comment owned by the caller.
// Existence is checked before ownership.
func (h *CommentHandler) ownedComment(c echo.Context) (*models.Comment, *echo.HTTPError) {
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != middleware.CurrentUserID(c) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this comment")
	}
	return comment, nil
}
