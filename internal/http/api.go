package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"microblog/internal/domain"
	"microblog/internal/service"
)

const authCookie = "auth"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	graph     service.GraphService
	posts     service.PostService
	timeline  service.TimelineService
	index     service.IndexService
	logger    *logrus.Logger
	cookieTTL time.Duration
}

func NewHandler(
	users service.UserService,
	graph service.GraphService,
	posts service.PostService,
	timeline service.TimelineService,
	index service.IndexService,
	logger *logrus.Logger,
	cookieTTL time.Duration,
) *Handler {
	return &Handler{
		users:     users,
		graph:     graph,
		posts:     posts,
		timeline:  timeline,
		index:     index,
		logger:    logger,
		cookieTTL: cookieTTL,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/logout", h.logout)
		api.GET("/timeline", h.globalTimeline)
		api.GET("/profile/:username", h.profile)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authed := api.Group("", h.requireAuth)
		{
			authed.POST("/posts", h.createPost)
			authed.GET("/home", h.home)
			authed.POST("/follow/:username", h.follow)
			authed.DELETE("/follow/:username", h.unfollow)
		}
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createPostRequest struct {
	Body string `json:"body" binding:"required"`
}

// PostResponse is a post expanded with its author's username.
type PostResponse struct {
	ID        int64   `json:"id"`
	AuthorID  int64   `json:"author_id"`
	Author    string  `json:"author"`
	CreatedAt float64 `json:"created_at"`
	Body      string  `json:"body"`
}

type MemberResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type ProfileResponse struct {
	MemberResponse
	Followers   int64          `json:"followers"`
	Following   int64          `json:"following"`
	IsFollowing bool           `json:"is_following"`
	Posts       []PostResponse `json:"posts"`
}

func memberToResponse(u domain.User) MemberResponse {
	return MemberResponse{UserID: u.ID, Username: u.Username}
}

// requireAuth resolves the auth cookie and aborts with 401 when it maps to
// no user. The token stays valid server-side even after logout; only the
// cookie is cleared there.
func (h *Handler) requireAuth(c *gin.Context) {
	token, err := c.Cookie(authCookie)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	userID, err := h.users.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		} else {
			h.logger.Warnf("resolve token: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.Set("userID", userID)
	c.Next()
}

// viewerID returns the authenticated user on optional-auth routes, or 0.
func (h *Handler) viewerID(c *gin.Context) int64 {
	token, err := c.Cookie(authCookie)
	if err != nil {
		return 0
	}
	userID, err := h.users.ResolveToken(c.Request.Context(), token)
	if err != nil {
		return 0
	}
	return userID
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64("userID")
}

func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookie, token, int(h.cookieTTL.Seconds()), "/", "", false, true)
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, token, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		case errors.Is(err, service.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Warnf("register: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"user_id": userID, "username": req.Username})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "username not found"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong username or password"})
		default:
			h.logger.Warnf("login: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	token, err := h.users.IssueToken(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warnf("issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "username": req.Username})
}

func (h *Handler) logout(c *gin.Context) {
	// Clears the client cookie only; the server-side token mapping remains.
	c.SetCookie(authCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": "ok"})
}

func (h *Handler) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authorID := currentUserID(c)
	postID, err := h.posts.Create(c.Request.Context(), authorID, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			h.logger.Warnf("create post: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	if err := h.timeline.Publish(c.Request.Context(), postID, authorID); err != nil {
		h.logger.Warnf("publish post %d: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post_id": postID})
}

func (h *Handler) home(c *gin.Context) {
	userID := currentUserID(c)
	page := pageFromQuery(c)

	ids, err := h.timeline.Feed(c.Request.Context(), userID, page)
	if err != nil {
		h.logger.Warnf("read feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	followers, err := h.graph.FollowerCount(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warnf("follower count: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	following, err := h.graph.FollowingCount(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warnf("following count: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":     h.expandPosts(c, ids),
		"followers": followers,
		"following": following,
	})
}

func (h *Handler) globalTimeline(c *gin.Context) {
	ids, err := h.timeline.Global(c.Request.Context(), service.Page{Start: 0, Count: 50})
	if err != nil {
		h.logger.Warnf("read global timeline: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	memberIDs, err := h.index.ListMembers(c.Request.Context(), service.DefaultPage())
	if err != nil {
		h.logger.Warnf("list members: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	members := make([]MemberResponse, 0, len(memberIDs))
	for _, id := range memberIDs {
		name, err := h.users.Username(c.Request.Context(), id)
		if err != nil {
			continue
		}
		members = append(members, memberToResponse(domain.User{ID: id, Username: name}))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": h.expandPosts(c, ids),
		"users": members,
	})
}

func (h *Handler) profile(c *gin.Context) {
	username := c.Param("username")
	memberID, err := h.users.LookupID(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			h.logger.Warnf("profile lookup: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	ids, err := h.timeline.Feed(c.Request.Context(), memberID, pageFromQuery(c))
	if err != nil {
		h.logger.Warnf("profile feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	profile := domain.Profile{User: domain.User{ID: memberID, Username: username}}
	profile.Followers, _ = h.graph.FollowerCount(c.Request.Context(), memberID)
	profile.Following, _ = h.graph.FollowingCount(c.Request.Context(), memberID)
	if viewer := h.viewerID(c); viewer != 0 {
		profile.IsFollowing, _ = h.graph.IsFollowing(c.Request.Context(), viewer, memberID)
	}

	c.JSON(http.StatusOK, ProfileResponse{
		MemberResponse: memberToResponse(profile.User),
		Followers:      profile.Followers,
		Following:      profile.Following,
		IsFollowing:    profile.IsFollowing,
		Posts:          h.expandPosts(c, ids),
	})
}

func (h *Handler) follow(c *gin.Context) {
	h.setFollow(c, true)
}

func (h *Handler) unfollow(c *gin.Context) {
	h.setFollow(c, false)
}

func (h *Handler) setFollow(c *gin.Context, follow bool) {
	memberID, err := h.users.LookupID(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			h.logger.Warnf("follow lookup: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	viewer := currentUserID(c)
	if follow {
		err = h.graph.Follow(c.Request.Context(), viewer, memberID)
	} else {
		err = h.graph.Unfollow(c.Request.Context(), viewer, memberID)
	}
	if err != nil {
		h.logger.Warnf("update follow edge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": memberID, "following": follow})
}

// expandPosts loads each post id and its author's username. Ids that fail to
// load are skipped so one bad record cannot take down a whole feed read.
func (h *Handler) expandPosts(c *gin.Context, ids []int64) []PostResponse {
	out := make([]PostResponse, 0, len(ids))
	for _, id := range ids {
		post, err := h.posts.Get(c.Request.Context(), id)
		if err != nil {
			h.logger.Warnf("expand post %d: %v", id, err)
			continue
		}
		author, err := h.users.Username(c.Request.Context(), post.AuthorID)
		if err != nil {
			h.logger.Warnf("expand post %d author: %v", id, err)
			continue
		}
		out = append(out, PostResponse{
			ID:        post.ID,
			AuthorID:  post.AuthorID,
			Author:    author,
			CreatedAt: post.CreatedAt,
			Body:      post.Body,
		})
	}
	return out
}

func pageFromQuery(c *gin.Context) service.Page {
	page := service.DefaultPage()
	if raw := c.Query("start"); raw != "" {
		if start, err := strconv.ParseInt(raw, 10, 64); err == nil {
			page.Start = start
		}
	}
	if raw := c.Query("count"); raw != "" {
		if count, err := strconv.ParseInt(raw, 10, 64); err == nil {
			page.Count = count
		}
	}
	return page
}
