package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/application/command"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/application/query"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/assessment"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/content"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/event"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "The requested resource was not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "CeyAcc API",
		"version": "v1",
		"status":  "operational",
		"uptime":  s.Uptime().String(),
	})
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", status.Message)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRegister handles POST /api/v1/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	result, err := s.deps.RegisterHandler.Handle(r.Context(), command.RegisterUserCommand{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Role:          user.Role(req.Role),
		School:        req.School,
		Grade:         req.Grade,
		Subject:       req.Subject,
		Qualification: req.Qualification,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeJSONError(w, http.StatusConflict, "email_taken", "An account with this email already exists")
			return
		}
		s.writeDomainError(w, err)
		return
	}

	resp := AuthResponse{
		UserID: int64(result.User.ID),
		Name:   result.User.Name,
		Role:   result.User.Role.String(),
	}
	if s.deps.Issuer != nil {
		if token, err := s.deps.Issuer.Issue(result.User); err == nil {
			resp.Token = token
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// handleLogin handles POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	u, err := s.deps.AuthenticateHandler.Handle(r.Context(), command.AuthenticateUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, command.ErrInvalidCredentials):
			writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
		case errors.Is(err, user.ErrUserInactive):
			writeJSONError(w, http.StatusForbidden, "account_inactive", "This account has been deactivated")
		default:
			s.writeInternalError(w, err)
		}
		return
	}

	resp := AuthResponse{
		UserID: int64(u.ID),
		Name:   u.Name,
		Role:   u.Role.String(),
	}
	if s.deps.Issuer != nil {
		token, err := s.deps.Issuer.Issue(u)
		if err != nil {
			s.writeInternalError(w, err)
			return
		}
		resp.Token = token
	}

	writeJSON(w, http.StatusOK, resp)
}

// ══════════════════════════════════════════════════════════════════════════════
// USER & RANKING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetProfile handles GET /api/v1/users/{id}
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "User ID must be a positive integer")
		return
	}
	s.serveProfile(w, r, user.UserID(id))
}

// handleGetOwnProfile handles GET /api/v1/users/me
func (s *Server) handleGetOwnProfile(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	s.serveProfile(w, r, userID)
}

func (s *Server) serveProfile(w http.ResponseWriter, r *http.Request, userID user.UserID) {
	profile, err := s.deps.GetProfileHandler.Handle(r.Context(), query.GetUserProfileQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeJSONError(w, http.StatusNotFound, "user_not_found", "No user with this ID exists")
			return
		}
		s.writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleUpdateProfile handles PUT /api/v1/users/me
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	var req UpdateProfileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	u, err := s.deps.UpdateProfileHandler.Handle(r.Context(), command.UpdateProfileCommand{
		UserID:        userID,
		Name:          req.Name,
		School:        req.School,
		Subject:       req.Subject,
		Qualification: req.Qualification,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		UserID: int64(u.ID),
		Name:   u.Name,
		Role:   u.Role.String(),
	})
}

// handleSearchUsers handles GET /api/v1/users
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q := query.SearchUsersQuery{
		Term:   getQueryParam(r, "search", ""),
		Role:   user.Role(getQueryParamInt(r, "role", 0)),
		Offset: getQueryParamInt(r, "offset", 0),
		Limit:  getQueryParamInt(r, "limit", 20),
	}

	users, err := s.deps.SearchUsersHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, users, &ResponseMeta{
		TotalCount: len(users),
		PageSize:   q.Limit,
		HasMore:    len(users) == q.Limit,
	})
}

// handleGetUserRank handles GET /api/v1/users/{id}/rank
func (s *Server) handleGetUserRank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "User ID must be a positive integer")
		return
	}
	s.serveRank(w, r, user.UserID(id))
}

// handleGetOwnRank handles GET /api/v1/users/me/rank
func (s *Server) handleGetOwnRank(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	s.serveRank(w, r, userID)
}

func (s *Server) serveRank(w http.ResponseWriter, r *http.Request, userID user.UserID) {
	rank, err := s.deps.GetRankHandler.Handle(r.Context(), query.GetUserRankQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeJSONError(w, http.StatusNotFound, "user_not_found", "No user with this ID exists")
			return
		}
		s.writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rank)
}

// handleGetLeaderboard handles GET /api/v1/leaderboard
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := query.GetLeaderboardQuery{
		Limit: getQueryParamInt(r, "limit", 10),
	}

	entries, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, entries, &ResponseMeta{
		TotalCount: len(entries),
		PageSize:   q.Limit,
	})
}

// handleGetLevels handles GET /api/v1/levels
func (s *Server) handleGetLevels(w http.ResponseWriter, r *http.Request) {
	if s.deps.Levels == nil {
		writeJSON(w, http.StatusOK, []query.TierDTO{})
		return
	}

	tiers := s.deps.Levels.Tiers()
	out := make([]query.TierDTO, len(tiers))
	for i, t := range tiers {
		out[i] = query.TierDTO{
			ID:       t.ID,
			Name:     t.Name,
			Icon:     t.Icon,
			MaxLimit: t.MaxLimit,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// ══════════════════════════════════════════════════════════════════════════════
// FEED HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListPosts handles GET /api/v1/posts
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := query.ListPostsQuery{
		Offset: getQueryParamInt(r, "offset", 0),
		Limit:  getQueryParamInt(r, "limit", 20),
	}

	posts, err := s.deps.ListFeedHandler.ListPosts(r.Context(), q)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, posts, &ResponseMeta{
		TotalCount: len(posts),
		PageSize:   q.Limit,
		HasMore:    len(posts) == q.Limit,
	})
}

// handleCreatePost handles POST /api/v1/posts
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	var req CreatePostRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	result, err := s.deps.CreatePostHandler.Handle(r.Context(), command.CreatePostCommand{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		MediaLink:   req.MediaLink,
		MediaType:   content.MediaType(req.MediaType),
		IsPublic:    isPublic,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"post":  result.Post,
		"score": result.Score,
	})
}

// handleGetPost handles GET /api/v1/posts/{id}
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Post ID must be a positive integer")
		return
	}

	post, err := s.deps.ListFeedHandler.GetPost(r.Context(), postID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// handleUpdatePost handles PUT /api/v1/posts/{id}
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, userID user.UserID, role user.Role) {
	postID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Post ID must be a positive integer")
		return
	}

	var req UpdatePostRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post, err := s.deps.ManageFeedHandler.UpdatePost(r.Context(), command.UpdatePostCommand{
		PostID:      postID,
		ActorID:     userID,
		ActorRole:   role,
		Title:       req.Title,
		Description: req.Description,
		MediaLink:   req.MediaLink,
		MediaType:   content.MediaType(req.MediaType),
		IsPublic:    isPublic,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// handleDeletePost handles DELETE /api/v1/posts/{id}
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, userID user.UserID, role user.Role) {
	postID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Post ID must be a positive integer")
		return
	}

	if err := s.deps.ManageFeedHandler.DeletePost(r.Context(), postID, userID, role); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// handleDeleteComment handles DELETE /api/v1/comments/{id}
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request, userID user.UserID, role user.Role) {
	commentID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Comment ID must be a positive integer")
		return
	}

	if err := s.deps.ManageFeedHandler.DeleteComment(r.Context(), commentID, userID, role); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// handleListComments handles GET /api/v1/posts/{id}/comments
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Post ID must be a positive integer")
		return
	}

	comments, err := s.deps.ListFeedHandler.ListComments(r.Context(), postID)
	if err != nil {
		if errors.Is(err, content.ErrPostNotFound) {
			writeJSONError(w, http.StatusNotFound, "post_not_found", "No post with this ID exists")
			return
		}
		s.writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// handleAddComment handles POST /api/v1/posts/{id}/comments
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	postID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Post ID must be a positive integer")
		return
	}

	var req AddCommentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	result, err := s.deps.EngagePostHandler.AddComment(r.Context(), command.AddCommentCommand{
		PostID:          postID,
		UserID:          userID,
		Body:            req.Body,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"comment": result.Comment,
		"score":   result.Score,
	})
}

// handleReact handles POST /api/v1/posts/{id}/reactions
func (s *Server) handleReact(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	postID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Post ID must be a positive integer")
		return
	}

	var req ReactRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	result, err := s.deps.EngagePostHandler.React(r.Context(), command.ReactToPostCommand{
		PostID: postID,
		UserID: userID,
		Kind:   req.Kind,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	// A replaced reaction kind comes back without a score outcome.
	status := http.StatusCreated
	if result.Score == nil {
		status = http.StatusOK
	}
	writeJSON(w, status, map[string]interface{}{
		"reaction": result.Reaction,
		"score":    result.Score,
	})
}

// handleUnreact handles DELETE /api/v1/posts/{id}/reactions
func (s *Server) handleUnreact(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	postID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Post ID must be a positive integer")
		return
	}

	score, err := s.deps.EngagePostHandler.Unreact(r.Context(), postID, userID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"score": score,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListEvents handles GET /api/v1/events
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := query.ListEventsQuery{
		Offset: getQueryParamInt(r, "offset", 0),
		Limit:  getQueryParamInt(r, "limit", 20),
	}
	if after := getQueryParam(r, "after", ""); after != "" {
		if t, err := time.Parse(time.RFC3339, after); err == nil {
			q.After = t
		}
	}

	events, err := s.deps.ListEventsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, events, &ResponseMeta{
		TotalCount: len(events),
		PageSize:   q.Limit,
		HasMore:    len(events) == q.Limit,
	})
}

// handleCreateEvent handles POST /api/v1/events
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	var req CreateEventRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	result, err := s.deps.EventHandler.Create(r.Context(), command.CreateEventCommand{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"event": result.Event,
		"score": result.Score,
	})
}

// handleGetEvent handles GET /api/v1/events/{id}
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Event ID must be a positive integer")
		return
	}

	ev, err := s.deps.ListEventsHandler.Get(r.Context(), eventID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ev)
}

// handleDeleteEvent handles DELETE /api/v1/events/{id}
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request, userID user.UserID, role user.Role) {
	eventID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Event ID must be a positive integer")
		return
	}

	if err := s.deps.EventHandler.Delete(r.Context(), eventID, userID, role); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// handleMarkInterest handles POST /api/v1/events/{id}/interests
func (s *Server) handleMarkInterest(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	eventID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Event ID must be a positive integer")
		return
	}

	var req MarkInterestRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	result, err := s.deps.EventHandler.MarkInterest(r.Context(), command.MarkInterestCommand{
		EventID: eventID,
		UserID:  userID,
		Type:    event.InterestType(req.Type),
	})
	if err != nil {
		switch {
		case errors.Is(err, event.ErrEventNotFound):
			writeJSONError(w, http.StatusNotFound, "event_not_found", "No event with this ID exists")
		case errors.Is(err, event.ErrAlreadyInterested):
			writeJSONError(w, http.StatusConflict, "already_interested", "You have already marked interest in this event")
		default:
			s.writeDomainError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"interest": result.Interest,
		"score":    result.Score,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ASSESSMENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListQuizzes handles GET /api/v1/quizzes
func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	q := query.ListAssessmentsQuery{
		Offset: getQueryParamInt(r, "offset", 0),
		Limit:  getQueryParamInt(r, "limit", 20),
	}

	quizzes, err := s.deps.ListAssessmentsH.ListQuizzes(r.Context(), q)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

// handleCreateQuiz handles POST /api/v1/quizzes
func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	var req CreateQuizRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	result, err := s.deps.AssessmentHandler.CreateQuiz(r.Context(), command.CreateQuizCommand{
		UserID:        userID,
		Title:         req.Title,
		Question:      req.Question,
		Description:   req.Description,
		Answers:       req.Answers,
		CorrectAnswer: req.CorrectAnswer,
		MediaURLs:     req.MediaURLs,
		Visible:       visible,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"quiz":  result.Quiz,
		"score": result.Score,
	})
}

// handleGetQuiz handles GET /api/v1/quizzes/{id}
func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Quiz ID must be a positive integer")
		return
	}

	quiz, err := s.deps.ListAssessmentsH.GetQuiz(r.Context(), quizID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

// handleDeleteQuiz handles DELETE /api/v1/quizzes/{id}
func (s *Server) handleDeleteQuiz(w http.ResponseWriter, r *http.Request, userID user.UserID, role user.Role) {
	quizID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Quiz ID must be a positive integer")
		return
	}

	if err := s.deps.AssessmentHandler.DeleteQuiz(r.Context(), quizID, userID, role); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// handleListCourses handles GET /api/v1/courses
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	q := query.ListAssessmentsQuery{
		Offset: getQueryParamInt(r, "offset", 0),
		Limit:  getQueryParamInt(r, "limit", 20),
	}

	courses, err := s.deps.ListAssessmentsH.ListCourses(r.Context(), q)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// handleCreateCourse handles POST /api/v1/courses
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	var req CreateCourseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	questions := make([]assessment.NewCourseQuestion, len(req.Questions))
	for i, q := range req.Questions {
		questions[i] = assessment.NewCourseQuestion{
			Question:      q.Question,
			Answers:       q.Answers,
			CorrectAnswer: q.CorrectAnswer,
			Marks:         q.Marks,
		}
	}

	result, err := s.deps.AssessmentHandler.CreateCourse(r.Context(), command.CreateCourseCommand{
		UserID:          userID,
		Title:           req.Title,
		Description:     req.Description,
		ThumbnailURL:    req.ThumbnailURL,
		MediaURLs:       req.MediaURLs,
		ResourceURLs:    req.ResourceURLs,
		MarksForPass:    req.MarksForPass,
		ApplicableGrade: req.ApplicableGrade,
		ApplicableLevel: req.ApplicableLevel,
		Questions:       questions,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"course": result.Course,
		"score":  result.Score,
	})
}

// handleGetCourse handles GET /api/v1/courses/{id}
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Course ID must be a positive integer")
		return
	}

	course, err := s.deps.ListAssessmentsH.GetCourse(r.Context(), courseID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, course)
}

// handleDeleteCourse handles DELETE /api/v1/courses/{id}
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request, userID user.UserID, role user.Role) {
	courseID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Course ID must be a positive integer")
		return
	}

	if err := s.deps.AssessmentHandler.DeleteCourse(r.Context(), courseID, userID, role); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// handleListExamPapers handles GET /api/v1/exam-papers
func (s *Server) handleListExamPapers(w http.ResponseWriter, r *http.Request) {
	q := query.ListAssessmentsQuery{
		Offset: getQueryParamInt(r, "offset", 0),
		Limit:  getQueryParamInt(r, "limit", 20),
		Grade:  getQueryParamInt(r, "grade", 0),
	}

	papers, err := s.deps.ListAssessmentsH.ListExamPapers(r.Context(), q)
	if err != nil {
		s.writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, papers)
}

// handleShareExamPaper handles POST /api/v1/exam-papers
func (s *Server) handleShareExamPaper(w http.ResponseWriter, r *http.Request, userID user.UserID, _ user.Role) {
	var req ShareExamPaperRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	paper, err := s.deps.AssessmentHandler.ShareExamPaper(r.Context(), command.ShareExamPaperCommand{
		UserID:      userID,
		Subject:     req.Subject,
		Grade:       req.Grade,
		School:      req.School,
		Semester:    req.Semester,
		Year:        req.Year,
		ExamType:    req.ExamType,
		Description: req.Description,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, paper)
}

// handleGetExamPaper handles GET /api/v1/exam-papers/{id}
func (s *Server) handleGetExamPaper(w http.ResponseWriter, r *http.Request) {
	paperID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Exam paper ID must be a positive integer")
		return
	}

	paper, err := s.deps.ListAssessmentsH.GetExamPaper(r.Context(), paperID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paper)
}

// handleDeleteExamPaper handles DELETE /api/v1/exam-papers/{id}
func (s *Server) handleDeleteExamPaper(w http.ResponseWriter, r *http.Request, userID user.UserID, role user.Role) {
	paperID, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_id", "Exam paper ID must be a positive integer")
		return
	}

	if err := s.deps.AssessmentHandler.DeleteExamPaper(r.Context(), paperID, userID, role); err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRunPromotion handles POST /api/v1/admin/promotions
func (s *Server) handleRunPromotion(w http.ResponseWriter, r *http.Request) {
	var req RunPromotionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeJSONErrorWithDetails(w, http.StatusBadRequest, "invalid_request", "Request validation failed", validationDetails(err))
		return
	}

	year := req.AcademicYear
	if year == 0 {
		year = timeutil.AcademicYear(timeutil.Now())
	}

	result, err := s.deps.PromotionHandler.Handle(r.Context(), command.PromoteGradesCommand{AcademicYear: year})
	if err != nil {
		s.writeInternalError(w, err)
		return
	}

	status := http.StatusOK
	if result.AlreadyRan {
		// Report the no-op explicitly so operators can tell it apart.
		writeJSON(w, status, map[string]interface{}{
			"academic_year": result.AcademicYear,
			"already_ran":   true,
		})
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"academic_year": result.AcademicYear,
		"already_ran":   false,
		"total":         result.Total,
		"advanced":      result.Advanced,
		"completed":     result.Completed,
		"duration":      result.Duration.String(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError maps common domain errors to 4xx responses and
// everything else to 500.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		writeJSONError(w, http.StatusNotFound, "user_not_found", "No user with this ID exists")
	case errors.Is(err, content.ErrPostNotFound):
		writeJSONError(w, http.StatusNotFound, "post_not_found", "No post with this ID exists")
	case errors.Is(err, content.ErrCommentNotFound):
		writeJSONError(w, http.StatusNotFound, "comment_not_found", "No comment with this ID exists")
	case errors.Is(err, content.ErrReactionNotFound):
		writeJSONError(w, http.StatusNotFound, "reaction_not_found", "You have not reacted to this post")
	case errors.Is(err, event.ErrEventNotFound):
		writeJSONError(w, http.StatusNotFound, "event_not_found", "No event with this ID exists")
	case errors.Is(err, assessment.ErrQuizNotFound):
		writeJSONError(w, http.StatusNotFound, "quiz_not_found", "No quiz with this ID exists")
	case errors.Is(err, assessment.ErrCourseNotFound):
		writeJSONError(w, http.StatusNotFound, "course_not_found", "No course with this ID exists")
	case errors.Is(err, assessment.ErrExamPaperNotFound):
		writeJSONError(w, http.StatusNotFound, "exam_paper_not_found", "No exam paper with this ID exists")
	case errors.Is(err, command.ErrNotOwner):
		writeJSONError(w, http.StatusForbidden, "not_owner", "Only the author or an admin may modify this")
	case isValidationError(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.writeInternalError(w, err)
	}
}

// isValidationError reports whether the error is a domain-level input
// rejection rather than an infrastructure failure.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		user.ErrInvalidEmail,
		user.ErrInvalidName,
		user.ErrInvalidRole,
		user.ErrInvalidGrade,
		content.ErrInvalidTitle,
		content.ErrEmptyComment,
		event.ErrInvalidEventTitle,
		event.ErrTooManyMediaURLs,
		event.ErrInvalidInterest,
		event.ErrEventInPast,
		assessment.ErrInvalidQuizTitle,
		assessment.ErrInvalidQuestion,
		assessment.ErrTooFewAnswers,
		assessment.ErrTooManyAnswers,
		assessment.ErrCorrectOutOfRange,
		assessment.ErrInvalidCourseTitle,
		assessment.ErrNoQuestions,
		assessment.ErrInvalidMarks,
		assessment.ErrInvalidSubject,
		assessment.ErrTooManyAttachments,
		assessment.ErrInvalidPaperGrade,
		assessment.ErrInvalidPassThreshold,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func (s *Server) writeInternalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", logger.Err(err))
	writeJSONError(w, http.StatusInternalServerError, "internal_error", "Something went wrong, please try again")
}

// pathID parses the {id} path segment as a positive int64.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
