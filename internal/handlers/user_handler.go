package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"user-registry-api/internal/logging"
	"user-registry-api/internal/models"
	"user-registry-api/internal/services"
	"user-registry-api/pkg/lambda"
)

// CreateUserResponse is returned after a user is saved
type CreateUserResponse struct {
	Message    string `json:"message"`
	UserID     string `json:"userId"`
	SavedName  string `json:"savedName"`
	CreateDate string `json:"createDate"`
}

// UserResponse is the public view of a stored user
type UserResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Date   string `json:"date"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		UserID: user.ID,
		Name:   user.Name,
		Date:   user.CreatedAt,
	}
}

// UserHandler serves the user registry both as Lambda functions and as gin
// routes. Both surfaces share the same request handling.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// result is a status code and a JSON payload ready to be written
type result struct {
	status  int
	payload interface{}
}

func errorResult(status int, message string) result {
	return result{status: status, payload: ErrorResponse{Error: message}}
}

func (h *UserHandler) createUser(ctx context.Context, body []byte) result {
	log := logging.FromContext(ctx)
	log.WithField("body", string(body)).Info("Create user request received")

	var req services.CreateUserRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.WithError(err).Error("Failed to decode create user request")
		return errorResult(http.StatusInternalServerError, fmt.Sprintf(msgCreateFailedFmt, err))
	}

	user, err := h.userService.CreateUser(ctx, &req)
	if err != nil {
		switch status := statusFor(err); status {
		case http.StatusBadRequest:
			return errorResult(status, msgMissingName)
		case http.StatusConflict:
			return errorResult(status, msgNameTaken)
		default:
			log.WithError(err).Error("Failed to create user")
			return errorResult(http.StatusInternalServerError, fmt.Sprintf(msgCreateFailedFmt, err))
		}
	}

	return result{
		status: http.StatusOK,
		payload: CreateUserResponse{
			Message:    "User saved successfully!",
			UserID:     user.ID,
			SavedName:  user.Name,
			CreateDate: user.CreatedAt,
		},
	}
}

func (h *UserHandler) getUser(ctx context.Context, userID string) result {
	if userID == "" {
		return errorResult(http.StatusBadRequest, msgMissingUserID)
	}

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		switch status := statusFor(err); status {
		case http.StatusBadRequest:
			return errorResult(status, msgMissingUserID)
		case http.StatusNotFound:
			return errorResult(status, msgUserNotFound)
		default:
			logging.FromContext(ctx).WithError(err).WithField("user_id", userID).Error("Failed to get user")
			return errorResult(http.StatusInternalServerError, err.Error())
		}
	}

	return result{status: http.StatusOK, payload: newUserResponse(user)}
}

func (h *UserHandler) searchUsers(ctx context.Context, name string) result {
	if strings.TrimSpace(name) == "" {
		return errorResult(http.StatusBadRequest, msgMissingNameArg)
	}

	users, err := h.userService.SearchUsersByName(ctx, name)
	if err != nil {
		if isValidationError(err) {
			return errorResult(http.StatusBadRequest, msgMissingNameArg)
		}
		logging.FromContext(ctx).WithError(err).WithField("name", name).Error("Failed to search users")
		return errorResult(http.StatusInternalServerError, err.Error())
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, newUserResponse(user))
	}
	return result{status: http.StatusOK, payload: resp}
}

// Lambda handler methods

// HandleCreate creates a user from the request body
func (h *UserHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	res := h.createUser(ctx, req.Body)
	return lambda.JSON(res.status, res.payload), nil
}

// HandleGet returns the user named by the userId path parameter
func (h *UserHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	res := h.getUser(ctx, req.PathParam("userId"))
	return lambda.JSON(res.status, res.payload), nil
}

// HandleSearch returns every user whose name equals the name query parameter
func (h *UserHandler) HandleSearch(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	res := h.searchUsers(ctx, req.QueryParam("name"))
	return lambda.JSON(res.status, res.payload), nil
}

// Gin handler methods

// @Summary Create a user
// @Description Register a user under a name no other user holds. The date field is accepted and ignored.
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.CreateUserRequest true "User data"
// @Success 200 {object} CreateUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf(msgCreateFailedFmt, err)})
		return
	}

	res := h.createUser(c.Request.Context(), body)
	c.JSON(res.status, res.payload)
}

// @Summary Get a user
// @Description Get a user by ID
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{userId} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	res := h.getUser(c.Request.Context(), c.Param("userId"))
	c.JSON(res.status, res.payload)
}

// @Summary Search users by name
// @Description Return every user whose name equals the query. No match is an empty list.
// @Tags users
// @Produce json
// @Param name query string true "Exact user name"
// @Success 200 {array} UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	res := h.searchUsers(c.Request.Context(), c.Query("name"))
	c.JSON(res.status, res.payload)
}
