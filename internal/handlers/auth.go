package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both register and login.
type authCredentials struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"s3cret"`
}

type registerResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *Handler) register(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input, errMsgCredentialsReq); !ok {
		return
	}

	u, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_register_failed", "username", input.Username)
		return
	}

	h.log.Infow("auth_registered", "user_id", u.ID, "username", u.Username)
	c.JSON(http.StatusCreated, registerResponse{ID: u.ID, Username: u.Username})
}

// @Summary      Login
// @Description  Unknown user and wrong password produce the same response.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input, errMsgCredentialsReq); !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondError(c, err, "auth_login_failed", "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}
