package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const msgInvalidBody = "Invalid request body"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		s.writeError(c, common.NewAPIError(http.StatusBadRequest, msgInvalidBody, err))
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	writeSuccess(c, http.StatusCreated, user, "User created successfully")
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		s.writeError(c, common.NewAPIError(http.StatusBadRequest, msgInvalidBody, err))
		return
	}

	session, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.setSessionCookies(c, session.AccessToken, session.RefreshToken)
	writeSuccess(c, http.StatusOK, session, "Login successful")
}

func (s *HTTPServer) logout(c *gin.Context) {
	if err := s.users.Logout(c.Request.Context(), identityID(c)); err != nil {
		s.writeError(c, err)
		return
	}

	s.clearSessionCookies(c)
	writeSuccess(c, http.StatusOK, nil, "Logout successful")
}
