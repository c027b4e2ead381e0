package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type addTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *HTTPServer) listTodos(c *gin.Context) {
	items, err := s.todos.List(c.Request.Context(), identityID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	writeSuccess(c, http.StatusOK, items, "Todos fetched successfully")
}

func (s *HTTPServer) addTodo(c *gin.Context) {
	var req addTodoRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		s.writeError(c, common.NewAPIError(http.StatusBadRequest, msgInvalidBody, err))
		return
	}

	todo, err := s.todos.Add(c.Request.Context(), identityID(c), req.Title, req.Description)
	if err != nil {
		s.writeError(c, err)
		return
	}

	writeSuccess(c, http.StatusCreated, todo, "Todo added successfully")
}

func (s *HTTPServer) removeTodo(c *gin.Context) {
	if err := s.todos.Remove(c.Request.Context(), identityID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}

	writeSuccess(c, http.StatusOK, nil, "Todo removed successfully")
}
