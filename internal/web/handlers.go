package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/services"
)

type addTaskRequest struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

type toggleRowRequest struct {
	Checked *bool `json:"checked"`
}

var mapper = domain.NewTaskMapper()

func (s *Server) handleListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   mapper.ToRecordSlice(s.service.Tasks()),
	})
}

func (s *Server) handleAddTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	mode, err := services.ParseAddMode(req.Mode)
	if err != nil {
		s.respondError(c, errors.NewInvalidInputError("mode", req.Mode, err.Error()))
		return
	}

	if err := s.service.Add(c.Request.Context(), req.Name, mode); err != nil {
		s.respondError(c, err)
		return
	}

	status := http.StatusCreated
	if mode == services.AddDelayed {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{
		"success": true,
		"mode":    mode,
		"tasks":   mapper.ToRecordSlice(s.service.Tasks()),
		"notices": requestNotices(c),
	})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	confirmer, prompted := confirmFromQuery(c)

	deleted, err := s.service.Delete(c.Request.Context(), c.Param("name"), confirmer)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "confirmation required",
			"prompt":  *prompted,
			"notices": requestNotices(c),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   mapper.ToRecordSlice(s.service.Tasks()),
		"notices": requestNotices(c),
	})
}

func (s *Server) handleClearTasks(c *gin.Context) {
	confirmer, prompted := confirmFromQuery(c)

	cleared, err := s.service.ClearAll(c.Request.Context(), confirmer)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !cleared {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "confirmation required",
			"prompt":  *prompted,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"notices": requestNotices(c),
	})
}

func (s *Server) handleOpenView(c *gin.Context) {
	view := s.service.NewView()
	if err := view.Open(c.Request.Context()); err != nil {
		s.service.CloseView(view.ID())
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      view.ID(),
		"rows":    view.Rows(),
		"notices": requestNotices(c),
	})
}

func (s *Server) handleGetView(c *gin.Context) {
	view, ok := s.lookupView(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      view.ID(),
		"rows":    view.Rows(),
	})
}

func (s *Server) handleCloseView(c *gin.Context) {
	if _, ok := s.lookupView(c); !ok {
		return
	}
	s.service.CloseView(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleToggleRow(c *gin.Context) {
	view, ok := s.lookupView(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.respondError(c, errors.NewInvalidInputError("index", c.Param("index"), "must be a number"))
		return
	}

	var req toggleRowRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Checked == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "checked is required",
		})
		return
	}

	if err := view.Toggle(index, *req.Checked); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      view.ID(),
		"rows":    view.Rows(),
	})
}

func (s *Server) handleSaveView(c *gin.Context) {
	view, ok := s.lookupView(c)
	if !ok {
		return
	}

	if err := view.Save(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"notices": requestNotices(c),
	})
}

func (s *Server) handleNotices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"notices": s.feed.Drain(),
	})
}

func (s *Server) lookupView(c *gin.Context) (*services.View, bool) {
	view, ok := s.service.View(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "view not found",
		})
		return nil, false
	}
	return view, true
}

func (s *Server) respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"success": false,
		"error":   errors.GetUserMessage(err),
		"code":    errors.GetErrorCode(err),
		"notices": requestNotices(c),
	})
}

// confirmFromQuery answers prompts with the confirm query parameter and
// records the last prompt asked.
func confirmFromQuery(c *gin.Context) (services.Confirmer, *string) {
	accept := c.Query("confirm") == "true"
	prompt := new(string)
	return services.ConfirmFunc(func(p string) bool {
		*prompt = p
		return accept
	}), prompt
}

func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeDuplicate:
		return http.StatusConflict
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
