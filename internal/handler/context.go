package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/schoolpilot/schoolpilot-api/internal/middleware"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
)

func currentStaff(c *gin.Context) (*models.Staff, bool) {
	value, ok := c.Get(middleware.ContextStaffKey)
	if !ok {
		return nil, false
	}
	staff, ok := value.(*models.Staff)
	return staff, ok
}

func currentStudent(c *gin.Context) (*models.Student, bool) {
	value, ok := c.Get(middleware.ContextStudentKey)
	if !ok {
		return nil, false
	}
	student, ok := value.(*models.Student)
	return student, ok
}

func currentAccount(c *gin.Context) (*models.Account, bool) {
	value, ok := c.Get(middleware.ContextAccountKey)
	if !ok {
		return nil, false
	}
	account, ok := value.(*models.Account)
	return account, ok
}

func currentToken(c *gin.Context) string {
	return c.GetString(middleware.ContextTokenKey)
}
